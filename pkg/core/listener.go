package core

// Listener receives enter/exit events while Walk traverses a statement.
//
// Events arrive strictly in pre-order. Expressions are not reported
// individually; Walk only descends into them to reach nested query specs.
type Listener interface {
	EnterStatement(stmt Stmt) error
	ExitStatement(stmt Stmt) error

	// EnterQuerySpec reports whether Walk should descend into spec. When it
	// returns false neither the children nor ExitQuerySpec are visited.
	EnterQuerySpec(spec *QuerySpec) (bool, error)
	ExitQuerySpec(spec *QuerySpec) error

	EnterFromElementSpace(space *FromElementSpace) error
	ExitFromElementSpace(space *FromElementSpace) error

	EnterRootEntity(root *RootEntity) error
	EnterCrossJoin(join *CrossJoin) error
	EnterQualifiedJoin(join *QualifiedJoin) error
	EnterCollectionJoin(join *CollectionJoin) error

	// EnterDmlRoot is called for the target entity of insert, update and
	// delete statements, before any query spec of the statement.
	EnterDmlRoot(target *EntityName) error
}

// BaseListener implements Listener with no-op methods. Embed it to override
// only the events of interest.
type BaseListener struct{}

var _ Listener = BaseListener{}

// EnterStatement implements Listener.
func (BaseListener) EnterStatement(Stmt) error { return nil }

// ExitStatement implements Listener.
func (BaseListener) ExitStatement(Stmt) error { return nil }

// EnterQuerySpec implements Listener.
func (BaseListener) EnterQuerySpec(*QuerySpec) (bool, error) { return true, nil }

// ExitQuerySpec implements Listener.
func (BaseListener) ExitQuerySpec(*QuerySpec) error { return nil }

// EnterFromElementSpace implements Listener.
func (BaseListener) EnterFromElementSpace(*FromElementSpace) error { return nil }

// ExitFromElementSpace implements Listener.
func (BaseListener) ExitFromElementSpace(*FromElementSpace) error { return nil }

// EnterRootEntity implements Listener.
func (BaseListener) EnterRootEntity(*RootEntity) error { return nil }

// EnterCrossJoin implements Listener.
func (BaseListener) EnterCrossJoin(*CrossJoin) error { return nil }

// EnterQualifiedJoin implements Listener.
func (BaseListener) EnterQualifiedJoin(*QualifiedJoin) error { return nil }

// EnterCollectionJoin implements Listener.
func (BaseListener) EnterCollectionJoin(*CollectionJoin) error { return nil }

// EnterDmlRoot implements Listener.
func (BaseListener) EnterDmlRoot(*EntityName) error { return nil }

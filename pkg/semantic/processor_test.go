package semantic

import (
	"testing"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClauseProcessor_ScopeInvariants(t *testing.T) {
	tests := []struct {
		name    string
		run     func(p *FromClauseProcessor) error
		wantMsg string
	}{
		{
			name: "query spec exit without an open scope",
			run: func(p *FromClauseProcessor) error {
				if err := p.EnterStatement(&core.SelectStatement{}); err != nil {
					return err
				}
				return p.ExitQuerySpec(&core.QuerySpec{})
			},
			wantMsg: "no query spec scope is open",
		},
		{
			name: "statement exit with a scope still open",
			run: func(p *FromClauseProcessor) error {
				stmt := &core.SelectStatement{Query: &core.QuerySpec{Select: &core.SelectClause{}}}
				if err := p.EnterStatement(stmt); err != nil {
					return err
				}
				if _, err := p.EnterQuerySpec(stmt.Query); err != nil {
					return err
				}
				return p.ExitStatement(stmt)
			},
			wantMsg: "1 scopes still open at end of statement",
		},
		{
			name: "space outside a query spec",
			run: func(p *FromClauseProcessor) error {
				return p.EnterFromElementSpace(&core.FromElementSpace{})
			},
			wantMsg: "no query spec scope is open",
		},
		{
			name: "root outside a space",
			run: func(p *FromClauseProcessor) error {
				spec := &core.QuerySpec{Select: &core.SelectClause{}}
				if _, err := p.EnterQuerySpec(spec); err != nil {
					return err
				}
				return p.EnterRootEntity(&core.RootEntity{EntityName: "Person", Alias: "p"})
			},
			wantMsg: "no from element space is open",
		},
		{
			name: "query spec exit while the statement target is current",
			run: func(p *FromClauseProcessor) error {
				stmt := &core.UpdateStatement{Target: &core.EntityName{Name: "Person", Alias: "p"}}
				if err := p.EnterStatement(stmt); err != nil {
					return err
				}
				if err := p.EnterDmlRoot(stmt.Target); err != nil {
					return err
				}
				return p.ExitQuerySpec(&core.QuerySpec{})
			},
			wantMsg: "statement target scope is current",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			err := tt.run(f.interp.processor)
			require.Error(t, err)
			assert.True(t, IsBuilderInvariant(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFromClauseProcessor_BalancedScopes(t *testing.T) {
	f := newFixture(t, false)
	p := f.interp.processor

	spec := &core.QuerySpec{Select: &core.SelectClause{}}
	stmt := &core.SelectStatement{Query: spec}
	space := &core.FromElementSpace{Root: &core.RootEntity{EntityName: "Person", Alias: "p"}}

	require.NoError(t, p.EnterStatement(stmt))
	enter, err := p.EnterQuerySpec(spec)
	require.NoError(t, err)
	require.True(t, enter)
	require.NoError(t, p.EnterFromElementSpace(space))
	require.NoError(t, p.EnterRootEntity(space.Root))
	require.NoError(t, p.ExitFromElementSpace(space))
	require.NoError(t, p.ExitQuerySpec(spec))
	require.NoError(t, p.ExitStatement(stmt))

	id, ok := f.interp.specScopes[spec]
	require.True(t, ok)
	scope := f.interp.Scopes().Get(id)
	require.Len(t, scope.FromClause.Spaces, 1)
	assert.Equal(t, "p", scope.FromClause.Spaces[0].Root.Alias())

	// a finished query spec is not entered again
	enter, err = p.EnterQuerySpec(spec)
	require.NoError(t, err)
	assert.False(t, enter)
}

func TestFromClauseProcessor_UpdateTargetScope(t *testing.T) {
	f := newFixture(t, false)
	p := f.interp.processor

	stmt := &core.UpdateStatement{Target: &core.EntityName{Name: "Person", Alias: "p"}}
	require.NoError(t, p.EnterStatement(stmt))
	require.NoError(t, p.EnterDmlRoot(stmt.Target))
	require.NoError(t, p.ExitStatement(stmt))
	require.NotNil(t, p.dml)
	assert.Equal(t, "p", p.dml.DmlRoot.Alias())
}

package semantic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapql/pkg/token"
)

// Error is implemented by every semantic error. Position is invalid when the
// failing construct has no source text, as for criteria queries.
type Error interface {
	error
	Position() token.Position
}

// baseError carries the position and message shared by semantic errors.
type baseError struct {
	pos token.Position
	msg string
}

func (e *baseError) Position() token.Position { return e.pos }

func (e *baseError) Error() string {
	if e.pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.pos, e.msg)
	}
	return e.msg
}

// at records pos unless a position is already known.
func (e *baseError) at(pos token.Position) {
	if !e.pos.IsValid() {
		e.pos = pos
	}
}

type positioner interface {
	at(pos token.Position)
}

// withPosition attaches pos to err when err is a semantic error without one.
func withPosition(err error, pos token.Position) error {
	var p positioner
	if errors.As(err, &p) {
		p.at(pos)
	}
	return err
}

// UnresolvedReferenceError reports a name that does not resolve to an
// entity, attribute, alias or constant, or an illegal dereference.
type UnresolvedReferenceError struct {
	baseError
	Name        string
	Suggestions []string
}

func newUnresolved(name string, suggestions []string, format string, args ...any) *UnresolvedReferenceError {
	msg := fmt.Sprintf(format, args...)
	if len(suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
	}
	return &UnresolvedReferenceError{baseError: baseError{msg: msg}, Name: name, Suggestions: suggestions}
}

// NewUnresolvedReference reports name as unresolvable. Suggestions, if
// any, are appended to the message.
func NewUnresolvedReference(name string, suggestions []string, format string, args ...any) *UnresolvedReferenceError {
	return newUnresolved(name, suggestions, format, args...)
}

// AmbiguousReferenceError reports an unqualified attribute exposed by more
// than one from element of the same scope.
type AmbiguousReferenceError struct {
	baseError
	Name    string
	Aliases []string
}

func newAmbiguous(name string, aliases []string) *AmbiguousReferenceError {
	return &AmbiguousReferenceError{
		baseError: baseError{msg: fmt.Sprintf("ambiguous reference %q: exposed by %s", name, strings.Join(aliases, ", "))},
		Name:      name,
		Aliases:   aliases,
	}
}

// AliasCollisionError reports an alias bound twice in one scope, or a
// selection alias clashing with a from element of a different type.
type AliasCollisionError struct {
	baseError
	Alias string
}

func newAliasCollision(alias, format string, args ...any) *AliasCollisionError {
	return &AliasCollisionError{baseError: baseError{msg: fmt.Sprintf(format, args...)}, Alias: alias}
}

func reservedAlias(alias string) *AliasCollisionError {
	return newAliasCollision(alias, "alias %q is reserved for implicit aliases", alias)
}

// StrictReason names the rule a strict-mode violation broke.
type StrictReason string

// Strict compliance reasons.
const (
	ReasonImplicitSelect       StrictReason = "implicit-select"
	ReasonUnmappedPolymorphism StrictReason = "unmapped-polymorphism"
	ReasonAliasedFetchJoin     StrictReason = "aliased-fetch-join"
)

// StrictComplianceError is raised only when strict compliance is requested.
type StrictComplianceError struct {
	baseError
	Reason StrictReason
}

func newStrictViolation(reason StrictReason, format string, args ...any) *StrictComplianceError {
	msg := fmt.Sprintf("strict compliance violation (%s): %s", reason, fmt.Sprintf(format, args...))
	return &StrictComplianceError{baseError: baseError{msg: msg}, Reason: reason}
}

// PolymorphicJoinError reports an unmapped polymorphic entity used anywhere
// other than a query root. It is raised regardless of strict mode.
type PolymorphicJoinError struct {
	baseError
	Entity string
}

// BuilderInvariantError reports misuse of the interpretation machinery, such
// as unbalanced scopes or building after wrap-up. It indicates a bug in the
// caller rather than in the query.
type BuilderInvariantError struct {
	baseError
}

func newInvariant(format string, args ...any) *BuilderInvariantError {
	return &BuilderInvariantError{baseError{msg: "builder invariant violated: " + fmt.Sprintf(format, args...)}}
}

// ParameterError reports an invalid use of query parameters found during
// wrap-up.
type ParameterError struct {
	baseError
	Label string
}

// InterpretationError wraps any failure that is not a recognized semantic or
// parse error, together with the query being interpreted.
type InterpretationError struct {
	Query string
	Cause error
}

func (e *InterpretationError) Error() string {
	return fmt.Sprintf("failed to interpret query %q: %v", e.Query, e.Cause)
}

func (e *InterpretationError) Unwrap() error { return e.Cause }

// IsUnresolvedReference reports whether err is an UnresolvedReferenceError.
func IsUnresolvedReference(err error) bool {
	var target *UnresolvedReferenceError
	return errors.As(err, &target)
}

// IsAmbiguousReference reports whether err is an AmbiguousReferenceError.
func IsAmbiguousReference(err error) bool {
	var target *AmbiguousReferenceError
	return errors.As(err, &target)
}

// IsAliasCollision reports whether err is an AliasCollisionError.
func IsAliasCollision(err error) bool {
	var target *AliasCollisionError
	return errors.As(err, &target)
}

// IsStrictViolation reports whether err is a StrictComplianceError with the
// given reason. An empty reason matches any.
func IsStrictViolation(err error, reason StrictReason) bool {
	var target *StrictComplianceError
	if !errors.As(err, &target) {
		return false
	}
	return reason == "" || target.Reason == reason
}

// IsBuilderInvariant reports whether err is a BuilderInvariantError.
func IsBuilderInvariant(err error) bool {
	var target *BuilderInvariantError
	return errors.As(err, &target)
}

// InvalidExpressionError reports an expression used where its kind or type
// is not allowed, such as a string-valued expression used as a predicate.
type InvalidExpressionError struct {
	baseError
}

func newInvalid(format string, args ...any) *InvalidExpressionError {
	return &InvalidExpressionError{baseError{msg: fmt.Sprintf(format, args...)}}
}

// NewInvalidExpression reports an expression that is not allowed where it
// is used.
func NewInvalidExpression(format string, args ...any) *InvalidExpressionError {
	return newInvalid(format, args...)
}

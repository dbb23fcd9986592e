package semantic

import (
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/parser"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// Interpret parses query and interprets it. Parse errors, lexer errors and
// semantic errors are returned unwrapped; any other failure is wrapped in an
// InterpretationError carrying the query text.
func Interpret(query string, ctx ConsumerContext, opts Options) (sqm.Statement, error) {
	start := time.Now()
	stmt, err := parser.Parse(query)
	if err != nil {
		opts.Metrics.Observe("unknown", start, err)
		return nil, classify(query, err)
	}
	return InterpretStatement(query, stmt, ctx, opts)
}

// InterpretStatement interprets an already parsed statement. query is only
// used to report failures.
func InterpretStatement(query string, stmt core.Stmt, ctx ConsumerContext, opts Options) (result sqm.Statement, err error) {
	start := time.Now()
	interp := NewInterpretation(ctx, opts)
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &InterpretationError{Query: query, Cause: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			interp.logger.Debug("interpretation failed", "error", err)
		}
		interp.metrics.Observe(statementKind(stmt), start, err)
	}()

	result, err = interp.Process(stmt)
	if err != nil {
		return nil, classify(query, err)
	}
	return result, nil
}

// Process runs both passes over stmt and wraps up the result.
func (i *Interpretation) Process(stmt core.Stmt) (sqm.Statement, error) {
	if err := core.Walk(stmt, i.processor); err != nil {
		return nil, err
	}

	var (
		out sqm.Statement
		err error
	)
	switch s := stmt.(type) {
	case *core.SelectStatement:
		out, err = i.selectStatement(s)
	case *core.InsertStatement:
		out, err = i.insertStatement(s)
	case *core.UpdateStatement:
		out, err = i.updateStatement(s)
	case *core.DeleteStatement:
		out, err = i.deleteStatement(s)
	default:
		err = newInvariant("unsupported statement %T", stmt)
	}
	if err != nil {
		return nil, err
	}
	if err := i.WrapUp(out); err != nil {
		return nil, err
	}
	return out, nil
}

// classify passes recognized domain errors through and wraps the rest.
func classify(query string, err error) error {
	var (
		semErr   Error
		parseErr *parser.ParseError
		lexErr   *parser.LexError
	)
	if errors.As(err, &semErr) || errors.As(err, &parseErr) || errors.As(err, &lexErr) {
		return err
	}
	return &InterpretationError{Query: query, Cause: err}
}

func statementKind(stmt core.Stmt) string {
	switch stmt.(type) {
	case *core.SelectStatement:
		return sqm.KindSelect.String()
	case *core.InsertStatement:
		return sqm.KindInsert.String()
	case *core.UpdateStatement:
		return sqm.KindUpdate.String()
	case *core.DeleteStatement:
		return sqm.KindDelete.String()
	default:
		return "unknown"
	}
}

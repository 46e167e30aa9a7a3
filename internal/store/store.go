// Package store provides read access to the relational backend holding the
// doctors and institutions tables. Connections are opened per query and
// released unconditionally, so a failed statement can never leak one.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MaxResultRows caps how many rows are rendered into the textual result
// handed to the answer model. The full row count is still reported when the
// result is truncated.
const MaxResultRows = 10

// Store defines the relational backend contract consumed by the SQL pipeline.
type Store interface {
	// Query executes sqlText and returns the fetched rows.
	// Failures are reported as *QueryError.
	Query(ctx context.Context, sqlText string) (*Result, error)

	// SchemaDescription returns a textual snapshot of the named tables'
	// structure, suitable for inclusion in a prompt. Returns an empty
	// string with an error when introspection fails.
	SchemaDescription(ctx context.Context, tables []string) (string, error)

	// Available reports whether the backend can currently be reached.
	Available() bool
}

// QueryError reports a failed store interaction (syntax, connectivity,
// permission).
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("SQL Execution Error: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsQueryError reports whether err is (or wraps) a QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// Result holds the rows fetched for one query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Format renders the result as a row-tuple list, capped at MaxResultRows.
// Empty results render as "[]"; truncated results carry a note with the
// total row count.
func (r *Result) Format() string {
	if r == nil || len(r.Rows) == 0 {
		return "[]"
	}

	limit := len(r.Rows)
	truncated := false
	if limit > MaxResultRows {
		limit = MaxResultRows
		truncated = true
	}

	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < limit; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatRow(r.Rows[i]))
	}
	sb.WriteString("]")

	if truncated {
		sb.WriteString(fmt.Sprintf("\n... (results truncated, total %d rows found)", len(r.Rows)))
	}
	return sb.String()
}

func formatRow(row []any) string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, v := range row {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch tv := v.(type) {
		case nil:
			sb.WriteString("NULL")
		case string:
			sb.WriteString("'" + tv + "'")
		default:
			fmt.Fprintf(&sb, "%v", tv)
		}
	}
	sb.WriteString(")")
	return sb.String()
}

package executor

import (
	"fmt"
	"strings"

	"relcore/pkg/types"
)

// Result is the surface every Execute call returns: a message always, and
// for SELECT/SHOW the projected column metadata and materialized rows.
type Result struct {
	ColumnNames      []string
	ColumnAttributes []types.Kind
	Rows             []types.Row
	Message          string
}

// message builds a result that carries only a message (DDL, INSERT,
// DELETE).
func message(format string, args ...any) *Result {
	return &Result{Message: fmt.Sprintf(format, args...)}
}

// String renders the result the way a CLI would print it: column headers,
// a separator line, then one row per line with TEXT values quoted,
// BOOLEAN as true/false, INT unquoted. Actual printing is the caller's
// concern (see spec.md §1); this only fixes the reference format so the
// data structure is unambiguous.
func (r *Result) String() string {
	if len(r.ColumnNames) == 0 {
		return r.Message
	}
	var b strings.Builder
	b.WriteString(strings.Join(r.ColumnNames, "\t"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 8*len(r.ColumnNames)))
	b.WriteString("\n")
	for _, row := range r.Rows {
		cells := make([]string, len(r.ColumnNames))
		for i, col := range r.ColumnNames {
			cells[i] = row[col].String()
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}
	b.WriteString(r.Message)
	return b.String()
}

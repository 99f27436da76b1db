package db

import (
	"fmt"
	"strings"
)

// Conditions accumulates WHERE clauses with positional arguments. Each
// clause uses %d where the placeholder number goes, repeated as needed.
type Conditions struct {
	clauses []string
	args    []any
}

// Add appends a clause bound to value.
func (c *Conditions) Add(clause string, value any) {
	c.args = append(c.args, value)
	n := len(c.args)
	c.clauses = append(c.clauses, strings.ReplaceAll(clause, "%d", fmt.Sprintf("%d", n)))
}

// Where renders "WHERE a AND b", or "" when empty.
func (c *Conditions) Where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

// Args returns the bound arguments.
func (c *Conditions) Args() []any {
	return c.args
}

// Page appends LIMIT/OFFSET placeholders and returns the clause plus the
// full argument list.
func (c *Conditions) Page(limit, offset int) (string, []any) {
	n := len(c.args)
	args := append(append([]any{}, c.args...), limit, offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2), args
}

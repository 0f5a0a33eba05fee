package store

import (
	"fmt"
	"strings"
)

// Scope accumulates the WHERE clause and positional arguments of a query
// against a user-partitioned table. A Scope always carries the owner
// condition first, so no query built from one can reach another user's rows.
//
// Column names are interpolated verbatim and must be compile-time constants.
type Scope struct {
	conditions []string
	args       []any
}

// Owner starts a Scope filtered to rows owned by userID.
func Owner(userID string) *Scope {
	return &Scope{
		conditions: []string{"user_id = $1"},
		args:       []any{userID},
	}
}

// Eq adds an equality condition.
func (s *Scope) Eq(column string, value any) *Scope {
	s.conditions = append(s.conditions, fmt.Sprintf("%s = %s", column, s.Arg(value)))
	return s
}

// Gte adds a greater-than-or-equal condition.
func (s *Scope) Gte(column string, value any) *Scope {
	s.conditions = append(s.conditions, fmt.Sprintf("%s >= %s", column, s.Arg(value)))
	return s
}

// Arg appends a positional argument and returns its placeholder.
func (s *Scope) Arg(value any) string {
	s.args = append(s.args, value)
	return fmt.Sprintf("$%d", len(s.args))
}

// Where renders the accumulated conditions.
func (s *Scope) Where() string {
	return "WHERE " + strings.Join(s.conditions, " AND ")
}

// Args returns the positional arguments in placeholder order.
func (s *Scope) Args() []any {
	return s.args
}

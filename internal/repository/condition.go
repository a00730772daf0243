package repository

import (
	"fmt"
	"strings"
)

// Op is the comparison applied by a condition.
type Op int

const (
	OpEq Op = iota
	OpNeq
	OpLike
)

// Cond is one typed filter predicate. A nil Value with OpEq or OpNeq turns
// into IS NULL / IS NOT NULL.
type Cond struct {
	Column string
	Op     Op
	Value  interface{}
}

func Eq(column string, value interface{}) Cond {
	return Cond{Column: column, Op: OpEq, Value: value}
}

func Neq(column string, value interface{}) Cond {
	return Cond{Column: column, Op: OpNeq, Value: value}
}

func Like(column string, value string) Cond {
	return Cond{Column: column, Op: OpLike, Value: value}
}

// Query describes one Select call. Unless IncludeTrashed is set, a
// "deleted_at IS NULL" predicate is appended after the caller's conditions.
// A zero Limit means no limit.
type Query struct {
	Conds          []Cond
	IncludeTrashed bool
	Skip           int
	Limit          int
	OrderBy        string
}

// buildWhere renders the WHERE clause for q with positional placeholders
// starting at $1. The soft-delete predicate always comes last so the clause
// order matches how conditions were given.
func buildWhere(q Query) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	for _, cond := range q.Conds {
		switch cond.Op {
		case OpEq:
			if cond.Value == nil {
				clauses = append(clauses, fmt.Sprintf("%s IS NULL", cond.Column))
				continue
			}
			args = append(args, cond.Value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", cond.Column, len(args)))
		case OpNeq:
			if cond.Value == nil {
				clauses = append(clauses, fmt.Sprintf("%s IS NOT NULL", cond.Column))
				continue
			}
			args = append(args, cond.Value)
			clauses = append(clauses, fmt.Sprintf("%s <> $%d", cond.Column, len(args)))
		case OpLike:
			args = append(args, fmt.Sprintf("%%%v%%", cond.Value))
			clauses = append(clauses, fmt.Sprintf("%s LIKE $%d", cond.Column, len(args)))
		}
	}

	if !q.IncludeTrashed {
		clauses = append(clauses, "deleted_at IS NULL")
	}

	if len(clauses) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildTail renders ORDER BY / LIMIT / OFFSET for q.
func buildTail(q Query) string {
	var tail strings.Builder

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	fmt.Fprintf(&tail, " ORDER BY %s", orderBy)

	if q.Limit > 0 {
		fmt.Fprintf(&tail, " LIMIT %d", q.Limit)
	}
	if q.Skip > 0 {
		fmt.Fprintf(&tail, " OFFSET %d", q.Skip)
	}

	return tail.String()
}

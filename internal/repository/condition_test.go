package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		expected string
		args     []interface{}
	}{
		{
			name:     "no conditions appends soft delete predicate",
			query:    Query{},
			expected: " WHERE deleted_at IS NULL",
		},
		{
			name:     "no conditions with trashed included renders nothing",
			query:    Query{IncludeTrashed: true},
			expected: "",
		},
		{
			name: "equality condition",
			query: Query{
				Conds: []Cond{Eq("username", "admin")},
			},
			expected: " WHERE username = $1 AND deleted_at IS NULL",
			args:     []interface{}{"admin"},
		},
		{
			name: "nil equality becomes IS NULL",
			query: Query{
				Conds:          []Cond{Eq("resolved_at", nil)},
				IncludeTrashed: true,
			},
			expected: " WHERE resolved_at IS NULL",
		},
		{
			name: "nil inequality becomes IS NOT NULL",
			query: Query{
				Conds:          []Cond{Neq("deleted_at", nil)},
				IncludeTrashed: true,
			},
			expected: " WHERE deleted_at IS NOT NULL",
		},
		{
			name: "like wraps the value",
			query: Query{
				Conds: []Cond{Like("hostname", "lab")},
			},
			expected: " WHERE hostname LIKE $1 AND deleted_at IS NULL",
			args:     []interface{}{"%lab%"},
		},
		{
			name: "placeholders number past null conditions",
			query: Query{
				Conds: []Cond{
					Eq("status", 1),
					Eq("resolved_at", nil),
					Neq("device_id", 4),
				},
				IncludeTrashed: true,
			},
			expected: " WHERE status = $1 AND resolved_at IS NULL AND device_id <> $2",
			args:     []interface{}{1, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildWhere(tt.query)
			assert.Equal(t, tt.expected, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildTail(t *testing.T) {
	assert.Equal(t, " ORDER BY id", buildTail(Query{}))
	assert.Equal(t, " ORDER BY created_at, id", buildTail(Query{OrderBy: "created_at, id"}))
	assert.Equal(t, " ORDER BY id LIMIT 10", buildTail(Query{Limit: 10}))
	assert.Equal(t, " ORDER BY id LIMIT 10 OFFSET 20", buildTail(Query{Limit: 10, Skip: 20}))
}

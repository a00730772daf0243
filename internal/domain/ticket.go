package domain

import "time"

type Ticket struct {
	Record
	Title      string     `db:"title" json:"title"`
	Body       *string    `db:"body" json:"body,omitempty"`
	AssigneeID *int64     `db:"assignee_id" json:"assignee_id,omitempty"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

func (Ticket) Table() string { return "tickets" }

func (Ticket) Columns() []string {
	return []string{"title", "body", "assignee_id", "resolved_at"}
}

type Todo struct {
	Record
	Name       string `db:"name" json:"name"`
	UserID     int64  `db:"user_id" json:"user_id"`
	IsFinished bool   `db:"is_finished" json:"is_finished"`
}

func (Todo) Table() string { return "todos" }

func (Todo) Columns() []string { return []string{"name", "user_id", "is_finished"} }

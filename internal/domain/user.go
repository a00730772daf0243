package domain

import "github.com/lib/pq"

type User struct {
	Record
	Username       string `db:"username" json:"username"`
	Email          string `db:"email" json:"email"`
	Name           string `db:"name" json:"name"`
	HashedPassword string `db:"hashed_password" json:"-"`
	ExternalID     string `db:"external_id" json:"external_id"`
	IsActive       bool   `db:"is_active" json:"is_active"`
}

func (User) Table() string { return "users" }

func (User) Columns() []string {
	return []string{"username", "email", "name", "hashed_password", "external_id", "is_active"}
}

type Role struct {
	Record
	Name   string         `db:"name" json:"name"`
	Scopes pq.StringArray `db:"scopes" json:"scopes"`
}

func (Role) Table() string { return "roles" }

func (Role) Columns() []string { return []string{"name", "scopes"} }

// RoleAssignment links a user to a role. A live row means the user holds the
// role right now; a trashed row is history.
type RoleAssignment struct {
	Record
	UserID int64 `db:"user_id" json:"user_id"`
	RoleID int64 `db:"role_id" json:"role_id"`
}

func (RoleAssignment) Table() string { return "user_has_roles" }

func (RoleAssignment) Columns() []string { return []string{"user_id", "role_id"} }

package domain

import "time"

// Flag records why a user holds a device.
type Flag int16

const (
	FlagReturned Flag = -1
	FlagManage   Flag = 1
	FlagBorrow   Flag = 2
)

// AssignmentStatus tracks whether a custody row is still in force.
type AssignmentStatus int16

const (
	StatusOpen   AssignmentStatus = 0
	StatusClosed AssignmentStatus = 1
)

// CustodyAssignment is one ledger row: user holds (or held) a device.
// Rows are append-only; returning a device never rewrites the facts of an
// existing row.
type CustodyAssignment struct {
	Record
	UserID    int64            `db:"user_id" json:"user_id"`
	DeviceID  int64            `db:"device_id" json:"device_id"`
	Flag      Flag             `db:"flag" json:"flag"`
	Status    AssignmentStatus `db:"status" json:"status"`
	Message   *string          `db:"message" json:"message,omitempty"`
	ExpiredAt *time.Time       `db:"expired_at" json:"expired_at,omitempty"`
}

func (CustodyAssignment) Table() string { return "user_has_devices" }

func (CustodyAssignment) Columns() []string {
	return []string{"user_id", "device_id", "flag", "status", "message", "expired_at"}
}

package domain

import "time"

// Record carries the bookkeeping columns every table shares. DeletedAt nil
// means the row is live; set, the row is trashed but kept for history.
type Record struct {
	ID        int64      `db:"id" json:"id"`
	CreatorID int64      `db:"creator_id" json:"creator_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Meta exposes the shared columns to generic code holding an entity value.
func (r *Record) Meta() *Record { return r }

func (r *Record) Trashed() bool { return r.DeletedAt != nil }

// Entity is anything a store can persist. Columns lists the entity-specific
// insert columns; the shared Record columns are handled by the store itself.
type Entity interface {
	Table() string
	Columns() []string
}

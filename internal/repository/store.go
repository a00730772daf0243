package repository

import (
	"context"

	"github.com/celaops/cela/internal/domain"
)

// Change is one field patch applied by Update.
type Change struct {
	Column string
	Value  interface{}
}

func Set(column string, value interface{}) Change {
	return Change{Column: column, Value: value}
}

// Store is the uniform persistence surface for one entity kind.
//
// Every mutating call persists immediately. Reads and writes are not
// version-checked: two concurrent Updates race last-write-wins. Sequences
// that must be all-or-nothing go through Registry.Transact.
type Store[T domain.Entity] interface {
	// Select returns the records matching q. Trashed records are excluded
	// unless q.IncludeTrashed is set.
	Select(ctx context.Context, q Query) ([]T, error)
	// Count returns how many records match q, ignoring Skip/Limit.
	Count(ctx context.Context, q Query) (int64, error)
	// Get loads one record by id. With includeTrashed false a trashed
	// record reports ErrNotFound.
	Get(ctx context.Context, id int64, includeTrashed bool) (T, error)
	// Create persists rec, assigning identity and creation timestamp.
	Create(ctx context.Context, rec T) (T, error)
	// Update patches a live record field by field and returns the result.
	Update(ctx context.Context, id int64, changes ...Change) (T, error)
	// Delete sets the soft-delete marker on a live record.
	Delete(ctx context.Context, id int64) (T, error)
	// Restore clears the soft-delete marker on a trashed record.
	Restore(ctx context.Context, id int64) (T, error)
	// ForceDelete physically removes a trashed record. It fails with
	// ErrStillLive while the record is live.
	ForceDelete(ctx context.Context, id int64) (T, error)
}

// Registry bundles one Store per entity kind over a shared backend.
type Registry struct {
	Users            Store[domain.User]
	Roles            Store[domain.Role]
	Brands           Store[domain.Brand]
	DeviceCategories Store[domain.DeviceCategory]
	Devices          Store[domain.Device]
	Tickets          Store[domain.Ticket]
	Todos            Store[domain.Todo]
	RoleAssignments  Store[domain.RoleAssignment]
	Assignments      Store[domain.CustodyAssignment]
	AssetNumbers     Store[domain.AssetNumber]

	transact func(ctx context.Context, fn func(*Registry) error) error
}

// Transact runs fn against a registry whose writes commit or roll back as a
// unit. Nested calls reuse the enclosing transaction.
func (r *Registry) Transact(ctx context.Context, fn func(*Registry) error) error {
	return r.transact(ctx, fn)
}

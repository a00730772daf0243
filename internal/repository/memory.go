package repository

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/pkg/errs"
)

// memBackend shares the id sequence, clock and lock across every in-memory
// store of one registry.
type memBackend struct {
	mu     sync.Mutex
	nextID int64
	now    func() time.Time
}

func (b *memBackend) id() int64 {
	b.nextID++
	return b.nextID
}

type memStore[T domain.Entity] struct {
	be   *memBackend
	rows []T
}

func meta[T domain.Entity](row *T) *domain.Record {
	return any(row).(interface{ Meta() *domain.Record }).Meta()
}

func (s *memStore[T]) Select(ctx context.Context, q Query) ([]T, error) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()

	var matched []T
	for i := range s.rows {
		row := s.rows[i]
		if rowMatches(&row, q) {
			matched = append(matched, row)
		}
	}

	if q.Skip > 0 {
		if q.Skip >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	return matched, nil
}

func (s *memStore[T]) Count(ctx context.Context, q Query) (int64, error) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()

	var count int64
	for i := range s.rows {
		row := s.rows[i]
		if rowMatches(&row, q) {
			count++
		}
	}

	return count, nil
}

func (s *memStore[T]) Get(ctx context.Context, id int64, includeTrashed bool) (T, error) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()

	var zero T
	idx := s.index(id, includeTrashed)
	if idx < 0 {
		return zero, errs.ErrNotFound
	}
	return s.rows[idx], nil
}

func (s *memStore[T]) Create(ctx context.Context, rec T) (T, error) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()

	m := meta(&rec)
	m.ID = s.be.id()
	m.CreatedAt = s.be.now()
	m.DeletedAt = nil

	s.rows = append(s.rows, rec)
	return rec, nil
}

func (s *memStore[T]) Update(ctx context.Context, id int64, changes ...Change) (T, error) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()

	var zero T
	idx := s.index(id, false)
	if idx < 0 {
		return zero, errs.ErrNotFound
	}

	row := s.rows[idx]
	rv := reflect.ValueOf(&row).Elem()
	for _, change := range changes {
		field, ok := fieldByColumn(rv, change.Column)
		if !ok {
			return zero, errs.ErrClient
		}
		if err := setColumn(field, change.Value); err != nil {
			return zero, err
		}
	}

	s.rows[idx] = row
	return row, nil
}

func (s *memStore[T]) Delete(ctx context.Context, id int64) (T, error) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()

	var zero T
	idx := s.index(id, false)
	if idx < 0 {
		return zero, errs.ErrNotFound
	}

	row := s.rows[idx]
	at := s.be.now()
	meta(&row).DeletedAt = &at
	s.rows[idx] = row
	return row, nil
}

func (s *memStore[T]) Restore(ctx context.Context, id int64) (T, error) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()

	var zero T
	for i := range s.rows {
		row := s.rows[i]
		m := meta(&row)
		if m.ID == id && m.DeletedAt != nil {
			m.DeletedAt = nil
			s.rows[i] = row
			return row, nil
		}
	}
	return zero, errs.ErrNotFound
}

func (s *memStore[T]) ForceDelete(ctx context.Context, id int64) (T, error) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()

	var zero T
	for i := range s.rows {
		row := s.rows[i]
		m := meta(&row)
		if m.ID != id {
			continue
		}
		if m.DeletedAt == nil {
			return zero, errs.ErrStillLive
		}
		s.rows = append(s.rows[:i], s.rows[i+1:]...)
		return row, nil
	}
	return zero, errs.ErrNotFound
}

// index returns the position of id under the soft-delete visibility rule, or
// -1. Callers hold the backend lock.
func (s *memStore[T]) index(id int64, includeTrashed bool) int {
	for i := range s.rows {
		row := s.rows[i]
		m := meta(&row)
		if m.ID == id && (includeTrashed || m.DeletedAt == nil) {
			return i
		}
	}
	return -1
}

type snapshotter interface {
	snapshot() func()
}

func (s *memStore[T]) snapshot() func() {
	s.be.mu.Lock()
	saved := append([]T(nil), s.rows...)
	s.be.mu.Unlock()
	return func() {
		s.be.mu.Lock()
		s.rows = saved
		s.be.mu.Unlock()
	}
}

func rowMatches[T domain.Entity](row *T, q Query) bool {
	m := meta(row)
	if !q.IncludeTrashed && m.DeletedAt != nil {
		return false
	}

	rv := reflect.ValueOf(row).Elem()
	for _, cond := range q.Conds {
		field, ok := fieldByColumn(rv, cond.Column)
		if !ok {
			return false
		}
		if !condMatches(field, cond) {
			return false
		}
	}
	return true
}

func condMatches(field reflect.Value, cond Cond) bool {
	value := normalize(field)
	switch cond.Op {
	case OpEq:
		if cond.Value == nil {
			return value == nil
		}
		return value != nil && looseEqual(value, cond.Value)
	case OpNeq:
		if cond.Value == nil {
			return value != nil
		}
		return value == nil || !looseEqual(value, cond.Value)
	case OpLike:
		return value != nil && strings.Contains(fmt.Sprint(value), fmt.Sprint(cond.Value))
	}
	return false
}

func normalize(field reflect.Value) interface{} {
	if !field.IsValid() {
		return nil
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil
		}
		field = field.Elem()
	}
	return field.Interface()
}

// looseEqual compares by printed form, mirroring how the SQL layer leans on
// the database's type coercion.
func looseEqual(a, b interface{}) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func fieldByColumn(rv reflect.Value, column string) (reflect.Value, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			if nested, ok := fieldByColumn(rv.Field(i), column); ok {
				return nested, true
			}
			continue
		}
		if f.Tag.Get("db") == column {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func setColumn(field reflect.Value, value interface{}) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		v = v.Elem()
	}

	target := field.Type()
	if field.Kind() == reflect.Ptr {
		elem := reflect.New(target.Elem())
		if !v.Type().ConvertibleTo(target.Elem()) {
			return errs.ErrClient
		}
		elem.Elem().Set(v.Convert(target.Elem()))
		field.Set(elem)
		return nil
	}

	if !v.Type().ConvertibleTo(target) {
		return errs.ErrClient
	}
	field.Set(v.Convert(target))
	return nil
}

// NewMemRegistry builds a registry backed by process memory. It implements
// the same contract as the SQL registry, including all-or-nothing Transact
// via snapshot and restore, and backs the package test suites.
func NewMemRegistry() *Registry {
	be := &memBackend{now: time.Now}

	users := &memStore[domain.User]{be: be}
	roles := &memStore[domain.Role]{be: be}
	brands := &memStore[domain.Brand]{be: be}
	categories := &memStore[domain.DeviceCategory]{be: be}
	devices := &memStore[domain.Device]{be: be}
	tickets := &memStore[domain.Ticket]{be: be}
	todos := &memStore[domain.Todo]{be: be}
	roleAssignments := &memStore[domain.RoleAssignment]{be: be}
	assignments := &memStore[domain.CustodyAssignment]{be: be}
	assetNumbers := &memStore[domain.AssetNumber]{be: be}

	reg := &Registry{
		Users:            users,
		Roles:            roles,
		Brands:           brands,
		DeviceCategories: categories,
		Devices:          devices,
		Tickets:          tickets,
		Todos:            todos,
		RoleAssignments:  roleAssignments,
		Assignments:      assignments,
		AssetNumbers:     assetNumbers,
	}

	stores := []snapshotter{
		users, roles, brands, categories, devices,
		tickets, todos, roleAssignments, assignments, assetNumbers,
	}

	reg.transact = func(ctx context.Context, fn func(*Registry) error) error {
		restores := make([]func(), len(stores))
		for i, s := range stores {
			restores[i] = s.snapshot()
		}
		if err := fn(reg); err != nil {
			for _, restore := range restores {
				restore()
			}
			return err
		}
		return nil
	}

	return reg
}

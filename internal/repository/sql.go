package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const pqUniqueViolation = "23505"

type sqlStore[T domain.Entity] struct {
	q sqlx.ExtContext
}

func (s sqlStore[T]) table() string {
	var zero T
	return zero.Table()
}

func (s sqlStore[T]) Select(ctx context.Context, q Query) (data []T, err error) {
	where, args := buildWhere(q)
	query := fmt.Sprintf("SELECT * FROM %s%s%s", s.table(), where, buildTail(q))

	err = sqlx.SelectContext(ctx, s.q, &data, query, args...)
	if err != nil {
		log.Error().Err(err).Str("component", "Select").Str("table", s.table()).Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (s sqlStore[T]) Count(ctx context.Context, q Query) (count int64, err error) {
	where, args := buildWhere(q)
	query := fmt.Sprintf("SELECT COUNT(id) FROM %s%s", s.table(), where)

	err = sqlx.GetContext(ctx, s.q, &count, query, args...)
	if err != nil {
		log.Error().Err(err).Str("component", "Count").Str("table", s.table()).Msg("")
		return 0, errs.ErrInternalServer
	}

	return count, nil
}

func (s sqlStore[T]) Get(ctx context.Context, id int64, includeTrashed bool) (data T, err error) {
	q := Query{Conds: []Cond{Eq("id", id)}, IncludeTrashed: includeTrashed}
	where, args := buildWhere(q)
	query := fmt.Sprintf("SELECT * FROM %s%s", s.table(), where)

	err = sqlx.GetContext(ctx, s.q, &data, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return data, errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "Get").Str("table", s.table()).Msg("")
		return data, errs.ErrInternalServer
	}

	return data, nil
}

func (s sqlStore[T]) Create(ctx context.Context, rec T) (created T, err error) {
	cols := append([]string{"creator_id"}, rec.Columns()...)
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (created_at, %s) VALUES (now(), %s) RETURNING *",
		rec.Table(), strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	query, args, err := sqlx.Named(query, rec)
	if err != nil {
		log.Error().Err(err).Str("component", "Create").Str("table", rec.Table()).Msg("")
		return created, errs.ErrInternalServer
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	err = sqlx.GetContext(ctx, s.q, &created, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return created, errs.ErrConflict
		}
		log.Error().Err(err).Str("component", "Create").Str("table", rec.Table()).Msg("")
		return created, errs.ErrInternalServer
	}

	return created, nil
}

func (s sqlStore[T]) Update(ctx context.Context, id int64, changes ...Change) (updated T, err error) {
	if len(changes) == 0 {
		return s.Get(ctx, id, false)
	}

	sets := make([]string, len(changes))
	args := make([]interface{}, 0, len(changes)+1)
	for i, change := range changes {
		args = append(args, change.Value)
		sets[i] = fmt.Sprintf("%s = $%d", change.Column, len(args))
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING *",
		s.table(), strings.Join(sets, ", "), len(args),
	)

	err = sqlx.GetContext(ctx, s.q, &updated, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return updated, errs.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return updated, errs.ErrConflict
		}
		log.Error().Err(err).Str("component", "Update").Str("table", s.table()).Msg("")
		return updated, errs.ErrInternalServer
	}

	return updated, nil
}

func (s sqlStore[T]) Delete(ctx context.Context, id int64) (deleted T, err error) {
	query := fmt.Sprintf(
		"UPDATE %s SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL RETURNING *",
		s.table(),
	)

	err = sqlx.GetContext(ctx, s.q, &deleted, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return deleted, errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "Delete").Str("table", s.table()).Msg("")
		return deleted, errs.ErrInternalServer
	}

	return deleted, nil
}

func (s sqlStore[T]) Restore(ctx context.Context, id int64) (restored T, err error) {
	query := fmt.Sprintf(
		"UPDATE %s SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL RETURNING *",
		s.table(),
	)

	err = sqlx.GetContext(ctx, s.q, &restored, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return restored, errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "Restore").Str("table", s.table()).Msg("")
		return restored, errs.ErrInternalServer
	}

	return restored, nil
}

func (s sqlStore[T]) ForceDelete(ctx context.Context, id int64) (removed T, err error) {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE id = $1 AND deleted_at IS NOT NULL RETURNING *",
		s.table(),
	)

	err = sqlx.GetContext(ctx, s.q, &removed, query, id)
	if err == nil {
		return removed, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Str("component", "ForceDelete").Str("table", s.table()).Msg("")
		return removed, errs.ErrInternalServer
	}

	// Distinguish a live record from an absent one.
	if _, getErr := s.Get(ctx, id, false); getErr == nil {
		return removed, errs.ErrStillLive
	}

	return removed, errs.ErrNotFound
}

// NewSQLRegistry builds the production registry over a PostgreSQL handle.
// Transact opens one database transaction and rebinds every store to it.
func NewSQLRegistry(db *sqlx.DB) *Registry {
	reg := sqlRegistryOver(db)
	reg.transact = func(ctx context.Context, fn func(*Registry) error) error {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			log.Error().Err(err).Str("component", "Transact").Msg("")
			return errs.ErrInternalServer
		}

		txReg := sqlRegistryOver(tx)
		txReg.transact = func(ctx context.Context, nested func(*Registry) error) error {
			return nested(txReg)
		}

		if err := fn(txReg); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Str("component", "Transact").Msg("rollback failed")
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			log.Error().Err(err).Str("component", "Transact").Msg("")
			return errs.ErrInternalServer
		}
		return nil
	}

	return reg
}

func sqlRegistryOver(q sqlx.ExtContext) *Registry {
	return &Registry{
		Users:            sqlStore[domain.User]{q: q},
		Roles:            sqlStore[domain.Role]{q: q},
		Brands:           sqlStore[domain.Brand]{q: q},
		DeviceCategories: sqlStore[domain.DeviceCategory]{q: q},
		Devices:          sqlStore[domain.Device]{q: q},
		Tickets:          sqlStore[domain.Ticket]{q: q},
		Todos:            sqlStore[domain.Todo]{q: q},
		RoleAssignments:  sqlStore[domain.RoleAssignment]{q: q},
		Assignments:      sqlStore[domain.CustodyAssignment]{q: q},
		AssetNumbers:     sqlStore[domain.AssetNumber]{q: q},
	}
}

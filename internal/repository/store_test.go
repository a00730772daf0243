package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSoftDeleteLifecycle(t *testing.T) {
	ctx := context.Background()
	reg := NewMemRegistry()

	brand, err := reg.Brands.Create(ctx, domain.Brand{Name: "Lenovo"})
	require.NoError(t, err)
	assert.NotZero(t, brand.ID)
	assert.False(t, brand.CreatedAt.IsZero())
	assert.Nil(t, brand.DeletedAt)

	got, err := reg.Brands.Get(ctx, brand.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Lenovo", got.Name)

	deleted, err := reg.Brands.Delete(ctx, brand.ID)
	require.NoError(t, err)
	assert.NotNil(t, deleted.DeletedAt)

	// Default visibility hides the trashed record.
	_, err = reg.Brands.Get(ctx, brand.ID, false)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	got, err = reg.Brands.Get(ctx, brand.ID, true)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)

	// Deleting a trashed record again reports not found.
	_, err = reg.Brands.Delete(ctx, brand.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	restored, err := reg.Brands.Restore(ctx, brand.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	_, err = reg.Brands.Restore(ctx, brand.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStoreForceDeleteRequiresTrashed(t *testing.T) {
	ctx := context.Background()
	reg := NewMemRegistry()

	brand, err := reg.Brands.Create(ctx, domain.Brand{Name: "Apple"})
	require.NoError(t, err)

	_, err = reg.Brands.ForceDelete(ctx, brand.ID)
	assert.ErrorIs(t, err, errs.ErrStillLive)

	_, err = reg.Brands.Delete(ctx, brand.ID)
	require.NoError(t, err)

	removed, err := reg.Brands.ForceDelete(ctx, brand.ID)
	require.NoError(t, err)
	assert.Equal(t, brand.ID, removed.ID)

	_, err = reg.Brands.Get(ctx, brand.ID, true)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStoreSelectVisibilityAndPaging(t *testing.T) {
	ctx := context.Background()
	reg := NewMemRegistry()

	for _, name := range []string{"t-1", "t-2", "t-3", "t-4"} {
		_, err := reg.Tickets.Create(ctx, domain.Ticket{Title: name})
		require.NoError(t, err)
	}

	second, err := reg.Tickets.Select(ctx, Query{Conds: []Cond{Eq("title", "t-2")}})
	require.NoError(t, err)
	require.Len(t, second, 1)
	_, err = reg.Tickets.Delete(ctx, second[0].ID)
	require.NoError(t, err)

	live, err := reg.Tickets.Select(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, live, 3)

	all, err := reg.Tickets.Select(ctx, Query{IncludeTrashed: true})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	count, err := reg.Tickets.Count(ctx, Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	page, err := reg.Tickets.Select(ctx, Query{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "t-3", page[0].Title)

	trashedOnly, err := reg.Tickets.Select(ctx, Query{
		Conds:          []Cond{Neq("deleted_at", nil)},
		IncludeTrashed: true,
	})
	require.NoError(t, err)
	require.Len(t, trashedOnly, 1)
	assert.Equal(t, "t-2", trashedOnly[0].Title)
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	reg := NewMemRegistry()

	ticket, err := reg.Tickets.Create(ctx, domain.Ticket{Title: "flaky switch"})
	require.NoError(t, err)

	updated, err := reg.Tickets.Update(ctx, ticket.ID, Set("title", "flaky core switch"))
	require.NoError(t, err)
	assert.Equal(t, "flaky core switch", updated.Title)

	// Pointer columns accept plain values and nil.
	body := "port 7 drops"
	updated, err = reg.Tickets.Update(ctx, ticket.ID, Set("body", &body))
	require.NoError(t, err)
	require.NotNil(t, updated.Body)
	assert.Equal(t, "port 7 drops", *updated.Body)

	updated, err = reg.Tickets.Update(ctx, ticket.ID, Set("body", nil))
	require.NoError(t, err)
	assert.Nil(t, updated.Body)

	_, err = reg.Tickets.Delete(ctx, ticket.ID)
	require.NoError(t, err)

	_, err = reg.Tickets.Update(ctx, ticket.ID, Set("title", "late edit"))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTransactRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	reg := NewMemRegistry()

	boom := errors.New("boom")
	err := reg.Transact(ctx, func(tx *Registry) error {
		if _, err := tx.Brands.Create(ctx, domain.Brand{Name: "HP"}); err != nil {
			return err
		}
		if _, err := tx.Todos.Create(ctx, domain.Todo{Name: "label it", UserID: 1}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	brands, err := reg.Brands.Select(ctx, Query{IncludeTrashed: true})
	require.NoError(t, err)
	assert.Empty(t, brands)

	todos, err := reg.Todos.Select(ctx, Query{IncludeTrashed: true})
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestTransactCommits(t *testing.T) {
	ctx := context.Background()
	reg := NewMemRegistry()

	err := reg.Transact(ctx, func(tx *Registry) error {
		_, err := tx.Brands.Create(ctx, domain.Brand{Name: "Dell"})
		return err
	})
	require.NoError(t, err)

	brands, err := reg.Brands.Select(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, brands, 1)
}

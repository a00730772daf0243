package service

import (
	"context"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	pkgdto "github.com/celaops/cela/pkg/dto"
)

// CatalogService is the shared CRUD surface for the simple name-keyed
// lookup entities (brands, device categories). Names are unique among live
// records of one kind.
type CatalogService[T domain.Entity] interface {
	GetAll(ctx context.Context, filter pkgdto.Filter) ([]T, error)
	Get(ctx context.Context, id int64, includeTrashed bool) (T, error)
	Add(ctx context.Context, actorID int64, payload dto.NameRequest) (T, error)
	Update(ctx context.Context, id int64, forms []dto.UpdateForm) (T, error)
	Delete(ctx context.Context, id int64) (T, error)
	Restore(ctx context.Context, id int64) (T, error)
	ForceDelete(ctx context.Context, id int64) (T, error)
}

type CatalogServiceImpl[T domain.Entity] struct {
	store repository.Store[T]
	build func(actorID int64, name string) T
}

func CreateNewCatalogService[T domain.Entity](store repository.Store[T], build func(actorID int64, name string) T) CatalogService[T] {
	return &CatalogServiceImpl[T]{store: store, build: build}
}

func CreateNewBrandService(reg *repository.Registry) CatalogService[domain.Brand] {
	return CreateNewCatalogService(reg.Brands, func(actorID int64, name string) domain.Brand {
		return domain.Brand{Record: domain.Record{CreatorID: actorID}, Name: name}
	})
}

func CreateNewDeviceCategoryService(reg *repository.Registry) CatalogService[domain.DeviceCategory] {
	return CreateNewCatalogService(reg.DeviceCategories, func(actorID int64, name string) domain.DeviceCategory {
		return domain.DeviceCategory{Record: domain.Record{CreatorID: actorID}, Name: name}
	})
}

func (s *CatalogServiceImpl[T]) GetAll(ctx context.Context, filter pkgdto.Filter) ([]T, error) {
	query := repository.Query{
		IncludeTrashed: filter.IncludeTrashed,
		Skip:           filter.Skip(),
		Limit:          filter.Limit,
	}
	if filter.Q != "" {
		query.Conds = append(query.Conds, repository.Like("name", filter.Q))
	}

	return s.store.Select(ctx, query)
}

func (s *CatalogServiceImpl[T]) Get(ctx context.Context, id int64, includeTrashed bool) (T, error) {
	return s.store.Get(ctx, id, includeTrashed)
}

func (s *CatalogServiceImpl[T]) Add(ctx context.Context, actorID int64, payload dto.NameRequest) (created T, err error) {
	existing, err := s.store.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("name", payload.Name)},
		Limit: 1,
	})
	if err != nil {
		return created, err
	}
	if len(existing) > 0 {
		return created, errs.ErrNameTaken
	}

	return s.store.Create(ctx, s.build(actorID, payload.Name))
}

func (s *CatalogServiceImpl[T]) Update(ctx context.Context, id int64, forms []dto.UpdateForm) (updated T, err error) {
	changes := make([]repository.Change, 0, len(forms))
	for _, form := range forms {
		if form.Key != "name" {
			return updated, errs.ErrClient
		}
		changes = append(changes, repository.Set("name", form.Value))
	}

	return s.store.Update(ctx, id, changes...)
}

func (s *CatalogServiceImpl[T]) Delete(ctx context.Context, id int64) (T, error) {
	return s.store.Delete(ctx, id)
}

func (s *CatalogServiceImpl[T]) Restore(ctx context.Context, id int64) (T, error) {
	return s.store.Restore(ctx, id)
}

func (s *CatalogServiceImpl[T]) ForceDelete(ctx context.Context, id int64) (T, error) {
	return s.store.ForceDelete(ctx, id)
}

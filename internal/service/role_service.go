package service

import (
	"context"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	"github.com/lib/pq"
	pkgdto "github.com/celaops/cela/pkg/dto"
)

type RoleService interface {
	GetRoles(ctx context.Context, filter pkgdto.Filter) ([]domain.Role, error)
	GetRole(ctx context.Context, id int64, includeTrashed bool) (domain.Role, error)
	AddRole(ctx context.Context, actorID int64, payload dto.RoleRequest) (domain.Role, error)
	UpdateRole(ctx context.Context, id int64, forms []dto.UpdateForm) (domain.Role, error)
	DeleteRole(ctx context.Context, id int64) (domain.Role, error)
	RestoreRole(ctx context.Context, id int64) (domain.Role, error)
	ForceDeleteRole(ctx context.Context, id int64) (domain.Role, error)
}

type RoleServiceImpl struct {
	reg *repository.Registry
}

func CreateNewRoleService(reg *repository.Registry) RoleService {
	return &RoleServiceImpl{reg: reg}
}

func (s *RoleServiceImpl) GetRoles(ctx context.Context, filter pkgdto.Filter) ([]domain.Role, error) {
	query := repository.Query{
		IncludeTrashed: filter.IncludeTrashed,
		Skip:           filter.Skip(),
		Limit:          filter.Limit,
	}
	if filter.Q != "" {
		query.Conds = append(query.Conds, repository.Like("name", filter.Q))
	}

	return s.reg.Roles.Select(ctx, query)
}

func (s *RoleServiceImpl) GetRole(ctx context.Context, id int64, includeTrashed bool) (domain.Role, error) {
	return s.reg.Roles.Get(ctx, id, includeTrashed)
}

func (s *RoleServiceImpl) AddRole(ctx context.Context, actorID int64, payload dto.RoleRequest) (role domain.Role, err error) {
	existing, err := s.reg.Roles.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("name", payload.Name)},
		Limit: 1,
	})
	if err != nil {
		return role, err
	}
	if len(existing) > 0 {
		return role, errs.ErrRoleExists
	}

	return s.reg.Roles.Create(ctx, domain.Role{
		Record: domain.Record{CreatorID: actorID},
		Name:   payload.Name,
		Scopes: payload.Scopes,
	})
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id int64, forms []dto.UpdateForm) (updated domain.Role, err error) {
	role, err := s.reg.Roles.Get(ctx, id, false)
	if err != nil {
		return updated, err
	}
	if role.Name == ReservedRoleName {
		return updated, errs.ErrReservedBinding
	}

	changes := make([]repository.Change, 0, len(forms))
	for _, form := range forms {
		switch form.Key {
		case "name":
			changes = append(changes, repository.Set("name", form.Value))
		case "scopes":
			changes = append(changes, repository.Set("scopes", pq.StringArray(toStringSlice(form.Value))))
		default:
			return updated, errs.ErrClient
		}
	}

	return s.reg.Roles.Update(ctx, id, changes...)
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id int64) (deleted domain.Role, err error) {
	role, err := s.reg.Roles.Get(ctx, id, false)
	if err != nil {
		return deleted, err
	}
	if role.Name == ReservedRoleName {
		return deleted, errs.ErrReservedBinding
	}

	return s.reg.Roles.Delete(ctx, id)
}

func (s *RoleServiceImpl) RestoreRole(ctx context.Context, id int64) (domain.Role, error) {
	return s.reg.Roles.Restore(ctx, id)
}

func (s *RoleServiceImpl) ForceDeleteRole(ctx context.Context, id int64) (domain.Role, error) {
	return s.reg.Roles.ForceDelete(ctx, id)
}

// toStringSlice coerces a decoded JSON scope list into []string; anything
// else becomes an empty list.
func toStringSlice(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

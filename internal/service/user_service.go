package service

import (
	"context"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	pkgdto "github.com/celaops/cela/pkg/dto"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	GetUsers(ctx context.Context, filter pkgdto.Filter) ([]dto.UserResponse, pkgdto.Pagination, error)
	GetUser(ctx context.Context, id int64, includeTrashed bool) (dto.UserResponse, error)
	AddUser(ctx context.Context, actorID int64, payload dto.UserRequest) (dto.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, forms []dto.UpdateForm) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) (domain.User, error)
	RestoreUser(ctx context.Context, id int64) (domain.User, error)
	ForceDeleteUser(ctx context.Context, id int64) (domain.User, error)
}

type UserServiceImpl struct {
	reg *repository.Registry
}

func CreateNewUserService(reg *repository.Registry) UserService {
	return &UserServiceImpl{reg: reg}
}

func (s *UserServiceImpl) GetUsers(ctx context.Context, filter pkgdto.Filter) ([]dto.UserResponse, pkgdto.Pagination, error) {
	query := repository.Query{
		IncludeTrashed: filter.IncludeTrashed,
		Skip:           filter.Skip(),
		Limit:          filter.Limit,
	}
	if filter.Q != "" {
		query.Conds = append(query.Conds, repository.Like("name", filter.Q))
	}

	users, err := s.reg.Users.Select(ctx, query)
	if err != nil {
		return nil, pkgdto.Pagination{}, err
	}

	total, err := s.reg.Users.Count(ctx, query)
	if err != nil {
		return nil, pkgdto.Pagination{}, err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, dto.UserResponse{User: user, Creator: s.creatorOf(ctx, user.CreatorID)})
	}

	return resp, pkgdto.Pagination{Limit: filter.Limit, Page: filter.Page, Total: total}, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id int64, includeTrashed bool) (resp dto.UserResponse, err error) {
	user, err := s.reg.Users.Get(ctx, id, includeTrashed)
	if err != nil {
		return resp, err
	}

	resp.User = user
	resp.Creator = s.creatorOf(ctx, user.CreatorID)
	resp.Roles, err = s.activeRoles(ctx, user.ID)
	if err != nil {
		return resp, err
	}

	return resp, nil
}

func (s *UserServiceImpl) AddUser(ctx context.Context, actorID int64, payload dto.UserRequest) (resp dto.UserResponse, err error) {
	existing, err := s.reg.Users.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("username", payload.Username)},
		Limit: 1,
	})
	if err != nil {
		return resp, err
	}
	if len(existing) > 0 {
		return resp, errs.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return resp, errs.ErrInternalServer
	}

	user, err := s.reg.Users.Create(ctx, domain.User{
		Record:         domain.Record{CreatorID: actorID},
		Username:       payload.Username,
		Email:          payload.Email,
		Name:           payload.Name,
		HashedPassword: string(hash),
		ExternalID:     ulid.Make().String(),
		IsActive:       true,
	})
	if err != nil {
		return resp, err
	}

	resp.User = user
	resp.Creator = s.creatorOf(ctx, actorID)
	return resp, nil
}

// UpdateUser patches an allowed subset of fields. A password patch arrives
// in clear and is stored hashed.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int64, forms []dto.UpdateForm) (updated domain.User, err error) {
	user, err := s.reg.Users.Get(ctx, id, false)
	if err != nil {
		return updated, err
	}

	changes := make([]repository.Change, 0, len(forms))
	for _, form := range forms {
		switch form.Key {
		case "name", "email":
			changes = append(changes, repository.Set(form.Key, form.Value))
		case "username":
			username, ok := form.Value.(string)
			if !ok {
				return updated, errs.ErrClient
			}
			if username != user.Username {
				taken, err := s.reg.Users.Select(ctx, repository.Query{
					Conds: []repository.Cond{repository.Eq("username", username)},
					Limit: 1,
				})
				if err != nil {
					return updated, err
				}
				if len(taken) > 0 {
					return updated, errs.ErrUsernameTaken
				}
			}
			changes = append(changes, repository.Set("username", username))
		case "password":
			password, ok := form.Value.(string)
			if !ok {
				return updated, errs.ErrClient
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				log.Error().Err(err).Str("component", "UpdateUser").Msg("")
				return updated, errs.ErrInternalServer
			}
			changes = append(changes, repository.Set("hashed_password", string(hash)))
		default:
			return updated, errs.ErrClient
		}
	}

	return s.reg.Users.Update(ctx, id, changes...)
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int64) (domain.User, error) {
	return s.reg.Users.Delete(ctx, id)
}

func (s *UserServiceImpl) RestoreUser(ctx context.Context, id int64) (domain.User, error) {
	return s.reg.Users.Restore(ctx, id)
}

func (s *UserServiceImpl) ForceDeleteUser(ctx context.Context, id int64) (domain.User, error) {
	return s.reg.Users.ForceDelete(ctx, id)
}

func (s *UserServiceImpl) activeRoles(ctx context.Context, userID int64) ([]domain.Role, error) {
	assignments, err := s.reg.RoleAssignments.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("user_id", userID)},
	})
	if err != nil {
		return nil, err
	}

	var roles []domain.Role
	for _, assignment := range assignments {
		role, err := s.reg.Roles.Get(ctx, assignment.RoleID, false)
		if err != nil {
			if errs.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, nil
}

func (s *UserServiceImpl) creatorOf(ctx context.Context, creatorID int64) *dto.Creator {
	creator, err := s.reg.Users.Get(ctx, creatorID, true)
	if err != nil {
		return nil
	}
	return dto.CreatorOf(creator)
}

package service

import (
	"context"

	"github.com/celaops/cela/config"
	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	"github.com/celaops/cela/pkg/utils"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// SuperScope short-circuits every scope check.
const SuperScope = "su"

// The reserved role/user pair is created by Bootstrap and its binding can
// never be revoked.
const (
	ReservedRoleName = "superuser"
	ReservedUsername = "admin"
)

type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	AggregateScopes(ctx context.Context, userID int64) ([]string, error)
	IssueToken(userID int64, scopes []string) (string, error)
	Verify(token string) (utils.Claims, error)
	Authorize(claims utils.Claims, required ...string) error
	Renew(ctx context.Context, claims utils.Claims) (dto.LoginResponse, error)
	Me(ctx context.Context, claims utils.Claims) (dto.UserResponse, error)
	ChangePassword(ctx context.Context, claims utils.Claims, payload dto.ChangePasswordRequest) error
	Bootstrap(ctx context.Context) error
}

type AuthServiceImpl struct {
	reg    *repository.Registry
	config config.Config
}

func CreateNewAuthService(reg *repository.Registry, config config.Config) AuthService {
	return &AuthServiceImpl{reg: reg, config: config}
}

func (s *AuthServiceImpl) Login(ctx context.Context, payload dto.LoginRequest) (resp dto.LoginResponse, err error) {
	users, err := s.reg.Users.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("username", payload.Username)},
		Limit: 1,
	})
	if err != nil {
		return resp, err
	}
	if len(users) == 0 {
		return resp, errs.ErrInvalidCredentials
	}
	user := users[0]

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.Password))
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return resp, errs.ErrInvalidCredentials
	}

	scopes, err := s.AggregateScopes(ctx, user.ID)
	if err != nil {
		return resp, err
	}

	token, err := s.IssueToken(user.ID, scopes)
	if err != nil {
		return resp, err
	}

	return dto.LoginResponse{AccessToken: token, Type: "bearer"}, nil
}

// AggregateScopes unions the scopes of every role the user actively holds.
func (s *AuthServiceImpl) AggregateScopes(ctx context.Context, userID int64) ([]string, error) {
	assignments, err := s.reg.RoleAssignments.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("user_id", userID)},
	})
	if err != nil {
		return nil, err
	}

	var scopes []string
	seen := make(map[string]bool)
	for _, assignment := range assignments {
		role, err := s.reg.Roles.Get(ctx, assignment.RoleID, false)
		if err != nil {
			if errs.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		for _, scope := range role.Scopes {
			if !seen[scope] {
				seen[scope] = true
				scopes = append(scopes, scope)
			}
		}
	}

	return scopes, nil
}

func (s *AuthServiceImpl) IssueToken(userID int64, scopes []string) (string, error) {
	token, err := utils.CreateJWTToken(userID, scopes, s.config.JWTSecret, s.config.JWTTTL)
	if err != nil {
		log.Error().Err(err).Str("component", "IssueToken").Msg("")
		return "", errs.ErrInternalServer
	}
	return token, nil
}

func (s *AuthServiceImpl) Verify(token string) (utils.Claims, error) {
	return utils.ParseJWTToken(token, s.config.JWTSecret)
}

// Authorize allows the call when every required scope is present in the
// claims, or when the super scope is.
func (s *AuthServiceImpl) Authorize(claims utils.Claims, required ...string) error {
	held := make(map[string]bool, len(claims.Scopes))
	for _, scope := range claims.Scopes {
		held[scope] = true
	}
	if held[SuperScope] {
		return nil
	}
	for _, scope := range required {
		if !held[scope] {
			return errs.ErrForbidden
		}
	}
	return nil
}

// Renew re-aggregates scopes from current role state. A token issued earlier
// keeps its stale scopes until its holder renews.
func (s *AuthServiceImpl) Renew(ctx context.Context, claims utils.Claims) (resp dto.LoginResponse, err error) {
	if _, err = s.reg.Users.Get(ctx, claims.UserID, false); err != nil {
		if errs.IsNotFound(err) {
			return resp, errs.ErrNotLoggedIn
		}
		return resp, err
	}

	scopes, err := s.AggregateScopes(ctx, claims.UserID)
	if err != nil {
		return resp, err
	}

	token, err := s.IssueToken(claims.UserID, scopes)
	if err != nil {
		return resp, err
	}

	return dto.LoginResponse{AccessToken: token, Type: "bearer"}, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, claims utils.Claims) (resp dto.UserResponse, err error) {
	user, err := s.reg.Users.Get(ctx, claims.UserID, false)
	if err != nil {
		return resp, err
	}

	resp.User = user
	resp.Scopes = claims.Scopes
	return resp, nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, claims utils.Claims, payload dto.ChangePasswordRequest) error {
	user, err := s.reg.Users.Get(ctx, claims.UserID, false)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.OldPassword)); err != nil {
		return errs.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Str("component", "ChangePassword").Msg("")
		return errs.ErrInternalServer
	}

	_, err = s.reg.Users.Update(ctx, user.ID, repository.Set("hashed_password", string(hash)))
	return err
}

// Bootstrap seeds the reserved superuser role and admin user on first run.
func (s *AuthServiceImpl) Bootstrap(ctx context.Context) error {
	existing, err := s.reg.Users.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("username", ReservedUsername)},
		Limit: 1,
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return errs.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(ReservedUsername), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Str("component", "Bootstrap").Msg("")
		return errs.ErrInternalServer
	}

	return s.reg.Transact(ctx, func(tx *repository.Registry) error {
		roles, err := tx.Roles.Select(ctx, repository.Query{
			Conds: []repository.Cond{repository.Eq("name", ReservedRoleName)},
			Limit: 1,
		})
		if err != nil {
			return err
		}

		var role domain.Role
		if len(roles) > 0 {
			role = roles[0]
		} else {
			role, err = tx.Roles.Create(ctx, domain.Role{
				Name:   ReservedRoleName,
				Scopes: []string{SuperScope},
			})
			if err != nil {
				return err
			}
		}

		user, err := tx.Users.Create(ctx, domain.User{
			Username:       ReservedUsername,
			Email:          "admin@localhost",
			Name:           "Admin",
			HashedPassword: string(hash),
			ExternalID:     ulid.Make().String(),
			IsActive:       true,
		})
		if err != nil {
			return err
		}

		_, err = tx.RoleAssignments.Create(ctx, domain.RoleAssignment{
			Record: domain.Record{CreatorID: user.ID},
			UserID: user.ID,
			RoleID: role.ID,
		})
		return err
	})
}

package service

import (
	"context"
	"testing"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUser(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemRegistry()
	users := CreateNewUserService(reg)

	created, err := users.AddUser(ctx, 0, dto.UserRequest{
		Username: "erika",
		Email:    "erika@example.com",
		Name:     "Erika",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.ExternalID)
	assert.NotEqual(t, "hunter2", created.HashedPassword)

	_, err = users.AddUser(ctx, 0, dto.UserRequest{
		Username: "erika",
		Email:    "other@example.com",
		Name:     "Other Erika",
		Password: "hunter3",
	})
	assert.ErrorIs(t, err, errs.ErrUsernameTaken)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemRegistry()
	users := CreateNewUserService(reg)

	created, err := users.AddUser(ctx, 0, dto.UserRequest{
		Username: "erika", Email: "erika@example.com", Name: "Erika", Password: "hunter2",
	})
	require.NoError(t, err)

	taken, err := users.AddUser(ctx, 0, dto.UserRequest{
		Username: "jan", Email: "jan@example.com", Name: "Jan", Password: "hunter2",
	})
	require.NoError(t, err)

	updated, err := users.UpdateUser(ctx, created.ID, []dto.UpdateForm{
		{Key: "name", Value: "Erika M."},
		{Key: "email", Value: "em@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Erika M.", updated.Name)
	assert.Equal(t, "em@example.com", updated.Email)

	_, err = users.UpdateUser(ctx, created.ID, []dto.UpdateForm{
		{Key: "username", Value: taken.Username},
	})
	assert.ErrorIs(t, err, errs.ErrUsernameTaken)

	_, err = users.UpdateUser(ctx, created.ID, []dto.UpdateForm{
		{Key: "is_active", Value: false},
	})
	assert.ErrorIs(t, err, errs.ErrClient)

	before := updated.HashedPassword
	updated, err = users.UpdateUser(ctx, created.ID, []dto.UpdateForm{
		{Key: "password", Value: "n3w-pass"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, before, updated.HashedPassword)
}

func TestGetUserEnrichment(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemRegistry()
	users := CreateNewUserService(reg)
	custody := CreateNewCustodyService(reg, nil)

	admin, err := users.AddUser(ctx, 0, dto.UserRequest{
		Username: "admin", Email: "admin@localhost", Name: "Admin", Password: "admin",
	})
	require.NoError(t, err)

	member, err := users.AddUser(ctx, admin.ID, dto.UserRequest{
		Username: "erika", Email: "erika@example.com", Name: "Erika", Password: "hunter2",
	})
	require.NoError(t, err)

	role, err := reg.Roles.Create(ctx, domain.Role{Name: "operator", Scopes: []string{"device:list"}})
	require.NoError(t, err)
	_, err = custody.GrantRole(ctx, admin.ID, dto.GrantRoleRequest{UserID: member.ID, RoleID: role.ID})
	require.NoError(t, err)

	got, err := users.GetUser(ctx, member.ID, false)
	require.NoError(t, err)
	require.NotNil(t, got.Creator)
	assert.Equal(t, admin.ID, got.Creator.ID)
	require.Len(t, got.Roles, 1)
	assert.Equal(t, "operator", got.Roles[0].Name)
}

func TestUserSoftDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemRegistry()
	users := CreateNewUserService(reg)

	created, err := users.AddUser(ctx, 0, dto.UserRequest{
		Username: "erika", Email: "erika@example.com", Name: "Erika", Password: "hunter2",
	})
	require.NoError(t, err)

	_, err = users.DeleteUser(ctx, created.ID)
	require.NoError(t, err)

	_, err = users.GetUser(ctx, created.ID, false)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	trashed, err := users.GetUser(ctx, created.ID, true)
	require.NoError(t, err)
	assert.NotNil(t, trashed.DeletedAt)

	_, err = users.RestoreUser(ctx, created.ID)
	require.NoError(t, err)

	_, err = users.ForceDeleteUser(ctx, created.ID)
	assert.ErrorIs(t, err, errs.ErrStillLive)

	_, err = users.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	_, err = users.ForceDeleteUser(ctx, created.ID)
	require.NoError(t, err)

	_, err = users.GetUser(ctx, created.ID, true)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

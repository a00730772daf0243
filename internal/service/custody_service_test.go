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

type custodyFixture struct {
	reg     *repository.Registry
	custody CustodyService
	admin   domain.User
	user    domain.User
	device  domain.Device
}

func newCustodyFixture(t *testing.T) custodyFixture {
	t.Helper()
	ctx := context.Background()
	reg := repository.NewMemRegistry()

	admin, err := reg.Users.Create(ctx, domain.User{Username: "admin", Email: "admin@localhost", Name: "Admin", IsActive: true})
	require.NoError(t, err)

	user, err := reg.Users.Create(ctx, domain.User{Username: "erika", Email: "erika@example.com", Name: "Erika", IsActive: true})
	require.NoError(t, err)

	brand, err := reg.Brands.Create(ctx, domain.Brand{Name: "Lenovo"})
	require.NoError(t, err)

	category, err := reg.DeviceCategories.Create(ctx, domain.DeviceCategory{Name: "Laptop"})
	require.NoError(t, err)

	device, err := reg.Devices.Create(ctx, domain.Device{
		Hostname:    "lab-01",
		AssetNumber: "PC0001",
		BrandID:     brand.ID,
		CategoryID:  category.ID,
	})
	require.NoError(t, err)

	return custodyFixture{
		reg:     reg,
		custody: CreateNewCustodyService(reg, nil),
		admin:   admin,
		user:    user,
		device:  device,
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	fx := newCustodyFixture(t)

	assignment, err := fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   fx.user.ID,
		DeviceID: fx.device.ID,
		Flag:     int16(domain.FlagBorrow),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, assignment.Status)
	assert.Equal(t, domain.FlagBorrow, assignment.Flag)
	assert.Equal(t, fx.admin.ID, assignment.CreatorID)

	// The device already has an open assignment, for any user.
	_, err = fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   fx.admin.ID,
		DeviceID: fx.device.ID,
		Flag:     int16(domain.FlagManage),
	})
	assert.ErrorIs(t, err, errs.ErrDeviceHeld)
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	fx := newCustodyFixture(t)

	_, err := fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   fx.user.ID,
		DeviceID: fx.device.ID,
		Flag:     9,
	})
	assert.ErrorIs(t, err, errs.ErrClient)

	_, err = fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   9999,
		DeviceID: fx.device.ID,
		Flag:     int16(domain.FlagBorrow),
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   fx.user.ID,
		DeviceID: 9999,
		Flag:     int16(domain.FlagBorrow),
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestReturnWithoutOpenAssignment(t *testing.T) {
	ctx := context.Background()
	fx := newCustodyFixture(t)

	_, err := fx.custody.Return(ctx, fx.admin.ID, dto.ReturnRequest{
		UserID:   fx.user.ID,
		DeviceID: fx.device.ID,
	})
	assert.ErrorIs(t, err, errs.ErrNoOpenAssignment)
}

func TestReturnClosesIntoHistory(t *testing.T) {
	ctx := context.Background()
	fx := newCustodyFixture(t)

	message := "loaner for the offsite"
	_, err := fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   fx.user.ID,
		DeviceID: fx.device.ID,
		Flag:     int16(domain.FlagBorrow),
		Message:  &message,
	})
	require.NoError(t, err)

	terminal, err := fx.custody.Return(ctx, fx.admin.ID, dto.ReturnRequest{
		UserID:   fx.user.ID,
		DeviceID: fx.device.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FlagReturned, terminal.Flag)
	assert.Equal(t, domain.StatusClosed, terminal.Status)
	require.NotNil(t, terminal.Message)
	assert.Equal(t, message, *terminal.Message)
	assert.NotNil(t, terminal.DeletedAt)

	// No live assignment survives the return.
	live, err := fx.reg.Assignments.Select(ctx, repository.Query{})
	require.NoError(t, err)
	assert.Empty(t, live)

	// And the device is free to check out again.
	_, err = fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   fx.admin.ID,
		DeviceID: fx.device.ID,
		Flag:     int16(domain.FlagManage),
	})
	require.NoError(t, err)
}

func TestDeviceHistoryGrowsOneEntryPerCycle(t *testing.T) {
	ctx := context.Background()
	fx := newCustodyFixture(t)

	const cycles = 3
	for i := 0; i < cycles; i++ {
		_, err := fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
			UserID:   fx.user.ID,
			DeviceID: fx.device.ID,
			Flag:     int16(domain.FlagBorrow),
		})
		require.NoError(t, err)

		_, err = fx.custody.Return(ctx, fx.admin.ID, dto.ReturnRequest{
			UserID:   fx.user.ID,
			DeviceID: fx.device.ID,
		})
		require.NoError(t, err)
	}

	history, err := fx.custody.DeviceHistory(ctx, fx.device.ID)
	require.NoError(t, err)
	require.Len(t, history, cycles)

	for _, entry := range history {
		assert.Equal(t, fx.device.ID, entry.SubjectID)
		assert.Equal(t, int16(domain.FlagReturned), entry.Flag)
		assert.NotNil(t, entry.ClosedAt)
		require.NotNil(t, entry.Creator)
		assert.Equal(t, fx.admin.ID, entry.Creator.ID)
	}
}

func TestCustodyEndToEnd(t *testing.T) {
	ctx := context.Background()
	fx := newCustodyFixture(t)
	u1, u2 := fx.user, fx.admin

	_, err := fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   u1.ID,
		DeviceID: fx.device.ID,
		Flag:     int16(domain.FlagManage),
	})
	require.NoError(t, err)

	_, err = fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   u2.ID,
		DeviceID: fx.device.ID,
		Flag:     int16(domain.FlagBorrow),
	})
	assert.ErrorIs(t, err, errs.ErrDeviceHeld)

	_, err = fx.custody.Return(ctx, fx.admin.ID, dto.ReturnRequest{UserID: u1.ID, DeviceID: fx.device.ID})
	require.NoError(t, err)

	_, err = fx.custody.Checkout(ctx, fx.admin.ID, dto.CheckoutRequest{
		UserID:   u2.ID,
		DeviceID: fx.device.ID,
		Flag:     int16(domain.FlagBorrow),
	})
	require.NoError(t, err)

	history, err := fx.custody.DeviceHistory(ctx, fx.device.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, u1.ID, history[0].UserID)

	live, err := fx.reg.Assignments.Select(ctx, repository.Query{})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, u2.ID, live[0].UserID)
	assert.Equal(t, domain.StatusOpen, live[0].Status)
}

func TestGrantAndRevokeRole(t *testing.T) {
	ctx := context.Background()
	fx := newCustodyFixture(t)

	role, err := fx.reg.Roles.Create(ctx, domain.Role{Name: "operator", Scopes: []string{"device:list"}})
	require.NoError(t, err)

	granted, err := fx.custody.GrantRole(ctx, fx.admin.ID, dto.GrantRoleRequest{UserID: fx.user.ID, RoleID: role.ID})
	require.NoError(t, err)
	assert.Equal(t, fx.user.ID, granted.UserID)

	_, err = fx.custody.GrantRole(ctx, fx.admin.ID, dto.GrantRoleRequest{UserID: fx.user.ID, RoleID: role.ID})
	assert.ErrorIs(t, err, errs.ErrRoleAlreadyGranted)

	revoked, err := fx.custody.RevokeRole(ctx, fx.user.ID, role.ID)
	require.NoError(t, err)
	assert.NotNil(t, revoked.DeletedAt)

	_, err = fx.custody.RevokeRole(ctx, fx.user.ID, role.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	// Revoke and re-grant both leave history behind.
	_, err = fx.custody.GrantRole(ctx, fx.admin.ID, dto.GrantRoleRequest{UserID: fx.user.ID, RoleID: role.ID})
	require.NoError(t, err)

	history, err := fx.custody.RoleHistory(ctx, fx.user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, role.ID, history[0].SubjectID)
	assert.NotNil(t, history[0].ClosedAt)
}

func TestRevokeReservedBinding(t *testing.T) {
	ctx := context.Background()
	fx := newCustodyFixture(t)

	superuser, err := fx.reg.Roles.Create(ctx, domain.Role{Name: ReservedRoleName, Scopes: []string{SuperScope}})
	require.NoError(t, err)

	_, err = fx.custody.GrantRole(ctx, fx.admin.ID, dto.GrantRoleRequest{UserID: fx.admin.ID, RoleID: superuser.ID})
	require.NoError(t, err)

	_, err = fx.custody.RevokeRole(ctx, fx.admin.ID, superuser.ID)
	assert.ErrorIs(t, err, errs.ErrReservedBinding)

	// The same role can be revoked from anyone else.
	_, err = fx.custody.GrantRole(ctx, fx.admin.ID, dto.GrantRoleRequest{UserID: fx.user.ID, RoleID: superuser.ID})
	require.NoError(t, err)

	_, err = fx.custody.RevokeRole(ctx, fx.user.ID, superuser.ID)
	require.NoError(t, err)
}

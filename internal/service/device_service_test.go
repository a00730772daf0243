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

	pkgdto "github.com/celaops/cela/pkg/dto"
)

type deviceFixture struct {
	reg      *repository.Registry
	devices  DeviceService
	assets   AssetRegistryService
	actor    domain.User
	brand    domain.Brand
	category domain.DeviceCategory
}

func newDeviceFixture(t *testing.T) deviceFixture {
	t.Helper()
	ctx := context.Background()
	reg := repository.NewMemRegistry()

	actor, err := reg.Users.Create(ctx, domain.User{Username: "admin", Email: "admin@localhost", Name: "Admin", IsActive: true})
	require.NoError(t, err)

	brand, err := reg.Brands.Create(ctx, domain.Brand{Name: "Lenovo"})
	require.NoError(t, err)

	category, err := reg.DeviceCategories.Create(ctx, domain.DeviceCategory{Name: "Laptop"})
	require.NoError(t, err)

	return deviceFixture{
		reg:      reg,
		devices:  CreateNewDeviceService(reg),
		assets:   CreateNewAssetRegistryService(reg),
		actor:    actor,
		brand:    brand,
		category: category,
	}
}

func (fx deviceFixture) addDevice(t *testing.T, hostname, number string) dto.DeviceResponse {
	t.Helper()
	device, err := fx.devices.AddDevice(context.Background(), fx.actor.ID, dto.DeviceRequest{
		Hostname:    hostname,
		AssetNumber: number,
		BrandID:     fx.brand.ID,
		CategoryID:  fx.category.ID,
	})
	require.NoError(t, err)
	return device
}

func TestAddDeviceClaimsAssetNumber(t *testing.T) {
	ctx := context.Background()
	fx := newDeviceFixture(t)

	device := fx.addDevice(t, "lab-01", "PC0001")
	assert.Equal(t, "PC0001", device.AssetNumber)
	require.NotNil(t, device.Creator)
	assert.Equal(t, fx.actor.ID, device.Creator.ID)

	resolution, err := fx.assets.Resolve(ctx, "PC0001")
	require.NoError(t, err)
	assert.Equal(t, domain.OwnerDevice, resolution.OwnerKind)
	assert.Equal(t, device.ID, resolution.OwnerID)
}

func TestAddDeviceRejectsTakenNumber(t *testing.T) {
	ctx := context.Background()
	fx := newDeviceFixture(t)

	fx.addDevice(t, "lab-01", "PC0001")

	_, err := fx.devices.AddDevice(ctx, fx.actor.ID, dto.DeviceRequest{
		Hostname:    "lab-02",
		AssetNumber: "PC0001",
		BrandID:     fx.brand.ID,
		CategoryID:  fx.category.ID,
	})
	assert.ErrorIs(t, err, errs.ErrAssetNumberTaken)

	// The failed claim rolled the device insert back with it.
	devices, _, err := fx.devices.GetDevices(ctx, pkgdto.Filter{})
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestAddDeviceRequiresBrandAndCategory(t *testing.T) {
	ctx := context.Background()
	fx := newDeviceFixture(t)

	_, err := fx.devices.AddDevice(ctx, fx.actor.ID, dto.DeviceRequest{
		Hostname:    "lab-01",
		AssetNumber: "PC0001",
		BrandID:     9999,
		CategoryID:  fx.category.ID,
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateDeviceLocksAssetNumber(t *testing.T) {
	ctx := context.Background()
	fx := newDeviceFixture(t)

	device := fx.addDevice(t, "lab-01", "PC0001")

	_, err := fx.devices.UpdateDevice(ctx, device.ID, []dto.UpdateForm{
		{Key: "asset_number", Value: "PC0002"},
	})
	assert.ErrorIs(t, err, errs.ErrLocked)

	_, err = fx.devices.UpdateDevice(ctx, device.ID, []dto.UpdateForm{
		{Key: "serial", Value: "x"},
	})
	assert.ErrorIs(t, err, errs.ErrClient)

	updated, err := fx.devices.UpdateDevice(ctx, device.ID, []dto.UpdateForm{
		{Key: "hostname", Value: "lab-01b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "lab-01b", updated.Hostname)
	assert.Equal(t, "PC0001", updated.AssetNumber)
}

func TestDeleteDeviceFreesNumberForReuse(t *testing.T) {
	ctx := context.Background()
	fx := newDeviceFixture(t)

	first := fx.addDevice(t, "lab-01", "PC0001")

	_, err := fx.devices.DeleteDevice(ctx, first.ID)
	require.NoError(t, err)

	// The number no longer resolves but its mapping survives trashed.
	_, err = fx.assets.Resolve(ctx, "PC0001")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	mappings, err := fx.assets.List(ctx, true, 0, 0)
	require.NoError(t, err)
	assert.Len(t, mappings, 1)

	// A new device may take over the freed number.
	second := fx.addDevice(t, "lab-02", "PC0001")

	resolution, err := fx.assets.Resolve(ctx, "PC0001")
	require.NoError(t, err)
	assert.Equal(t, second.ID, resolution.OwnerID)
}

func TestRestoreDeviceRebindsItsNumber(t *testing.T) {
	ctx := context.Background()
	fx := newDeviceFixture(t)

	device := fx.addDevice(t, "lab-01", "PC0001")

	_, err := fx.devices.DeleteDevice(ctx, device.ID)
	require.NoError(t, err)

	restored, err := fx.devices.RestoreDevice(ctx, device.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	resolution, err := fx.assets.Resolve(ctx, "PC0001")
	require.NoError(t, err)
	assert.Equal(t, device.ID, resolution.OwnerID)
}

func TestClaimBlockedWhileTrashedOwnerIsRestorable(t *testing.T) {
	ctx := context.Background()
	fx := newDeviceFixture(t)

	device := fx.addDevice(t, "lab-01", "PC0001")

	// Release the number directly but keep the owning device live. The
	// trashed mapping still claims the number because its owner could
	// come back.
	_, err := fx.assets.Release(ctx, "PC0001")
	require.NoError(t, err)

	_, err = fx.assets.Claim(ctx, "PC0001", domain.OwnerDevice, device.ID+100, fx.actor.ID)
	assert.ErrorIs(t, err, errs.ErrAssetNumberTaken)
}

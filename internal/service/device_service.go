package service

import (
	"context"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/dto"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
	pkgdto "github.com/celaops/cela/pkg/dto"
)

type DeviceService interface {
	GetDevices(ctx context.Context, filter pkgdto.Filter) ([]dto.DeviceResponse, pkgdto.Pagination, error)
	GetDevice(ctx context.Context, id int64, includeTrashed bool) (dto.DeviceResponse, error)
	AddDevice(ctx context.Context, actorID int64, payload dto.DeviceRequest) (dto.DeviceResponse, error)
	UpdateDevice(ctx context.Context, id int64, forms []dto.UpdateForm) (domain.Device, error)
	DeleteDevice(ctx context.Context, id int64) (domain.Device, error)
	RestoreDevice(ctx context.Context, id int64) (domain.Device, error)
	ForceDeleteDevice(ctx context.Context, id int64) (domain.Device, error)
}

// Columns a device update may touch. The asset number is deliberately
// absent: it is immutable for the lifetime of the device.
var deviceUpdatableColumns = map[string]bool{
	"hostname":     true,
	"ipv4_address": true,
	"ipv6_address": true,
	"mac_address":  true,
	"description":  true,
	"brand_id":     true,
	"category_id":  true,
}

type DeviceServiceImpl struct {
	reg *repository.Registry
}

func CreateNewDeviceService(reg *repository.Registry) DeviceService {
	return &DeviceServiceImpl{reg: reg}
}

func (s *DeviceServiceImpl) GetDevices(ctx context.Context, filter pkgdto.Filter) ([]dto.DeviceResponse, pkgdto.Pagination, error) {
	query := repository.Query{
		IncludeTrashed: filter.IncludeTrashed,
		Skip:           filter.Skip(),
		Limit:          filter.Limit,
	}
	if filter.Q != "" {
		query.Conds = append(query.Conds, repository.Like("hostname", filter.Q))
	}

	devices, err := s.reg.Devices.Select(ctx, query)
	if err != nil {
		return nil, pkgdto.Pagination{}, err
	}

	total, err := s.reg.Devices.Count(ctx, query)
	if err != nil {
		return nil, pkgdto.Pagination{}, err
	}

	resp := make([]dto.DeviceResponse, 0, len(devices))
	for _, device := range devices {
		resp = append(resp, dto.DeviceResponse{Device: device, Creator: s.creatorOf(ctx, device.CreatorID)})
	}

	return resp, pkgdto.Pagination{Limit: filter.Limit, Page: filter.Page, Total: total}, nil
}

func (s *DeviceServiceImpl) GetDevice(ctx context.Context, id int64, includeTrashed bool) (resp dto.DeviceResponse, err error) {
	device, err := s.reg.Devices.Get(ctx, id, includeTrashed)
	if err != nil {
		return resp, err
	}

	resp.Device = device
	resp.Creator = s.creatorOf(ctx, device.CreatorID)
	return resp, nil
}

// AddDevice inserts the device and claims its asset number as one unit: a
// crash or a namespace conflict leaves neither behind.
func (s *DeviceServiceImpl) AddDevice(ctx context.Context, actorID int64, payload dto.DeviceRequest) (resp dto.DeviceResponse, err error) {
	if _, err = s.reg.Brands.Get(ctx, payload.BrandID, false); err != nil {
		return resp, err
	}
	if _, err = s.reg.DeviceCategories.Get(ctx, payload.CategoryID, false); err != nil {
		return resp, err
	}

	var device domain.Device
	err = s.reg.Transact(ctx, func(tx *repository.Registry) error {
		device, err = tx.Devices.Create(ctx, domain.Device{
			Record:      domain.Record{CreatorID: actorID},
			Hostname:    payload.Hostname,
			AssetNumber: payload.AssetNumber,
			IPv4Address: payload.IPv4Address,
			IPv6Address: payload.IPv6Address,
			MACAddress:  payload.MACAddress,
			Description: payload.Description,
			BrandID:     payload.BrandID,
			CategoryID:  payload.CategoryID,
		})
		if err != nil {
			return err
		}

		_, err = claimAssetNumber(ctx, tx, payload.AssetNumber, domain.OwnerDevice, device.ID, actorID)
		return err
	})
	if err != nil {
		return resp, err
	}

	resp.Device = device
	resp.Creator = s.creatorOf(ctx, actorID)
	return resp, nil
}

func (s *DeviceServiceImpl) UpdateDevice(ctx context.Context, id int64, forms []dto.UpdateForm) (updated domain.Device, err error) {
	if _, err = s.reg.Devices.Get(ctx, id, false); err != nil {
		return updated, err
	}

	changes := make([]repository.Change, 0, len(forms))
	for _, form := range forms {
		if form.Key == "asset_number" {
			return updated, errs.ErrLocked
		}
		if !deviceUpdatableColumns[form.Key] {
			return updated, errs.ErrClient
		}
		changes = append(changes, repository.Set(form.Key, form.Value))
	}

	return s.reg.Devices.Update(ctx, id, changes...)
}

// DeleteDevice trashes the device and releases its number in one unit. The
// released mapping stays on file for audit.
func (s *DeviceServiceImpl) DeleteDevice(ctx context.Context, id int64) (deleted domain.Device, err error) {
	err = s.reg.Transact(ctx, func(tx *repository.Registry) error {
		deleted, err = tx.Devices.Delete(ctx, id)
		if err != nil {
			return err
		}

		if _, err := releaseAssetNumber(ctx, tx, deleted.AssetNumber); err != nil && !errs.IsNotFound(err) {
			return err
		}
		return nil
	})
	return deleted, err
}

// RestoreDevice brings a trashed device back together with its number
// mapping, so the number resolves again.
func (s *DeviceServiceImpl) RestoreDevice(ctx context.Context, id int64) (restored domain.Device, err error) {
	err = s.reg.Transact(ctx, func(tx *repository.Registry) error {
		restored, err = tx.Devices.Restore(ctx, id)
		if err != nil {
			return err
		}

		mappings, err := tx.AssetNumbers.Select(ctx, repository.Query{
			Conds: []repository.Cond{
				repository.Eq("number", restored.AssetNumber),
				repository.Eq("owner_kind", domain.OwnerDevice),
				repository.Eq("owner_id", restored.ID),
				repository.Neq("deleted_at", nil),
			},
			IncludeTrashed: true,
			Limit:          1,
		})
		if err != nil {
			return err
		}
		if len(mappings) > 0 {
			if _, err := tx.AssetNumbers.Restore(ctx, mappings[0].ID); err != nil {
				return err
			}
		}
		return nil
	})
	return restored, err
}

func (s *DeviceServiceImpl) ForceDeleteDevice(ctx context.Context, id int64) (domain.Device, error) {
	return s.reg.Devices.ForceDelete(ctx, id)
}

func (s *DeviceServiceImpl) creatorOf(ctx context.Context, creatorID int64) *dto.Creator {
	creator, err := s.reg.Users.Get(ctx, creatorID, true)
	if err != nil {
		return nil
	}
	return dto.CreatorOf(creator)
}

package service

import (
	"context"

	"github.com/celaops/cela/internal/domain"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/pkg/errs"
)

// AssetResolution is the owner a number currently points at.
type AssetResolution struct {
	Number    string           `json:"number"`
	OwnerKind domain.OwnerKind `json:"owner_kind"`
	OwnerID   int64            `json:"owner_id"`
}

// AssetRegistryService owns the global asset-number namespace. Numbers are
// unique across every owner kind; released mappings stay trashed for audit.
type AssetRegistryService interface {
	Claim(ctx context.Context, number string, kind domain.OwnerKind, ownerID int64, creatorID int64) (domain.AssetNumber, error)
	Resolve(ctx context.Context, number string) (AssetResolution, error)
	Release(ctx context.Context, number string) (domain.AssetNumber, error)
	List(ctx context.Context, includeTrashed bool, skip int, limit int) ([]domain.AssetNumber, error)
}

type AssetRegistryServiceImpl struct {
	reg *repository.Registry
}

func CreateNewAssetRegistryService(reg *repository.Registry) AssetRegistryService {
	return &AssetRegistryServiceImpl{reg: reg}
}

func (s *AssetRegistryServiceImpl) Claim(ctx context.Context, number string, kind domain.OwnerKind, ownerID int64, creatorID int64) (domain.AssetNumber, error) {
	return claimAssetNumber(ctx, s.reg, number, kind, ownerID, creatorID)
}

func (s *AssetRegistryServiceImpl) Resolve(ctx context.Context, number string) (res AssetResolution, err error) {
	mappings, err := s.reg.AssetNumbers.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("number", number)},
		Limit: 1,
	})
	if err != nil {
		return res, err
	}
	if len(mappings) == 0 {
		return res, errs.ErrNotFound
	}
	mapping := mappings[0]

	// A mapping whose owner has since been trashed is stale.
	if err := resolveOwner(ctx, s.reg, mapping.OwnerKind, mapping.OwnerID); err != nil {
		return res, err
	}

	return AssetResolution{
		Number:    mapping.Number,
		OwnerKind: mapping.OwnerKind,
		OwnerID:   mapping.OwnerID,
	}, nil
}

func (s *AssetRegistryServiceImpl) Release(ctx context.Context, number string) (domain.AssetNumber, error) {
	return releaseAssetNumber(ctx, s.reg, number)
}

func (s *AssetRegistryServiceImpl) List(ctx context.Context, includeTrashed bool, skip int, limit int) ([]domain.AssetNumber, error) {
	return s.reg.AssetNumbers.Select(ctx, repository.Query{
		IncludeTrashed: includeTrashed,
		Skip:           skip,
		Limit:          limit,
	})
}

// claimAssetNumber enforces the one-namespace rule. It takes the registry as
// a parameter so callers can run it inside their own transaction (device
// creation claims the number atomically with the device insert).
//
// A number is free when no live mapping exists and every trashed mapping
// points at an owner that is gone or itself trashed. A trashed mapping with
// a live owner still claims the number.
func claimAssetNumber(ctx context.Context, reg *repository.Registry, number string, kind domain.OwnerKind, ownerID int64, creatorID int64) (claimed domain.AssetNumber, err error) {
	existing, err := reg.AssetNumbers.Select(ctx, repository.Query{
		Conds:          []repository.Cond{repository.Eq("number", number)},
		IncludeTrashed: true,
	})
	if err != nil {
		return claimed, err
	}

	for _, mapping := range existing {
		if !mapping.Trashed() {
			return claimed, errs.ErrAssetNumberTaken
		}
		if ownerErr := resolveOwner(ctx, reg, mapping.OwnerKind, mapping.OwnerID); ownerErr == nil {
			return claimed, errs.ErrAssetNumberTaken
		}
	}

	return reg.AssetNumbers.Create(ctx, domain.AssetNumber{
		Record:    domain.Record{CreatorID: creatorID},
		Number:    number,
		OwnerKind: kind,
		OwnerID:   ownerID,
	})
}

func releaseAssetNumber(ctx context.Context, reg *repository.Registry, number string) (released domain.AssetNumber, err error) {
	mappings, err := reg.AssetNumbers.Select(ctx, repository.Query{
		Conds: []repository.Cond{repository.Eq("number", number)},
		Limit: 1,
	})
	if err != nil {
		return released, err
	}
	if len(mappings) == 0 {
		return released, errs.ErrNotFound
	}

	return reg.AssetNumbers.Delete(ctx, mappings[0].ID)
}

// resolveOwner checks that the owner record behind a mapping is still live.
// Each owner kind has its own store; unknown kinds resolve to nothing.
func resolveOwner(ctx context.Context, reg *repository.Registry, kind domain.OwnerKind, ownerID int64) error {
	switch kind {
	case domain.OwnerDevice:
		_, err := reg.Devices.Get(ctx, ownerID, false)
		return err
	default:
		return errs.ErrNotFound
	}
}

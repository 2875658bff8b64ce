package service

import (
	"context"
	"strings"

	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/lookup"
)

// PincodeService exposes the seeded pincode directory
type PincodeService struct {
	pincodeRepo repository.PincodeRepository
	cache       LookupCache
}

// NewPincodeService creates a new pincode service
func NewPincodeService(pincodeRepo repository.PincodeRepository, cache LookupCache) *PincodeService {
	return &PincodeService{pincodeRepo: pincodeRepo, cache: cacheOrNoop(cache)}
}

// GetPincode looks up a single code
func (s *PincodeService) GetPincode(ctx context.Context, code string) (*entity.Pincode, error) {
	code = strings.TrimSpace(code)
	if !isPincode(code) {
		return nil, apperror.NewBadRequestError("Pincode must be 6 digits")
	}
	pin, err := s.pincodeRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if pin == nil {
		return nil, apperror.NewNotFoundError("Pincode")
	}
	return pin, nil
}

// SearchPincodes matches code or city prefixes
func (s *PincodeService) SearchPincodes(ctx context.Context, query string) ([]lookup.Item, error) {
	return cachedSearch(ctx, s.cache, EntityPincodes, query, func(ctx context.Context, q string) ([]lookup.Item, error) {
		pins, err := s.pincodeRepo.Search(ctx, q, lookupLimit)
		if err != nil {
			return nil, err
		}
		items := make([]lookup.Item, 0, len(pins))
		for _, p := range pins {
			items = append(items, lookup.Item{
				ID:     p.Code,
				Label:  p.Code + " " + p.City,
				Detail: joinNonEmpty(", ", p.District, p.State),
			})
		}
		return items, nil
	})
}

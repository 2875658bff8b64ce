package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/lookup"
	"github.com/sangkips/stayledger-api/pkg/pagination"
	"github.com/sangkips/stayledger-api/pkg/utils"
)

// HostService handles host-related operations
type HostService struct {
	hostRepo    repository.HostRepository
	pincodeRepo repository.PincodeRepository
	cache       LookupCache
}

// NewHostService creates a new host service
func NewHostService(hostRepo repository.HostRepository, pincodeRepo repository.PincodeRepository, cache LookupCache) *HostService {
	return &HostService{hostRepo: hostRepo, pincodeRepo: pincodeRepo, cache: cacheOrNoop(cache)}
}

// HostInput is used for both create and update
type HostInput struct {
	Name          string
	Phone         *string
	Email         *string
	PAN           *string
	GSTIN         *string
	Address       *string
	Pincode       *string
	City          *string
	State         *string
	AccountHolder *string
	AccountNumber *string
	BankName      *string
	IFSC          *string
}

func (in *HostInput) validate() error {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Host name is required"})
	}
	if v := optional(in.PAN); v != nil && len(*v) != 10 {
		errs = append(errs, apperror.FieldError{Field: "pan", Message: "PAN must be 10 characters"})
	}
	if v := optional(in.GSTIN); v != nil && len(*v) != 15 {
		errs = append(errs, apperror.FieldError{Field: "gstin", Message: "GSTIN must be 15 characters"})
	}
	if v := optional(in.Pincode); v != nil && !isPincode(*v) {
		errs = append(errs, apperror.FieldError{Field: "pincode", Message: "Pincode must be 6 digits"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

func (s *HostService) apply(ctx context.Context, host *entity.Host, in *HostInput) error {
	host.Name = strings.TrimSpace(in.Name)
	host.Phone = optional(in.Phone)
	host.Email = optional(in.Email)
	host.PAN = upperOptional(in.PAN)
	host.GSTIN = upperOptional(in.GSTIN)
	host.Address = optional(in.Address)
	host.Pincode = optional(in.Pincode)
	host.City = optional(in.City)
	host.State = optional(in.State)
	host.AccountHolder = optional(in.AccountHolder)
	host.AccountNumber = optional(in.AccountNumber)
	host.BankName = optional(in.BankName)
	host.IFSC = upperOptional(in.IFSC)

	if host.Pincode != nil && (host.City == nil || host.State == nil) {
		pin, err := s.pincodeRepo.GetByCode(ctx, *host.Pincode)
		if err != nil {
			return err
		}
		if pin != nil {
			if host.City == nil {
				host.City = &pin.City
			}
			if host.State == nil {
				host.State = &pin.State
			}
		}
	}
	return nil
}

// CreateHost creates a new host
func (s *HostService) CreateHost(ctx context.Context, input *HostInput) (*entity.Host, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	host := &entity.Host{}
	if err := s.apply(ctx, host, input); err != nil {
		return nil, err
	}
	if err := s.hostRepo.Create(ctx, host); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, EntityHosts)
	return host, nil
}

// GetHost retrieves a host by ID
func (s *HostService) GetHost(ctx context.Context, id uuid.UUID) (*entity.Host, error) {
	host, err := s.hostRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, apperror.NewNotFoundError("Host")
	}
	return host, nil
}

// ListHosts lists hosts
func (s *HostService) ListHosts(ctx context.Context, params *pagination.Params) (*pagination.Result[entity.Host], error) {
	params.Validate()
	hosts, total, err := s.hostRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(hosts, *params, total), nil
}

// UpdateHost updates a host
func (s *HostService) UpdateHost(ctx context.Context, id uuid.UUID, input *HostInput) (*entity.Host, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	host, err := s.GetHost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, host, input); err != nil {
		return nil, err
	}
	if err := s.hostRepo.Update(ctx, host); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, EntityHosts)
	return host, nil
}

// DeleteHost deletes a host that no longer has properties
func (s *HostService) DeleteHost(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetHost(ctx, id); err != nil {
		return err
	}
	count, err := s.hostRepo.CountProperties(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Host still has properties; remove them first")
	}
	if err := s.hostRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, EntityHosts)
	return nil
}

// SearchHosts returns typeahead candidates
func (s *HostService) SearchHosts(ctx context.Context, query string) ([]lookup.Item, error) {
	return cachedSearch(ctx, s.cache, EntityHosts, query, func(ctx context.Context, q string) ([]lookup.Item, error) {
		hosts, err := s.hostRepo.Search(ctx, q, lookupLimit)
		if err != nil {
			return nil, err
		}
		items := make([]lookup.Item, 0, len(hosts))
		for _, h := range hosts {
			items = append(items, lookup.Item{
				ID:     h.ID.String(),
				Label:  h.Name,
				Detail: joinNonEmpty(" · ", deref(h.Phone), deref(h.City)),
			})
		}
		return items, nil
	})
}

func upperOptional(s *string) *string {
	v := optional(s)
	if v == nil {
		return nil
	}
	code := utils.NormalizeCode(*v)
	return &code
}

func isPincode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

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
	"github.com/sangkips/stayledger-api/pkg/pricing"
	"github.com/sangkips/stayledger-api/pkg/timeutil"
	"github.com/sangkips/stayledger-api/pkg/utils"
)

const (
	defaultCheckIn  = "14:00"
	defaultCheckOut = "11:00"
)

// PropertyService handles property-related operations
type PropertyService struct {
	propertyRepo repository.PropertyRepository
	hostRepo     repository.HostRepository
	pincodeRepo  repository.PincodeRepository
	cache        LookupCache
}

// NewPropertyService creates a new property service
func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	hostRepo repository.HostRepository,
	pincodeRepo repository.PincodeRepository,
	cache LookupCache,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		hostRepo:     hostRepo,
		pincodeRepo:  pincodeRepo,
		cache:        cacheOrNoop(cache),
	}
}

// PropertyInput is used for both create and update
type PropertyInput struct {
	HostID          uuid.UUID
	Name            string
	Code            string
	Address         *string
	Pincode         *string
	City            *string
	State           *string
	StateCode       string
	RoomTypes       []string
	DefaultCheckIn  string
	DefaultCheckOut string
}

func (in *PropertyInput) validate() error {
	var errs []apperror.FieldError
	if in.HostID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "host_id", Message: "Please select a host"})
	}
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Property name is required"})
	}
	if strings.TrimSpace(in.Code) == "" {
		errs = append(errs, apperror.FieldError{Field: "code", Message: "Property code is required"})
	}
	if len(pricing.NormalizeRoomTypes(in.RoomTypes)) == 0 {
		errs = append(errs, apperror.FieldError{Field: "room_types", Message: "At least one room type is required"})
	}
	if v := optional(in.Pincode); v != nil && !isPincode(*v) {
		errs = append(errs, apperror.FieldError{Field: "pincode", Message: "Pincode must be 6 digits"})
	}
	if in.DefaultCheckIn != "" {
		if _, err := timeutil.ParseClock(in.DefaultCheckIn); err != nil {
			errs = append(errs, apperror.FieldError{Field: "default_check_in", Message: "Default check-in must be HH:MM"})
		}
	}
	if in.DefaultCheckOut != "" {
		if _, err := timeutil.ParseClock(in.DefaultCheckOut); err != nil {
			errs = append(errs, apperror.FieldError{Field: "default_check_out", Message: "Default check-out must be HH:MM"})
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

func (s *PropertyService) apply(ctx context.Context, property *entity.Property, in *PropertyInput) error {
	host, err := s.hostRepo.GetByID(ctx, in.HostID)
	if err != nil {
		return err
	}
	if host == nil {
		return apperror.NewFieldError("host_id", "Host not found")
	}

	code := utils.NormalizeCode(in.Code)
	existing, err := s.propertyRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != property.ID {
		return apperror.NewConflictError("Property code already exists")
	}

	property.HostID = host.ID
	property.Name = strings.TrimSpace(in.Name)
	property.Code = code
	property.Address = optional(in.Address)
	property.Pincode = optional(in.Pincode)
	property.City = optional(in.City)
	property.State = optional(in.State)
	property.StateCode = strings.TrimSpace(in.StateCode)
	property.SetRoomTypes(pricing.NormalizeRoomTypes(in.RoomTypes))
	property.DefaultCheckIn = orDefault(in.DefaultCheckIn, defaultCheckIn)
	property.DefaultCheckOut = orDefault(in.DefaultCheckOut, defaultCheckOut)

	if property.Pincode != nil {
		pin, err := s.pincodeRepo.GetByCode(ctx, *property.Pincode)
		if err != nil {
			return err
		}
		if pin != nil {
			if property.City == nil {
				property.City = &pin.City
			}
			if property.State == nil {
				property.State = &pin.State
			}
			if property.StateCode == "" {
				property.StateCode = pin.StateCode
			}
		}
	}
	return nil
}

// CreateProperty creates a new property
func (s *PropertyService) CreateProperty(ctx context.Context, input *PropertyInput) (*entity.Property, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	property := &entity.Property{}
	if err := s.apply(ctx, property, input); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, EntityProperties)
	return property, nil
}

// GetProperty retrieves a property by ID
func (s *PropertyService) GetProperty(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperror.NewNotFoundError("Property")
	}
	return property, nil
}

// ListProperties lists properties, optionally for one host
func (s *PropertyService) ListProperties(ctx context.Context, params *repository.PropertyFilterParams) (*pagination.Result[entity.Property], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.Params{}
	}
	params.Pagination.Validate()
	properties, total, err := s.propertyRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(properties, *params.Pagination, total), nil
}

// UpdateProperty updates a property
func (s *PropertyService) UpdateProperty(ctx context.Context, id uuid.UUID, input *PropertyInput) (*entity.Property, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	property, err := s.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, property, input); err != nil {
		return nil, err
	}
	property.Host = nil
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, EntityProperties)
	return property, nil
}

// DeleteProperty deletes a property
func (s *PropertyService) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProperty(ctx, id); err != nil {
		return err
	}
	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, EntityProperties)
	return nil
}

// SearchProperties returns typeahead candidates
func (s *PropertyService) SearchProperties(ctx context.Context, query string) ([]lookup.Item, error) {
	return cachedSearch(ctx, s.cache, EntityProperties, query, func(ctx context.Context, q string) ([]lookup.Item, error) {
		properties, err := s.propertyRepo.Search(ctx, q, lookupLimit)
		if err != nil {
			return nil, err
		}
		items := make([]lookup.Item, 0, len(properties))
		for _, p := range properties {
			items = append(items, lookup.Item{
				ID:     p.ID.String(),
				Label:  p.Name,
				Detail: joinNonEmpty(" · ", p.Code, deref(p.City)),
			})
		}
		return items, nil
	})
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

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
)

// ClientService handles client (billed company) operations
type ClientService struct {
	clientRepo  repository.ClientRepository
	pincodeRepo repository.PincodeRepository
	cache       LookupCache
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, pincodeRepo repository.PincodeRepository, cache LookupCache) *ClientService {
	return &ClientService{clientRepo: clientRepo, pincodeRepo: pincodeRepo, cache: cacheOrNoop(cache)}
}

// ClientInput is used for both create and update
type ClientInput struct {
	Name             string
	GSTIN            *string
	ContactName      *string
	Phone            *string
	Email            *string
	BillingAddress   *string
	BillingPincode   *string
	BillingCity      *string
	BillingState     *string
	BillingStateCode string
}

func (in *ClientInput) validate() error {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Client name is required"})
	}
	if v := optional(in.GSTIN); v != nil && len(*v) != 15 {
		errs = append(errs, apperror.FieldError{Field: "gstin", Message: "GSTIN must be 15 characters"})
	}
	if v := optional(in.BillingPincode); v != nil && !isPincode(*v) {
		errs = append(errs, apperror.FieldError{Field: "billing_pincode", Message: "Pincode must be 6 digits"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

func (s *ClientService) apply(ctx context.Context, client *entity.Client, in *ClientInput) error {
	client.Name = strings.TrimSpace(in.Name)
	client.GSTIN = upperOptional(in.GSTIN)
	client.ContactName = optional(in.ContactName)
	client.Phone = optional(in.Phone)
	client.Email = optional(in.Email)
	client.BillingAddress = optional(in.BillingAddress)
	client.BillingPincode = optional(in.BillingPincode)
	client.BillingCity = optional(in.BillingCity)
	client.BillingState = optional(in.BillingState)
	client.BillingStateCode = strings.TrimSpace(in.BillingStateCode)

	// The first two GSTIN digits are the registering state.
	if client.BillingStateCode == "" && client.GSTIN != nil {
		client.BillingStateCode = (*client.GSTIN)[:2]
	}

	if client.BillingPincode != nil {
		pin, err := s.pincodeRepo.GetByCode(ctx, *client.BillingPincode)
		if err != nil {
			return err
		}
		if pin != nil {
			if client.BillingCity == nil {
				client.BillingCity = &pin.City
			}
			if client.BillingState == nil {
				client.BillingState = &pin.State
			}
			if client.BillingStateCode == "" {
				client.BillingStateCode = pin.StateCode
			}
		}
	}
	return nil
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *ClientInput) (*entity.Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	client := &entity.Client{}
	if err := s.apply(ctx, client, input); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, EntityClients)
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists clients
func (s *ClientService) ListClients(ctx context.Context, params *pagination.Params) (*pagination.Result[entity.Client], error) {
	params.Validate()
	clients, total, err := s.clientRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(clients, *params, total), nil
}

// UpdateClient updates a client
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, client, input); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, EntityClients)
	return client, nil
}

// DeleteClient deletes a client
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, EntityClients)
	return nil
}

// SearchClients returns typeahead candidates
func (s *ClientService) SearchClients(ctx context.Context, query string) ([]lookup.Item, error) {
	return cachedSearch(ctx, s.cache, EntityClients, query, func(ctx context.Context, q string) ([]lookup.Item, error) {
		clients, err := s.clientRepo.Search(ctx, q, lookupLimit)
		if err != nil {
			return nil, err
		}
		items := make([]lookup.Item, 0, len(clients))
		for _, c := range clients {
			items = append(items, lookup.Item{
				ID:     c.ID.String(),
				Label:  c.Name,
				Detail: joinNonEmpty(" · ", deref(c.GSTIN), deref(c.BillingCity)),
			})
		}
		return items, nil
	})
}

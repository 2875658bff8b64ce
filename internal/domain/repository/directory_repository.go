package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/pkg/pagination"
)

// HostRepository defines the interface for host data operations
type HostRepository interface {
	Create(ctx context.Context, host *entity.Host) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Host, error)
	Update(ctx context.Context, host *entity.Host) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.Params) ([]entity.Host, int64, error)
	// Search matches name, phone or email by substring
	Search(ctx context.Context, query string, limit int) ([]entity.Host, error)
	CountProperties(ctx context.Context, id uuid.UUID) (int64, error)
}

// PropertyRepository defines the interface for property data operations
type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	GetByCode(ctx context.Context, code string) (*entity.Property, error)
	Update(ctx context.Context, property *entity.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *PropertyFilterParams) ([]entity.Property, int64, error)
	// Search matches name, code or city by substring
	Search(ctx context.Context, query string, limit int) ([]entity.Property, error)
}

// PropertyFilterParams contains filtering parameters for property queries
type PropertyFilterParams struct {
	Pagination *pagination.Params
	HostID     *uuid.UUID
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.Params) ([]entity.Client, int64, error)
	// Search matches name, GSTIN or contact by substring
	Search(ctx context.Context, query string, limit int) ([]entity.Client, error)
}

// PincodeRepository is read-mostly; entries are seeded.
type PincodeRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Pincode, error)
	// Search matches a code prefix or a city prefix
	Search(ctx context.Context, query string, limit int) ([]entity.Pincode, error)
	Upsert(ctx context.Context, pincodes []entity.Pincode) error
}

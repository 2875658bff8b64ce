package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create inserts the invoice and its items in one transaction. A taken
	// invoice number yields ErrDuplicateNumber.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID loads the invoice with its items in position order
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// Update saves the invoice and replaces its items in one transaction
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	GetNextInvoiceNumber(ctx context.Context) (int64, error)
	MarkArchived(ctx context.Context, id uuid.UUID, key string, at time.Time) error
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination    *pagination.Params
	Search        string
	ClientID      *uuid.UUID
	ReservationID *uuid.UUID
}

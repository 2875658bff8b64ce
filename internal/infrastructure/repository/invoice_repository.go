package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stayledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := invoice.Items
		if err := tx.Omit("Items", "Reservation", "Client").Create(invoice).Error; err != nil {
			return err
		}
		return createItems(tx, invoice.ID, items)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateNumber
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Reservation.Property").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Reservation", "Client").Save(invoice).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("invoice_id = ?", invoice.ID).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		return createItems(tx, invoice.ID, invoice.Items)
	})
}

func createItems(tx *gorm.DB, invoiceID uuid.UUID, items []entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].InvoiceID = invoiceID
		items[i].Position = i + 1
	}
	return tx.Create(&items).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(ContainsAny(params.Search, "invoice_no", "bill_to_name"))

	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}
	if params.ReservationID != nil {
		query = query.Where("reservation_id = ?", *params.ReservationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order("invoice_date DESC, created_at DESC").
		Find(&invoices).Error
	return invoices, total, err
}

// GetNextInvoiceNumber counts soft-deleted rows too so numbers are never reused.
func (r *invoiceRepository) GetNextInvoiceNumber(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&entity.Invoice{}).Count(&count).Error
	return count + 1, err
}

func (r *invoiceRepository) MarkArchived(ctx context.Context, id uuid.UUID, key string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"archive_key": key, "archived_at": at}).Error
}

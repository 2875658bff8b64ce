package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/invoicepdf"
	"github.com/sangkips/stayledger-api/pkg/metrics"
	"github.com/sangkips/stayledger-api/pkg/pagination"
	"github.com/sangkips/stayledger-api/pkg/pricing"
	"github.com/sangkips/stayledger-api/pkg/timeutil"
	"github.com/sangkips/stayledger-api/pkg/utils"
)

const pdfContentType = "application/pdf"

// DocumentStore persists rendered documents and returns their storage key.
type DocumentStore interface {
	Put(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	invoiceRepo     repository.InvoiceRepository
	reservationRepo repository.ReservationRepository
	clientRepo      repository.ClientRepository
	supplier        invoicepdf.Party
	store           DocumentStore
}

// NewInvoiceService creates a new invoice service. store may be nil, in which
// case archiving is disabled.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	reservationRepo repository.ReservationRepository,
	clientRepo repository.ClientRepository,
	supplier invoicepdf.Party,
	store DocumentStore,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		reservationRepo: reservationRepo,
		clientRepo:      clientRepo,
		supplier:        supplier,
		store:           store,
	}
}

// InvoiceInput is used for both create and update. A blank DisplayTaxes is
// derived from the supplier and place-of-supply states.
type InvoiceInput struct {
	UserID        uuid.UUID
	ReservationID *uuid.UUID
	ClientID      *uuid.UUID
	InvoiceDate   string
	BillToName    string
	BillToGSTIN   *string
	BillToAddress *string
	PlaceOfSupply string
	DisplayTaxes  string
	Items         []pricing.LineItem
	Note          *string
}

func (in *InvoiceInput) validate() error {
	var errs []apperror.FieldError
	if len(in.Items) == 0 {
		errs = append(errs, apperror.FieldError{Field: "items", Message: "At least one line item is required"})
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Description) == "" {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].description", i), Message: "Description is required"})
		}
	}
	if strings.TrimSpace(in.DisplayTaxes) != "" {
		if _, err := pricing.ParseTaxMode(in.DisplayTaxes); err != nil {
			errs = append(errs, apperror.FieldError{Field: "display_taxes", Message: "Display taxes must be \"SGST & CGST\" or \"IGST\""})
		}
	}
	if strings.TrimSpace(in.InvoiceDate) != "" {
		if _, err := timeutil.ParseDate(in.InvoiceDate); err != nil {
			errs = append(errs, apperror.FieldError{Field: "invoice_date", Message: "Invoice date is not a valid date"})
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// prepare resolves the linked reservation and client, fills the bill-to
// block, picks the tax mode and aggregates the items.
func (s *InvoiceService) prepare(ctx context.Context, invoice *entity.Invoice, in *InvoiceInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	supplierState := s.supplier.StateCode
	clientID := in.ClientID

	if in.ReservationID != nil {
		reservation, err := s.reservationRepo.GetByID(ctx, *in.ReservationID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return apperror.NewFieldError("reservation_id", "Reservation not found")
		}
		if reservation.Property != nil && reservation.Property.StateCode != "" {
			supplierState = reservation.Property.StateCode
		}
		if clientID == nil {
			clientID = reservation.ClientID
		}
	}

	var client *entity.Client
	if clientID != nil {
		c, err := s.clientRepo.GetByID(ctx, *clientID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperror.NewFieldError("client_id", "Client not found")
		}
		client = c
	}

	billTo := strings.TrimSpace(in.BillToName)
	gstin := upperOptional(in.BillToGSTIN)
	address := optional(in.BillToAddress)
	placeOfSupply := strings.TrimSpace(in.PlaceOfSupply)
	if client != nil {
		if billTo == "" {
			billTo = client.Name
		}
		if gstin == nil {
			gstin = client.GSTIN
		}
		if address == nil {
			address = client.BillingAddress
		}
		if placeOfSupply == "" {
			placeOfSupply = client.BillingStateCode
		}
	}
	if billTo == "" {
		return apperror.NewFieldError("bill_to_name", "Bill-to name or client is required")
	}

	mode := pricing.TaxModeForStates(supplierState, placeOfSupply)
	if strings.TrimSpace(in.DisplayTaxes) != "" {
		mode, _ = pricing.ParseTaxMode(in.DisplayTaxes)
	}

	date := timeutil.StartOfDay(timeutil.Now())
	if strings.TrimSpace(in.InvoiceDate) != "" {
		date, _ = timeutil.ParseDate(in.InvoiceDate)
	}

	invoice.ReservationID = in.ReservationID
	invoice.ClientID = clientID
	invoice.InvoiceDate = date
	invoice.BillToName = billTo
	invoice.BillToGSTIN = gstin
	invoice.BillToAddress = address
	invoice.PlaceOfSupply = placeOfSupply
	invoice.DisplayTaxes = mode
	invoice.Note = optional(in.Note)

	invoice.Items = make([]entity.InvoiceItem, 0, len(in.Items))
	for i, item := range in.Items {
		invoice.Items = append(invoice.Items, entity.InvoiceItem{
			Position:    i + 1,
			Description: strings.TrimSpace(item.Description),
			Tariff:      pricing.Round2(item.Tariff.Float64()),
			Tax:         pricing.Round2(item.Tax.Float64()),
			Total:       pricing.Round2(item.Total.Float64()),
		})
	}
	// totals come from the rounded rows so they agree with what is stored
	invoice.ApplySummary(pricing.Summarize(invoice.LineItems(), mode))
	return nil
}

// CreateInvoice creates a new invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *InvoiceInput) (*entity.Invoice, error) {
	invoice := &entity.Invoice{CreatedBy: input.UserID}
	if err := s.prepare(ctx, invoice, input); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		next, err := s.invoiceRepo.GetNextInvoiceNumber(ctx)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to generate invoice number")
		}
		invoice.InvoiceNo = utils.GenerateReferenceNo("INV", next)

		err = s.invoiceRepo.Create(ctx, invoice)
		if errors.Is(err, repository.ErrDuplicateNumber) && attempt < numberAttempts {
			continue
		}
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to create invoice")
		}
		break
	}
	return s.invoiceRepo.GetByID(ctx, invoice.ID)
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.Result[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.Params{}
	}
	params.Pagination.Validate()
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(invoices, *params.Pagination, total), nil
}

// UpdateInvoice updates an invoice and replaces its items
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, input *InvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, invoice, input); err != nil {
		return nil, err
	}
	invoice.Reservation, invoice.Client = nil, nil
	// Edits make any archived copy stale.
	invoice.ArchiveKey, invoice.ArchivedAt = nil, nil
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, invoice.ID)
}

// DeleteInvoice deletes an invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetInvoice(ctx, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// RenderPDF renders the invoice and returns the file name and bytes
func (s *InvoiceService) RenderPDF(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return "", nil, err
	}
	body, err := invoicepdf.Render(s.document(invoice))
	if err != nil {
		return "", nil, apperror.Wrap(err, "Failed to render invoice")
	}
	return invoice.InvoiceNo + ".pdf", body, nil
}

// ArchiveInvoice uploads the rendered PDF to document storage
func (s *InvoiceService) ArchiveInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	if s.store == nil {
		return nil, apperror.ErrStorageDisabled
	}
	name, body, err := s.RenderPDF(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := s.store.Put(ctx, name, body, pdfContentType)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to archive invoice")
	}
	now := time.Now()
	if err := s.invoiceRepo.MarkArchived(ctx, id, key, now); err != nil {
		return nil, err
	}
	metrics.InvoicesArchived.Inc()
	log.Printf("Invoice %s archived to %s", name, key)
	return s.GetInvoice(ctx, id)
}

func (s *InvoiceService) document(invoice *entity.Invoice) invoicepdf.Document {
	doc := invoicepdf.Document{
		InvoiceNo:   invoice.InvoiceNo,
		InvoiceDate: invoice.InvoiceDate,
		Supplier:    s.supplier,
		BillTo: invoicepdf.Party{
			Name:      invoice.BillToName,
			Address:   deref(invoice.BillToAddress),
			GSTIN:     deref(invoice.BillToGSTIN),
			StateCode: invoice.PlaceOfSupply,
		},
		DisplayTaxes: invoice.DisplayTaxes,
		Items:        invoice.LineItems(),
		Totals:       invoice.Totals(),
		Notes:        deref(invoice.Note),
	}
	if r := invoice.Reservation; r != nil {
		doc.GuestName = r.GuestName
		doc.Stay = fmt.Sprintf("%s to %s (%d days)",
			r.CheckInDate.In(timeutil.IST).Format(timeutil.DisplayLayout),
			r.CheckOutDate.In(timeutil.IST).Format(timeutil.DisplayLayout),
			r.ChargeableDays)
		if r.Property != nil && r.Property.StateCode != "" {
			doc.Supplier.StateCode = r.Property.StateCode
		}
	}
	return doc
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/pkg/pricing"
	"gorm.io/gorm"
)

// Invoice is a GST invoice raised for a client, usually against a reservation.
// Totals are the output of pricing.Summarize over Items.
type Invoice struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo       string          `gorm:"size:50;uniqueIndex;not null" json:"invoice_no"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;index" json:"created_by"`
	ReservationID   *uuid.UUID      `gorm:"type:uuid;index" json:"reservation_id,omitempty"`
	ClientID        *uuid.UUID      `gorm:"type:uuid;index" json:"client_id,omitempty"`
	InvoiceDate     time.Time       `gorm:"type:date;not null" json:"invoice_date"`
	BillToName      string          `gorm:"size:255;not null" json:"bill_to_name"`
	BillToGSTIN     *string         `gorm:"size:20;column:bill_to_gstin" json:"bill_to_gstin,omitempty"`
	BillToAddress   *string         `gorm:"type:text" json:"bill_to_address,omitempty"`
	PlaceOfSupply   string          `gorm:"size:2" json:"place_of_supply"`
	DisplayTaxes    pricing.TaxMode `gorm:"size:20;not null" json:"display_taxes"`
	TotalWithoutGST float64         `gorm:"type:decimal(15,2);default:0" json:"total_without_gst"`
	TotalTax        float64         `gorm:"type:decimal(15,2);default:0" json:"total_tax"`
	SGST            float64         `gorm:"type:decimal(15,2);default:0;column:sgst" json:"sgst"`
	CGST            float64         `gorm:"type:decimal(15,2);default:0;column:cgst" json:"cgst"`
	IGST            float64         `gorm:"type:decimal(15,2);default:0;column:igst" json:"igst"`
	TotalWithGST    float64         `gorm:"type:decimal(15,2);default:0" json:"total_with_gst"`
	Note            *string         `gorm:"type:text" json:"note,omitempty"`
	ArchiveKey      *string         `gorm:"size:500" json:"archive_key,omitempty"`
	ArchivedAt      *time.Time      `json:"archived_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Reservation *Reservation  `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	Client      *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items       []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// LineItems converts the stored rows into pricing input.
func (i *Invoice) LineItems() []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(i.Items))
	for _, item := range i.Items {
		out = append(out, pricing.LineItem{
			Description: item.Description,
			Tariff:      pricing.Amount(item.Tariff),
			Tax:         pricing.Amount(item.Tax),
			Total:       pricing.Amount(item.Total),
		})
	}
	return out
}

// ApplySummary stores aggregated totals.
func (i *Invoice) ApplySummary(s pricing.Summary) {
	i.TotalWithoutGST = s.TotalWithoutGST
	i.TotalTax = s.TotalTax
	i.SGST = s.SGST
	i.CGST = s.CGST
	i.IGST = s.IGST
	i.TotalWithGST = s.TotalWithGST
}

// Totals is the display form of the stored totals.
func (i *Invoice) Totals() pricing.Totals {
	return pricing.Summary{
		TotalWithoutGST: i.TotalWithoutGST,
		TotalTax:        i.TotalTax,
		SGST:            i.SGST,
		CGST:            i.CGST,
		IGST:            i.IGST,
		TotalWithGST:    i.TotalWithGST,
	}.Formatted()
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int            `gorm:"not null" json:"position"`
	Description string         `gorm:"size:500" json:"description"`
	Tariff      float64        `gorm:"type:decimal(15,2);default:0" json:"tariff"`
	Tax         float64        `gorm:"type:decimal(15,2);default:0" json:"tax"`
	Total       float64        `gorm:"type:decimal(15,2);default:0" json:"total"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

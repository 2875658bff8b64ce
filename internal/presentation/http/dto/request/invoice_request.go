package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/application/service"
	"github.com/sangkips/stayledger-api/pkg/pricing"
)

// InvoiceRequest represents an invoice create or update request. Line item
// amounts accept numbers or formatted strings such as "₹1,200.50".
type InvoiceRequest struct {
	ReservationID *uuid.UUID         `json:"reservation_id"`
	ClientID      *uuid.UUID         `json:"client_id"`
	InvoiceDate   string             `json:"invoice_date"`
	BillToName    string             `json:"bill_to_name" binding:"max=255"`
	BillToGSTIN   *string            `json:"bill_to_gstin"`
	BillToAddress *string            `json:"bill_to_address"`
	PlaceOfSupply string             `json:"place_of_supply" binding:"omitempty,len=2"`
	DisplayTaxes  string             `json:"display_taxes"`
	Items         []pricing.LineItem `json:"items"`
	Note          *string            `json:"note"`
}

// ToInput converts the request into service input
func (r *InvoiceRequest) ToInput(userID uuid.UUID) *service.InvoiceInput {
	return &service.InvoiceInput{
		UserID:        userID,
		ReservationID: r.ReservationID,
		ClientID:      r.ClientID,
		InvoiceDate:   r.InvoiceDate,
		BillToName:    r.BillToName,
		BillToGSTIN:   r.BillToGSTIN,
		BillToAddress: r.BillToAddress,
		PlaceOfSupply: r.PlaceOfSupply,
		DisplayTaxes:  r.DisplayTaxes,
		Items:         r.Items,
		Note:          r.Note,
	}
}

// TotalsRequest previews invoice totals without saving
type TotalsRequest struct {
	DisplayTaxes string             `json:"display_taxes" binding:"required"`
	Items        []pricing.LineItem `json:"items"`
}

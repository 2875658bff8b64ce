package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/application/service"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/pkg/pricing"
)

// LedgerRequest is the editable part of a company or host ledger. Amounts
// accept numbers or formatted strings.
type LedgerRequest struct {
	BaseRate    pricing.Amount  `json:"base_rate"`
	TaxPercent  pricing.Amount  `json:"tax_percent"`
	TaxAmount   *pricing.Amount `json:"tax_amount"`
	TotalTariff *pricing.Amount `json:"total_tariff"`
}

func (r LedgerRequest) ledger() pricing.Ledger {
	l := pricing.Ledger{BaseRate: r.BaseRate.Float64(), TaxPercent: r.TaxPercent.Float64()}
	if r.TaxAmount != nil {
		v := r.TaxAmount.Float64()
		l.TaxAmount = &v
	}
	if r.TotalTariff != nil {
		v := r.TotalTariff.Float64()
		l.TotalTariff = &v
	}
	return l
}

// StayRequest is the shared check-in/check-out group
type StayRequest struct {
	CheckInDate  string `json:"check_in_date"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutDate string `json:"check_out_date"`
	CheckOutTime string `json:"check_out_time"`
}

func (r StayRequest) interval() pricing.StayInterval {
	return pricing.StayInterval{
		CheckInDate:  r.CheckInDate,
		CheckInTime:  r.CheckInTime,
		CheckOutDate: r.CheckOutDate,
		CheckOutTime: r.CheckOutTime,
	}
}

// QuoteRequest is an in-progress reservation form to recompute. Current
// ledger values may be sent so the guard can keep them.
type QuoteRequest struct {
	Stay    StayRequest   `json:"stay"`
	Company LedgerRequest `json:"company"`
	Host    LedgerRequest `json:"host"`
}

// ToQuote converts the request into a pricing quote
func (r *QuoteRequest) ToQuote() pricing.StayQuote {
	return pricing.StayQuote{
		Stay:    r.Stay.interval(),
		Company: r.Company.ledger(),
		Host:    r.Host.ledger(),
	}
}

// AvailabilityRequest represents a room availability check
type AvailabilityRequest struct {
	PropertyID   string   `json:"property_id"`
	CheckInDate  string   `json:"check_in_date"`
	CheckOutDate string   `json:"check_out_date"`
	RoomTypes    []string `json:"room_types"`
}

// ToQuery converts the request into an availability query
func (r *AvailabilityRequest) ToQuery() pricing.AvailabilityQuery {
	return pricing.AvailabilityQuery{
		PropertyID:   r.PropertyID,
		CheckInDate:  r.CheckInDate,
		CheckOutDate: r.CheckOutDate,
		RoomTypes:    r.RoomTypes,
	}
}

// ServiceAddonRequest is one extra service on a reservation
type ServiceAddonRequest struct {
	Name   string         `json:"name"`
	Amount pricing.Amount `json:"amount"`
	Notes  string         `json:"notes"`
}

// ReservationRequest represents a reservation create or update request
type ReservationRequest struct {
	Stay            StayRequest           `json:"stay"`
	ClientID        *uuid.UUID            `json:"client_id"`
	PropertyID      uuid.UUID             `json:"property_id" binding:"required"`
	RoomType        string                `json:"room_type" binding:"required"`
	GuestName       string                `json:"guest_name" binding:"required,max=255"`
	GuestPhone      *string               `json:"guest_phone"`
	GuestEmail      *string               `json:"guest_email"`
	GuestCount      int                   `json:"guest_count" binding:"min=0"`
	Company         LedgerRequest         `json:"company"`
	Host            LedgerRequest         `json:"host"`
	MealPlan        *string               `json:"meal_plan"`
	ServiceAddons   []ServiceAddonRequest `json:"service_addons"`
	SpecialRequests *string               `json:"special_requests"`
	Note            *string               `json:"note"`
}

// ToInput converts the request into service input
func (r *ReservationRequest) ToInput(userID uuid.UUID) *service.ReservationInput {
	addons := make([]entity.ServiceAddon, 0, len(r.ServiceAddons))
	for _, a := range r.ServiceAddons {
		addons = append(addons, entity.ServiceAddon{Name: a.Name, Amount: pricing.Round2(a.Amount.Float64()), Notes: a.Notes})
	}
	company, host := r.Company.ledger(), r.Host.ledger()
	return &service.ReservationInput{
		UserID:          userID,
		ClientID:        r.ClientID,
		PropertyID:      r.PropertyID,
		RoomType:        r.RoomType,
		GuestName:       r.GuestName,
		GuestPhone:      r.GuestPhone,
		GuestEmail:      r.GuestEmail,
		GuestCount:      r.GuestCount,
		Stay:            r.Stay.interval(),
		Company:         pricing.Ledger{BaseRate: company.BaseRate, TaxPercent: company.TaxPercent},
		Host:            pricing.Ledger{BaseRate: host.BaseRate, TaxPercent: host.TaxPercent},
		MealPlan:        r.MealPlan,
		ServiceAddons:   addons,
		SpecialRequests: r.SpecialRequests,
		Note:            r.Note,
	}
}

// StatusRequest changes a reservation status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReservationFilterRequest represents reservation list filters
type ReservationFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	PropertyID string `form:"property_id"`
	ClientID   string `form:"client_id"`
	From       string `form:"from"`
	To         string `form:"to"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

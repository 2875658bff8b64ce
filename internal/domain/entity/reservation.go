package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/enum"
	"github.com/sangkips/stayledger-api/pkg/pricing"
	"github.com/sangkips/stayledger-api/pkg/timeutil"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ServiceAddon is an extra service sold with a stay (airport pickup, meals).
type ServiceAddon struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes,omitempty"`
}

// Reservation is a booked stay. Chargeable days and both ledgers are always
// derived through pkg/pricing before a reservation is saved.
type Reservation struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	ReservationNo string                 `gorm:"size:50;uniqueIndex;not null" json:"reservation_no"`
	CreatedBy     uuid.UUID              `gorm:"type:uuid;index" json:"created_by"`
	ClientID      *uuid.UUID             `gorm:"type:uuid;index" json:"client_id,omitempty"`
	PropertyID    uuid.UUID              `gorm:"type:uuid;not null;index:idx_reservation_window" json:"property_id"`
	HostID        uuid.UUID              `gorm:"type:uuid;not null;index" json:"host_id"`
	RoomType      string                 `gorm:"size:100;not null;index:idx_reservation_window" json:"room_type"`
	Status        enum.ReservationStatus `gorm:"default:0;index" json:"status"`

	// Guest
	GuestName  string  `gorm:"size:255;not null" json:"guest_name"`
	GuestPhone *string `gorm:"size:50" json:"guest_phone,omitempty"`
	GuestEmail *string `gorm:"size:255" json:"guest_email,omitempty"`
	GuestCount int     `gorm:"default:1" json:"guest_count"`

	// Dates
	CheckInDate    time.Time `gorm:"type:date;not null;index:idx_reservation_window" json:"check_in_date"`
	CheckInTime    string    `gorm:"size:5" json:"check_in_time"`
	CheckOutDate   time.Time `gorm:"type:date;not null;index:idx_reservation_window" json:"check_out_date"`
	CheckOutTime   string    `gorm:"size:5" json:"check_out_time"`
	ChargeableDays int       `gorm:"not null" json:"chargeable_days"`

	// Company ledger
	CompanyBaseRate    float64  `gorm:"type:decimal(15,2);default:0" json:"company_base_rate"`
	CompanyTaxPercent  float64  `gorm:"type:decimal(5,2);default:0" json:"company_tax_percent"`
	CompanyTaxAmount   *float64 `gorm:"type:decimal(15,2)" json:"company_tax_amount"`
	CompanyTotalTariff *float64 `gorm:"type:decimal(15,2)" json:"company_total_tariff"`

	// Host ledger
	HostBaseRate    float64  `gorm:"type:decimal(15,2);default:0" json:"host_base_rate"`
	HostTaxPercent  float64  `gorm:"type:decimal(5,2);default:0" json:"host_tax_percent"`
	HostTaxAmount   *float64 `gorm:"type:decimal(15,2)" json:"host_tax_amount"`
	HostTotalTariff *float64 `gorm:"type:decimal(15,2)" json:"host_total_tariff"`

	// Services
	MealPlan        *string        `gorm:"size:50" json:"meal_plan,omitempty"`
	ServiceAddons   datatypes.JSON `gorm:"type:jsonb" json:"service_addons"`
	SpecialRequests *string        `gorm:"type:text" json:"special_requests,omitempty"`
	Note            *string        `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Client   *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Host     *Host     `gorm:"foreignKey:HostID" json:"host,omitempty"`
}

// BeforeCreate generates a UUID before creating a new reservation
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// Stay rebuilds the form-level stay interval from the stored columns.
func (r *Reservation) Stay() pricing.StayInterval {
	return pricing.StayInterval{
		CheckInDate:  timeutil.FormatDate(r.CheckInDate),
		CheckInTime:  r.CheckInTime,
		CheckOutDate: timeutil.FormatDate(r.CheckOutDate),
		CheckOutTime: r.CheckOutTime,
	}
}

// Quote returns the stored derivation state.
func (r *Reservation) Quote() pricing.StayQuote {
	days := r.ChargeableDays
	return pricing.StayQuote{
		Stay:           r.Stay(),
		ChargeableDays: &days,
		Company: pricing.Ledger{
			BaseRate:    r.CompanyBaseRate,
			TaxPercent:  r.CompanyTaxPercent,
			TaxAmount:   r.CompanyTaxAmount,
			TotalTariff: r.CompanyTotalTariff,
		},
		Host: pricing.Ledger{
			BaseRate:    r.HostBaseRate,
			TaxPercent:  r.HostTaxPercent,
			TaxAmount:   r.HostTaxAmount,
			TotalTariff: r.HostTotalTariff,
		},
	}
}

// ApplyQuote copies a recomputed quote onto the reservation.
func (r *Reservation) ApplyQuote(q pricing.StayQuote) {
	r.ChargeableDays = q.Days()
	r.CompanyBaseRate = q.Company.BaseRate
	r.CompanyTaxPercent = q.Company.TaxPercent
	r.CompanyTaxAmount = q.Company.TaxAmount
	r.CompanyTotalTariff = q.Company.TotalTariff
	r.HostBaseRate = q.Host.BaseRate
	r.HostTaxPercent = q.Host.TaxPercent
	r.HostTaxAmount = q.Host.TaxAmount
	r.HostTotalTariff = q.Host.TotalTariff
}

// Summary is the conflict-listing view of the reservation.
func (r *Reservation) Summary() pricing.ReservationSummary {
	return pricing.ReservationSummary{
		ID:            r.ID,
		ReservationNo: r.ReservationNo,
		GuestName:     r.GuestName,
		RoomType:      r.RoomType,
		CheckIn:       timeutil.StartOfDay(r.CheckInDate),
		CheckOut:      timeutil.StartOfDay(r.CheckOutDate),
	}
}

// Addons decodes ServiceAddons. Malformed JSON yields an empty list.
func (r *Reservation) Addons() []ServiceAddon {
	var out []ServiceAddon
	if len(r.ServiceAddons) == 0 || json.Unmarshal(r.ServiceAddons, &out) != nil || out == nil {
		return []ServiceAddon{}
	}
	return out
}

// SetAddons stores addons as JSON.
func (r *Reservation) SetAddons(addons []ServiceAddon) {
	if addons == nil {
		addons = []ServiceAddon{}
	}
	raw, _ := json.Marshal(addons)
	r.ServiceAddons = datatypes.JSON(raw)
}

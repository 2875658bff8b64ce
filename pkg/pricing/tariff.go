package pricing

import (
	"math"

	"github.com/sangkips/stayledger-api/pkg/apperror"
)

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// TaxAmount is baseRate * taxPercent / 100.
func TaxAmount(baseRate, taxPercent float64) float64 {
	return baseRate * taxPercent / 100
}

// ComputeTotalPerDay returns baseRate plus its tax, rounded to 2dp. This is
// the per-day "total tariff"; it is not multiplied by the day count.
func ComputeTotalPerDay(baseRate, taxPercent float64) float64 {
	return Round2(baseRate + TaxAmount(baseRate, taxPercent))
}

// Ledger is one side of a reservation's pricing: the company (guest-facing)
// side or the host side. TaxAmount and TotalTariff stay nil until derived.
type Ledger struct {
	BaseRate    float64  `json:"base_rate"`
	TaxPercent  float64  `json:"tax_percent"`
	TaxAmount   *float64 `json:"tax_amount"`
	TotalTariff *float64 `json:"total_tariff"`
}

// Recompute refreshes TaxAmount and TotalTariff from the shared day count.
// When days or base rate are not positive the previous values are kept as
// they are, so a partially edited form is never zeroed out.
func (l *Ledger) Recompute(days int) bool {
	if days <= 0 || l.BaseRate <= 0 {
		return false
	}
	tax := Round2(TaxAmount(l.BaseRate, l.TaxPercent))
	total := ComputeTotalPerDay(l.BaseRate, l.TaxPercent)
	l.TaxAmount = &tax
	l.TotalTariff = &total
	return true
}

// Validate checks the editable inputs of a ledger. field prefixes the
// reported field names ("company", "host").
func (l Ledger) Validate(field string) []apperror.FieldError {
	var errs []apperror.FieldError
	if l.BaseRate < 0 || math.IsNaN(l.BaseRate) {
		errs = append(errs, apperror.FieldError{Field: field + ".base_rate", Message: "Base rate cannot be negative"})
	}
	if l.TaxPercent < 0 || math.IsNaN(l.TaxPercent) {
		errs = append(errs, apperror.FieldError{Field: field + ".tax_percent", Message: "Tax percent cannot be negative"})
	}
	return errs
}

// StayQuote is the derived state of a reservation form: the stay, the shared
// day count and both ledgers.
type StayQuote struct {
	Stay           StayInterval `json:"stay"`
	ChargeableDays *int         `json:"chargeable_days"`
	Company        Ledger       `json:"company"`
	Host           Ledger       `json:"host"`
}

// Recompute derives the day count once and feeds it to both ledgers. An
// undefined stay clears the day count and leaves the ledgers untouched.
func (q *StayQuote) Recompute() {
	days, ok := q.Stay.ChargeableDays()
	if !ok {
		q.ChargeableDays = nil
		return
	}
	q.ChargeableDays = &days
	q.Company.Recompute(days)
	q.Host.Recompute(days)
}

// Days returns the derived day count or zero.
func (q StayQuote) Days() int {
	if q.ChargeableDays == nil {
		return 0
	}
	return *q.ChargeableDays
}

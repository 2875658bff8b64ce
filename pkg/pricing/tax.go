package pricing

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// TaxMode selects how the aggregate GST on an invoice is displayed.
type TaxMode string

const (
	// TaxModeSplit shows intra-state supply as equal SGST and CGST halves.
	TaxModeSplit TaxMode = "SGST & CGST"
	// TaxModeIGST shows inter-state supply as a single IGST amount.
	TaxModeIGST TaxMode = "IGST"
)

// Valid reports whether m is one of the known modes.
func (m TaxMode) Valid() bool {
	return m == TaxModeSplit || m == TaxModeIGST
}

func (m TaxMode) String() string {
	return string(m)
}

// ParseTaxMode accepts the display labels and a few loose spellings
// ("sgst&cgst", "split", "igst").
func ParseTaxMode(s string) (TaxMode, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch key {
	case "sgst&cgst", "sgst_cgst", "cgst&sgst", "split":
		return TaxModeSplit, nil
	case "igst":
		return TaxModeIGST, nil
	}
	return "", fmt.Errorf("unknown display taxes mode %q", s)
}

// Value implements driver.Valuer
func (m TaxMode) Value() (driver.Value, error) {
	return string(m), nil
}

// Scan implements sql.Scanner
func (m *TaxMode) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = TaxModeSplit
	case string:
		*m = TaxMode(v)
	case []byte:
		*m = TaxMode(v)
	default:
		return fmt.Errorf("cannot scan %T into TaxMode", value)
	}
	return nil
}

// TaxModeForStates picks the mode from the billing-state flag: a supplier and
// place of supply in the same state is intra-state (SGST & CGST), anything
// else is inter-state (IGST). Blank states are treated as intra-state.
func TaxModeForStates(supplierState, placeOfSupply string) TaxMode {
	a := strings.ToUpper(strings.TrimSpace(supplierState))
	b := strings.ToUpper(strings.TrimSpace(placeOfSupply))
	if a == "" || b == "" || a == b {
		return TaxModeSplit
	}
	return TaxModeIGST
}

// TaxSplit is the displayed breakdown of an aggregate tax amount.
type TaxSplit struct {
	SGST float64 `json:"sgst"`
	CGST float64 `json:"cgst"`
	IGST float64 `json:"igst"`
}

// SplitTax divides totalTax by mode. An unknown mode yields all zeros.
func SplitTax(totalTax float64, mode TaxMode) TaxSplit {
	switch mode {
	case TaxModeSplit:
		half := Round2(totalTax / 2)
		return TaxSplit{SGST: half, CGST: half}
	case TaxModeIGST:
		return TaxSplit{IGST: Round2(totalTax)}
	}
	return TaxSplit{}
}

package pricing

import "fmt"

// LineItem is one invoice row. Values are taken as entered; Total is not
// checked against Tariff + Tax.
type LineItem struct {
	Description string `json:"description"`
	Tariff      Amount `json:"tariff"`
	Tax         Amount `json:"tax"`
	Total       Amount `json:"total"`
}

// Summary holds the numeric invoice totals, each rounded to 2dp.
type Summary struct {
	TotalWithoutGST float64 `json:"total_without_gst"`
	TotalTax        float64 `json:"total_tax"`
	SGST            float64 `json:"sgst"`
	CGST            float64 `json:"cgst"`
	IGST            float64 `json:"igst"`
	TotalWithGST    float64 `json:"total_with_gst"`
}

// Totals is the display form of Summary with every value formatted to 2dp.
type Totals struct {
	TotalWithoutGST string `json:"total_without_gst"`
	SGST            string `json:"sgst"`
	CGST            string `json:"cgst"`
	IGST            string `json:"igst"`
	TotalWithGST    string `json:"total_with_gst"`
}

// Summarize sums tariff, tax and total independently and splits the tax by mode.
func Summarize(items []LineItem, mode TaxMode) Summary {
	var tariff, tax, total float64
	for _, item := range items {
		tariff += item.Tariff.Float64()
		tax += item.Tax.Float64()
		total += item.Total.Float64()
	}
	split := SplitTax(tax, mode)
	return Summary{
		TotalWithoutGST: Round2(tariff),
		TotalTax:        Round2(tax),
		SGST:            split.SGST,
		CGST:            split.CGST,
		IGST:            split.IGST,
		TotalWithGST:    Round2(total),
	}
}

// Formatted renders the summary for display.
func (s Summary) Formatted() Totals {
	return Totals{
		TotalWithoutGST: FormatAmount(s.TotalWithoutGST),
		SGST:            FormatAmount(s.SGST),
		CGST:            FormatAmount(s.CGST),
		IGST:            FormatAmount(s.IGST),
		TotalWithGST:    FormatAmount(s.TotalWithGST),
	}
}

// AggregateTotals is Summarize followed by Formatted.
func AggregateTotals(items []LineItem, mode TaxMode) Totals {
	return Summarize(items, mode).Formatted()
}

// FormatAmount formats v with two decimals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", Round2(v))
}

// Package invoicepdf renders a GST invoice as a single-page A4 PDF.
package invoicepdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/sangkips/stayledger-api/pkg/pricing"
	"github.com/sangkips/stayledger-api/pkg/timeutil"
)

// Party is a supplier or recipient block.
type Party struct {
	Name      string
	Address   string
	GSTIN     string
	StateCode string
}

// Document is everything printed on the invoice.
type Document struct {
	InvoiceNo    string
	InvoiceDate  time.Time
	Supplier     Party
	BillTo       Party
	GuestName    string
	Stay         string
	DisplayTaxes pricing.TaxMode
	Items        []pricing.LineItem
	Totals       pricing.Totals
	Notes        string
}

// Render returns the PDF bytes.
func Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle("Invoice "+doc.InvoiceNo, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Tax Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, "Invoice No: "+doc.InvoiceNo, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+doc.InvoiceDate.In(timeutil.IST).Format(timeutil.DisplayLayout), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 8, "Supplier", "1", 0, "L", true, 0, "")
	pdf.CellFormat(95, 8, "Bill To", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, row := range [][2]string{
		{doc.Supplier.Name, doc.BillTo.Name},
		{doc.Supplier.Address, doc.BillTo.Address},
		{"GSTIN: " + doc.Supplier.GSTIN, "GSTIN: " + doc.BillTo.GSTIN},
		{"State code: " + doc.Supplier.StateCode, "State code: " + doc.BillTo.StateCode},
	} {
		pdf.CellFormat(95, 6, clip(row[0], 55), "LR", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, clip(row[1], 55), "LR", 1, "L", false, 0, "")
	}
	pdf.CellFormat(190, 0, "", "T", 1, "", false, 0, "")
	pdf.Ln(4)

	if doc.GuestName != "" || doc.Stay != "" {
		pdf.CellFormat(95, 6, "Guest: "+doc.GuestName, "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, "Stay: "+doc.Stay, "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(90, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Tariff", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Tax", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, item := range doc.Items {
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(90, 6, clip(item.Description, 50), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, pricing.FormatAmount(item.Tariff.Float64()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, pricing.FormatAmount(item.Tax.Float64()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, pricing.FormatAmount(item.Total.Float64()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	totals := [][2]string{{"Total without GST", doc.Totals.TotalWithoutGST}}
	if doc.DisplayTaxes == pricing.TaxModeIGST {
		totals = append(totals, [2]string{"IGST", doc.Totals.IGST})
	} else {
		totals = append(totals, [2]string{"SGST", doc.Totals.SGST}, [2]string{"CGST", doc.Totals.CGST})
	}
	for _, row := range totals {
		pdf.CellFormat(130, 7, "", "", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, "Rs. "+row[1], "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "", "", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Total with GST", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Rs. "+doc.Totals.TotalWithGST, "1", 1, "R", true, 0, "")

	if doc.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(190, 5, doc.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stayledger-api/internal/application/service"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stayledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/pricing"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Totals previews the formatted totals for a set of line items
func (h *InvoiceHandler) Totals(c *gin.Context) {
	var req request.TotalsRequest
	if !bindJSON(c, &req) {
		return
	}
	mode, err := pricing.ParseTaxMode(req.DisplayTaxes)
	if err != nil {
		response.Error(c, apperror.NewFieldError("display_taxes", "Display taxes must be \"SGST & CGST\" or \"IGST\""))
		return
	}
	response.OK(c, "Totals computed successfully", pricing.AggregateTotals(req.Items, mode))
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	params := &repository.InvoiceFilterParams{Pagination: pageParams(c), Search: c.Query("search")}
	var err error
	if params.ClientID, err = queryUUID(c, "client_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.ReservationID, err = queryUUID(c, "reservation_id"); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Invoice created successfully", invoiceView(invoice))
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "invoice")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved successfully", invoiceView(invoice))
}

// Update handles updating an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "invoice")
	if !ok {
		return
	}
	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, req.ToInput(userID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice updated successfully", invoiceView(invoice))
}

// Delete handles deleting an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "invoice")
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice deleted successfully", nil)
}

// PDF streams the rendered invoice
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "invoice")
	if !ok {
		return
	}
	name, body, err := h.invoiceService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Document(c, name, "application/pdf", body, c.Query("download") == "")
}

// Archive uploads the rendered invoice to document storage
func (h *InvoiceHandler) Archive(c *gin.Context) {
	id, ok := paramID(c, "invoice")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.ArchiveInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice archived successfully", invoiceView(invoice))
}

// invoiceView adds the display-formatted totals to an invoice.
func invoiceView(invoice interface{ Totals() pricing.Totals }) gin.H {
	return gin.H{"invoice": invoice, "totals": invoice.Totals()}
}

package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stayledger-api/internal/application/service"
	"github.com/sangkips/stayledger-api/internal/domain/enum"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stayledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/pagination"
	"github.com/sangkips/stayledger-api/pkg/timeutil"
)

// ReservationHandler handles reservation-related HTTP requests
type ReservationHandler struct {
	reservationService *service.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// Quote recomputes chargeable days and both ledgers for a form in progress
func (h *ReservationHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := h.reservationService.Quote(c.Request.Context(), req.ToQuote())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote computed successfully", quote)
}

// CheckAvailability reports per room type whether the dates are free. A
// completed check is always a 200; data.blocked says whether to stop.
func (h *ReservationHandler) CheckAvailability(c *gin.Context) {
	var req request.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.reservationService.CheckAvailability(c.Request.Context(), req.ToQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Rooms are available"
	if result.Blocked {
		message = "Some rooms are not available for the selected dates"
	}
	response.OK(c, message, result)
}

// List handles listing reservations
func (h *ReservationHandler) List(c *gin.Context) {
	var req request.ReservationFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params, err := reservationFilter(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.reservationService.ListReservations(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Reservations retrieved successfully", result)
}

func reservationFilter(c *gin.Context, req *request.ReservationFilterRequest) (*repository.ReservationFilterParams, error) {
	params := &repository.ReservationFilterParams{
		Pagination: &pagination.Params{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if strings.TrimSpace(req.Status) != "" {
		status, err := enum.ParseReservationStatus(req.Status)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid status")
		}
		params.Status = &status
	}
	var err error
	if params.PropertyID, err = queryUUID(c, "property_id"); err != nil {
		return nil, err
	}
	if params.ClientID, err = queryUUID(c, "client_id"); err != nil {
		return nil, err
	}
	if req.From != "" {
		from, err := timeutil.ParseDate(req.From)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid from date")
		}
		params.From = &from
	}
	if req.To != "" {
		to, err := timeutil.ParseDate(req.To)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid to date")
		}
		params.To = &to
	}
	return params, nil
}

// Create handles creating a reservation
func (h *ReservationHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.ReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Reservation created successfully", service.NewReservationForm(reservation))
}

// Get returns the reservation grouped for the edit form
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "reservation")
	if !ok {
		return
	}
	form, err := h.reservationService.GetReservationForm(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reservation retrieved successfully", form)
}

// Update handles updating a reservation
func (h *ReservationHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "reservation")
	if !ok {
		return
	}
	var req request.ReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	reservation, err := h.reservationService.UpdateReservation(c.Request.Context(), id, req.ToInput(userID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reservation updated successfully", service.NewReservationForm(reservation))
}

// UpdateStatus handles check-in, check-out and other status moves
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "reservation")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseReservationStatus(req.Status)
	if err != nil {
		response.Error(c, apperror.NewFieldError("status", "Invalid reservation status"))
		return
	}
	reservation, err := h.reservationService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reservation status updated successfully", reservation)
}

// Cancel handles cancelling a reservation
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "reservation")
	if !ok {
		return
	}
	reservation, err := h.reservationService.CancelReservation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reservation cancelled successfully", reservation)
}

// Delete handles deleting a reservation
func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "reservation")
	if !ok {
		return
	}
	if err := h.reservationService.DeleteReservation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reservation deleted successfully", nil)
}

package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/internal/domain/enum"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/email"
	"github.com/sangkips/stayledger-api/pkg/metrics"
	"github.com/sangkips/stayledger-api/pkg/pagination"
	"github.com/sangkips/stayledger-api/pkg/pricing"
	"github.com/sangkips/stayledger-api/pkg/timeutil"
	"github.com/sangkips/stayledger-api/pkg/utils"
)

// Notifier delivers guest confirmations. *email.EmailService implements it.
type Notifier interface {
	Enabled() bool
	SendReservationConfirmation(c email.ReservationConfirmation) error
}

// ReservationService handles reservation-related operations
type ReservationService struct {
	reservationRepo repository.ReservationRepository
	propertyRepo    repository.PropertyRepository
	clientRepo      repository.ClientRepository
	notifier        Notifier
}

// NewReservationService creates a new reservation service. notifier may be nil.
func NewReservationService(
	reservationRepo repository.ReservationRepository,
	propertyRepo repository.PropertyRepository,
	clientRepo repository.ClientRepository,
	notifier Notifier,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		propertyRepo:    propertyRepo,
		clientRepo:      clientRepo,
		notifier:        notifier,
	}
}

// ReservationInput is used for both create and update
type ReservationInput struct {
	UserID          uuid.UUID
	ClientID        *uuid.UUID
	PropertyID      uuid.UUID
	RoomType        string
	GuestName       string
	GuestPhone      *string
	GuestEmail      *string
	GuestCount      int
	Stay            pricing.StayInterval
	Company         pricing.Ledger
	Host            pricing.Ledger
	MealPlan        *string
	ServiceAddons   []entity.ServiceAddon
	SpecialRequests *string
	Note            *string
}

// AvailabilityResult is the reply of an availability check. Blocked is set
// when any requested room type has a conflict.
type AvailabilityResult struct {
	Success      bool                       `json:"success"`
	Blocked      bool                       `json:"blocked"`
	Availability []pricing.RoomAvailability `json:"availability"`
}

// ReservationForm is a reservation split into the groups an edit form binds to.
type ReservationForm struct {
	ID            uuid.UUID              `json:"id"`
	ReservationNo string                 `json:"reservation_no"`
	Status        enum.ReservationStatus `json:"status"`
	Guest         GuestInfo              `json:"guest"`
	Apartment     ApartmentInfo          `json:"apartment"`
	Services      ServicesInfo           `json:"services"`
	Dates         DatesInfo              `json:"dates"`
}

// GuestInfo carries the guest, the billed client and the company ledger.
type GuestInfo struct {
	ClientID   *uuid.UUID     `json:"client_id"`
	ClientName string         `json:"client_name"`
	GuestName  string         `json:"guest_name"`
	GuestPhone string         `json:"guest_phone"`
	GuestEmail string         `json:"guest_email"`
	GuestCount int            `json:"guest_count"`
	Company    pricing.Ledger `json:"company"`
}

// ApartmentInfo carries the property, room, host and host ledger.
type ApartmentInfo struct {
	PropertyID   uuid.UUID      `json:"property_id"`
	PropertyName string         `json:"property_name"`
	PropertyCode string         `json:"property_code"`
	RoomType     string         `json:"room_type"`
	RoomTypes    []string       `json:"room_types"`
	HostID       uuid.UUID      `json:"host_id"`
	HostName     string         `json:"host_name"`
	HostPhone    string         `json:"host_phone"`
	Host         pricing.Ledger `json:"host"`
}

// ServicesInfo carries the meal plan and add-ons.
type ServicesInfo struct {
	MealPlan        string                `json:"meal_plan"`
	ServiceAddons   []entity.ServiceAddon `json:"service_addons"`
	SpecialRequests string                `json:"special_requests"`
	Note            string                `json:"note"`
}

// DatesInfo is the stay shared by both ledgers.
type DatesInfo struct {
	Stay           pricing.StayInterval `json:"stay"`
	ChargeableDays int                  `json:"chargeable_days"`
}

// Quote recomputes a form without persisting it.
func (s *ReservationService) Quote(ctx context.Context, quote pricing.StayQuote) (*pricing.StayQuote, error) {
	errs := append(quote.Company.Validate("company"), quote.Host.Validate("host")...)
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	quote.Recompute()
	return &quote, nil
}

// CheckAvailability evaluates the requested room types against existing
// reservations of the property.
func (s *ReservationService) CheckAvailability(ctx context.Context, query pricing.AvailabilityQuery) (*AvailabilityResult, error) {
	resolved, err := query.Resolve()
	if err != nil {
		return nil, err
	}
	property, err := s.propertyRepo.GetByID(ctx, resolved.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperror.NewNotFoundError("Property")
	}
	return s.evaluate(ctx, resolved, nil)
}

// numberAttempts bounds retries when a concurrent insert takes the same number.
const numberAttempts = 3

func overlapQuery(q *pricing.ResolvedQuery, exclude *uuid.UUID) repository.OverlapQuery {
	return repository.OverlapQuery{
		PropertyID: q.PropertyID,
		RoomTypes:  q.RoomTypes,
		Start:      q.Window.Start,
		End:        q.Window.End,
		ExcludeID:  exclude,
	}
}

func (s *ReservationService) evaluate(ctx context.Context, q *pricing.ResolvedQuery, exclude *uuid.UUID) (*AvailabilityResult, error) {
	existing, err := s.reservationRepo.FindOverlapping(ctx, overlapQuery(q, exclude))
	if err != nil {
		return nil, err
	}
	result := availabilityOf(existing, q)

	outcome := "available"
	if result.Blocked {
		outcome = "conflict"
	}
	metrics.AvailabilityChecks.WithLabelValues(outcome).Inc()
	return result, nil
}

func availabilityOf(existing []entity.Reservation, q *pricing.ResolvedQuery) *AvailabilityResult {
	summaries := make([]pricing.ReservationSummary, 0, len(existing))
	for i := range existing {
		summaries = append(summaries, existing[i].Summary())
	}
	availability := pricing.EvaluateAvailability(summaries, q.Window, q.RoomTypes)
	return &AvailabilityResult{Success: true, Blocked: pricing.AnyConflict(availability), Availability: availability}
}

func conflictError(result *AvailabilityResult, q *pricing.ResolvedQuery) error {
	return apperror.NewConflictWithDetails("Room type "+strings.Join(q.RoomTypes, ", ")+" is not available for the selected dates", result)
}

func (in *ReservationInput) validate() error {
	var errs []apperror.FieldError
	if in.PropertyID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "property_id", Message: "Please select a property"})
	}
	if strings.TrimSpace(in.RoomType) == "" {
		errs = append(errs, apperror.FieldError{Field: "room_type", Message: "Please select a room type"})
	}
	if strings.TrimSpace(in.GuestName) == "" {
		errs = append(errs, apperror.FieldError{Field: "guest_name", Message: "Guest name is required"})
	}
	if in.GuestCount < 0 {
		errs = append(errs, apperror.FieldError{Field: "guest_count", Message: "Guest count cannot be negative"})
	}
	if _, ok := in.Stay.ChargeableDays(); !ok {
		errs = append(errs, apperror.FieldError{Field: "check_out_date", Message: "Check-out date must be after check-in date"})
	}
	if in.Stay.CheckInTime != "" {
		if _, err := timeutil.ParseClock(in.Stay.CheckInTime); err != nil {
			errs = append(errs, apperror.FieldError{Field: "check_in_time", Message: "Check-in time must be HH:MM"})
		}
	}
	if in.Stay.CheckOutTime != "" {
		if _, err := timeutil.ParseClock(in.Stay.CheckOutTime); err != nil {
			errs = append(errs, apperror.FieldError{Field: "check_out_time", Message: "Check-out time must be HH:MM"})
		}
	}
	errs = append(errs, in.Company.Validate("company")...)
	errs = append(errs, in.Host.Validate("host")...)
	for _, addon := range in.ServiceAddons {
		if strings.TrimSpace(addon.Name) == "" {
			errs = append(errs, apperror.FieldError{Field: "service_addons", Message: "Add-on name is required"})
			break
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// prepare resolves references, derives the quote and checks availability.
// reservation carries the previous ledger values on update. The returned
// query is checked again when the reservation is written.
func (s *ReservationService) prepare(ctx context.Context, reservation *entity.Reservation, in *ReservationInput) (*pricing.ResolvedQuery, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperror.NewFieldError("property_id", "Property not found")
	}
	roomType := strings.TrimSpace(in.RoomType)
	if !property.HasRoomType(roomType) {
		return nil, apperror.NewFieldError("room_type", "Property does not offer room type "+roomType)
	}

	if in.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, *in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, apperror.NewFieldError("client_id", "Client not found")
		}
	}

	stay := in.Stay
	if strings.TrimSpace(stay.CheckInTime) == "" {
		stay.CheckInTime = property.DefaultCheckIn
	}
	if strings.TrimSpace(stay.CheckOutTime) == "" {
		stay.CheckOutTime = property.DefaultCheckOut
	}
	window, err := stay.Dates()
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	// Start from stored values so the guard keeps them when a rate is cleared.
	quote := reservation.Quote()
	quote.Stay = stay
	quote.Company.BaseRate, quote.Company.TaxPercent = in.Company.BaseRate, in.Company.TaxPercent
	quote.Host.BaseRate, quote.Host.TaxPercent = in.Host.BaseRate, in.Host.TaxPercent
	quote.Recompute()

	var exclude *uuid.UUID
	if reservation.ID != uuid.Nil {
		exclude = &reservation.ID
	}
	resolved := &pricing.ResolvedQuery{
		PropertyID: property.ID,
		Window:     window,
		RoomTypes:  []string{roomType},
	}
	result, err := s.evaluate(ctx, resolved, exclude)
	if err != nil {
		return nil, err
	}
	if result.Blocked {
		return nil, conflictError(result, resolved)
	}

	reservation.ClientID = in.ClientID
	reservation.PropertyID = property.ID
	reservation.HostID = property.HostID
	reservation.RoomType = roomType
	reservation.GuestName = strings.TrimSpace(in.GuestName)
	reservation.GuestPhone = optional(in.GuestPhone)
	reservation.GuestEmail = optional(in.GuestEmail)
	reservation.GuestCount = in.GuestCount
	if reservation.GuestCount == 0 {
		reservation.GuestCount = 1
	}
	reservation.CheckInDate = window.Start
	reservation.CheckInTime = stay.CheckInTime
	reservation.CheckOutDate = window.End
	reservation.CheckOutTime = stay.CheckOutTime
	reservation.ApplyQuote(quote)
	reservation.MealPlan = optional(in.MealPlan)
	reservation.SetAddons(in.ServiceAddons)
	reservation.SpecialRequests = optional(in.SpecialRequests)
	reservation.Note = optional(in.Note)
	return resolved, nil
}

// CreateReservation creates a new reservation
func (s *ReservationService) CreateReservation(ctx context.Context, input *ReservationInput) (*entity.Reservation, error) {
	reservation := &entity.Reservation{
		CreatedBy: input.UserID,
		Status:    enum.ReservationStatusConfirmed,
	}
	resolved, err := s.prepare(ctx, reservation, input)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		next, err := s.reservationRepo.GetNextReservationNumber(ctx)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to generate reservation number")
		}
		reservation.ReservationNo = utils.GenerateReferenceNo("RES", next)

		conflicts, err := s.reservationRepo.CreateChecked(ctx, reservation, overlapQuery(resolved, nil))
		if errors.Is(err, repository.ErrDuplicateNumber) && attempt < numberAttempts {
			continue
		}
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to create reservation")
		}
		if len(conflicts) > 0 {
			return nil, conflictError(availabilityOf(conflicts, resolved), resolved)
		}
		break
	}
	log.Printf("Reservation %s created for property %s (%d days)", reservation.ReservationNo, reservation.PropertyID, reservation.ChargeableDays)

	created, err := s.reservationRepo.GetByID(ctx, reservation.ID)
	if err != nil {
		return nil, err
	}
	if created != nil {
		s.notifyGuest(created)
	}
	return created, nil
}

// notifyGuest mails the confirmation in the background; a failure is only logged.
func (s *ReservationService) notifyGuest(r *entity.Reservation) {
	if s.notifier == nil || !s.notifier.Enabled() || r.GuestEmail == nil || strings.TrimSpace(*r.GuestEmail) == "" {
		return
	}
	msg := email.ReservationConfirmation{
		To:             strings.TrimSpace(*r.GuestEmail),
		GuestName:      r.GuestName,
		ReservationNo:  r.ReservationNo,
		RoomType:       r.RoomType,
		CheckIn:        strings.TrimSpace(timeutil.FormatDate(r.CheckInDate) + " " + r.CheckInTime),
		CheckOut:       strings.TrimSpace(timeutil.FormatDate(r.CheckOutDate) + " " + r.CheckOutTime),
		ChargeableDays: r.ChargeableDays,
		GuestCount:     r.GuestCount,
	}
	if r.Property != nil {
		msg.PropertyName = r.Property.Name
		msg.PropertyAddr = deref(r.Property.Address)
	}
	go func() {
		if err := s.notifier.SendReservationConfirmation(msg); err != nil {
			log.Printf("Warning: Failed to send confirmation for %s: %v", msg.ReservationNo, err)
		}
	}()
}

// GetReservation retrieves a reservation by ID
func (s *ReservationService) GetReservation(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, apperror.NewNotFoundError("Reservation")
	}
	return reservation, nil
}

// GetReservationForm returns the reservation grouped for an edit form
func (s *ReservationService) GetReservationForm(ctx context.Context, id uuid.UUID) (*ReservationForm, error) {
	reservation, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewReservationForm(reservation), nil
}

// NewReservationForm flattens a reservation and its relations into form groups.
func NewReservationForm(r *entity.Reservation) *ReservationForm {
	quote := r.Quote()
	form := &ReservationForm{
		ID:            r.ID,
		ReservationNo: r.ReservationNo,
		Status:        r.Status,
		Guest: GuestInfo{
			ClientID:   r.ClientID,
			GuestName:  r.GuestName,
			GuestPhone: deref(r.GuestPhone),
			GuestEmail: deref(r.GuestEmail),
			GuestCount: r.GuestCount,
			Company:    quote.Company,
		},
		Apartment: ApartmentInfo{
			PropertyID: r.PropertyID,
			RoomType:   r.RoomType,
			RoomTypes:  []string{},
			HostID:     r.HostID,
			Host:       quote.Host,
		},
		Services: ServicesInfo{
			MealPlan:        deref(r.MealPlan),
			ServiceAddons:   r.Addons(),
			SpecialRequests: deref(r.SpecialRequests),
			Note:            deref(r.Note),
		},
		Dates: DatesInfo{
			Stay:           quote.Stay,
			ChargeableDays: r.ChargeableDays,
		},
	}
	if r.Client != nil {
		form.Guest.ClientName = r.Client.Name
	}
	if r.Property != nil {
		form.Apartment.PropertyName = r.Property.Name
		form.Apartment.PropertyCode = r.Property.Code
		form.Apartment.RoomTypes = r.Property.RoomTypeList()
	}
	if r.Host != nil {
		form.Apartment.HostName = r.Host.Name
		form.Apartment.HostPhone = deref(r.Host.Phone)
	}
	return form
}

// ListReservations lists reservations with filters
func (s *ReservationService) ListReservations(ctx context.Context, params *repository.ReservationFilterParams) (*pagination.Result[entity.Reservation], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.Params{}
	}
	params.Pagination.Validate()
	reservations, total, err := s.reservationRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(reservations, *params.Pagination, total), nil
}

// UpdateReservation updates a reservation
func (s *ReservationService) UpdateReservation(ctx context.Context, id uuid.UUID, input *ReservationInput) (*entity.Reservation, error) {
	reservation, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == enum.ReservationStatusCancelled {
		return nil, apperror.NewBadRequestError("Cancelled reservations cannot be edited")
	}
	resolved, err := s.prepare(ctx, reservation, input)
	if err != nil {
		return nil, err
	}
	reservation.Client, reservation.Property, reservation.Host = nil, nil, nil
	conflicts, err := s.reservationRepo.UpdateChecked(ctx, reservation, overlapQuery(resolved, &reservation.ID))
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, conflictError(availabilityOf(conflicts, resolved), resolved)
	}
	return s.reservationRepo.GetByID(ctx, reservation.ID)
}

// UpdateStatus moves a reservation to a new status
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ReservationStatus) (*entity.Reservation, error) {
	if !status.Valid() {
		return nil, apperror.NewFieldError("status", "Invalid reservation status")
	}
	reservation, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == status {
		return reservation, nil
	}
	if reservation.Status == enum.ReservationStatusCancelled {
		return nil, apperror.NewBadRequestError("Cancelled reservations cannot change status")
	}
	if status == enum.ReservationStatusCancelled && reservation.Status == enum.ReservationStatusCheckedOut {
		return nil, apperror.NewBadRequestError("Checked-out reservations cannot be cancelled")
	}
	if err := s.reservationRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	reservation.Status = status
	return reservation, nil
}

// CancelReservation cancels a reservation, freeing its room for the dates
func (s *ReservationService) CancelReservation(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return s.UpdateStatus(ctx, id, enum.ReservationStatusCancelled)
}

// DeleteReservation deletes a reservation
func (s *ReservationService) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetReservation(ctx, id); err != nil {
		return err
	}
	return s.reservationRepo.Delete(ctx, id)
}

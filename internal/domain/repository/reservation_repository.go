package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/internal/domain/enum"
	"github.com/sangkips/stayledger-api/pkg/pagination"
)

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	// CreateChecked inserts the reservation unless q still finds overlapping
	// reservations. The check and the write hold a lock on the property row,
	// so concurrent bookings of one property are serialized. When conflicts
	// are returned nothing was written.
	CreateChecked(ctx context.Context, reservation *entity.Reservation, q OverlapQuery) ([]entity.Reservation, error)
	// UpdateChecked is CreateChecked for an existing reservation.
	UpdateChecked(ctx context.Context, reservation *entity.Reservation, q OverlapQuery) ([]entity.Reservation, error)
	// GetByID loads the reservation with client, property and host
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ReservationFilterParams) ([]entity.Reservation, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ReservationStatus) error
	GetNextReservationNumber(ctx context.Context) (int64, error)
	// FindOverlapping returns non-cancelled reservations of the property whose
	// dates intersect [Start, End) for any of the room types.
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]entity.Reservation, error)
}

// OverlapQuery selects reservations that may conflict with a proposed stay.
type OverlapQuery struct {
	PropertyID uuid.UUID
	RoomTypes  []string
	Start      time.Time
	End        time.Time
	ExcludeID  *uuid.UUID
}

// ReservationFilterParams contains filtering parameters for reservation queries
type ReservationFilterParams struct {
	Pagination *pagination.Params
	Search     string
	Status     *enum.ReservationStatus
	PropertyID *uuid.UUID
	ClientID   *uuid.UUID
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortOrder  string
}

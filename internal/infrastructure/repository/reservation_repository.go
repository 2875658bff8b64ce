package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	"github.com/sangkips/stayledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/pkg/timeutil"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) domainRepo.ReservationRepository {
	return &reservationRepository{db: db}
}

var reservationSortColumns = map[string]string{
	"created_at":     "created_at",
	"check_in_date":  "check_in_date",
	"check_out_date": "check_out_date",
	"reservation_no": "reservation_no",
	"guest_name":     "guest_name",
}

func (r *reservationRepository) CreateChecked(ctx context.Context, reservation *entity.Reservation, q domainRepo.OverlapQuery) ([]entity.Reservation, error) {
	return r.checked(ctx, q, func(tx *gorm.DB) error {
		return tx.Omit("Client", "Property", "Host").Create(reservation).Error
	})
}

func (r *reservationRepository) UpdateChecked(ctx context.Context, reservation *entity.Reservation, q domainRepo.OverlapQuery) ([]entity.Reservation, error) {
	return r.checked(ctx, q, func(tx *gorm.DB) error {
		return tx.Omit("Client", "Property", "Host").Save(reservation).Error
	})
}

// checked locks the property row, repeats the overlap query and only then
// runs write, all in one transaction.
func (r *reservationRepository) checked(ctx context.Context, q domainRepo.OverlapQuery, write func(tx *gorm.DB) error) ([]entity.Reservation, error) {
	var conflicts []entity.Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property entity.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&property, "id = ?", q.PropertyID).Error; err != nil {
			return err
		}

		found, err := overlapping(tx, q)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			conflicts = found
			return nil
		}
		return write(tx)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, domainRepo.ErrDuplicateNumber
	}
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Property").
		Preload("Host").
		First(&reservation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reservation, err
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Reservation{}, "id = ?", id).Error
}

func (r *reservationRepository) List(ctx context.Context, params *domainRepo.ReservationFilterParams) ([]entity.Reservation, int64, error) {
	var reservations []entity.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Reservation{}).
		Scopes(ContainsAny(params.Search, "reservation_no", "guest_name", "room_type"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.PropertyID != nil {
		query = query.Where("property_id = ?", *params.PropertyID)
	}
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}
	if params.From != nil {
		query = query.Where("check_out_date > ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("check_in_date < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if col, ok := reservationSortColumns[params.SortBy]; ok {
		sortBy = col
	}
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Client").
		Preload("Property").
		Order(sortBy + " " + sortOrder).
		Find(&reservations).Error

	return reservations, total, err
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ReservationStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Reservation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// GetNextReservationNumber counts soft-deleted rows too so numbers are never reused.
func (r *reservationRepository) GetNextReservationNumber(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&entity.Reservation{}).Count(&count).Error
	return count + 1, err
}

func (r *reservationRepository) FindOverlapping(ctx context.Context, q domainRepo.OverlapQuery) ([]entity.Reservation, error) {
	return overlapping(r.db.WithContext(ctx), q)
}

func overlapping(db *gorm.DB, q domainRepo.OverlapQuery) ([]entity.Reservation, error) {
	var reservations []entity.Reservation
	if len(q.RoomTypes) == 0 {
		return reservations, nil
	}

	lowered := make([]string, len(q.RoomTypes))
	for i, rt := range q.RoomTypes {
		lowered[i] = strings.ToLower(strings.TrimSpace(rt))
	}

	query := db.
		Where("property_id = ? AND status <> ? AND check_in_date < ? AND check_out_date > ?",
			q.PropertyID, enum.ReservationStatusCancelled, timeutil.FormatDate(q.End), timeutil.FormatDate(q.Start)).
		Where("LOWER(TRIM(room_type)) IN ?", lowered)

	if q.ExcludeID != nil {
		query = query.Where("id <> ?", *q.ExcludeID)
	}

	err := query.Order("check_in_date ASC").Find(&reservations).Error
	return reservations, err
}

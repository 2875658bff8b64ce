package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stayledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) domainRepo.PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	var property entity.Property
	err := r.db.WithContext(ctx).
		Preload("Host").
		First(&property, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &property, err
}

func (r *propertyRepository) GetByCode(ctx context.Context, code string) (*entity.Property, error) {
	var property entity.Property
	err := r.db.WithContext(ctx).First(&property, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &property, err
}

func (r *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	return r.db.WithContext(ctx).Omit("Host").Save(property).Error
}

func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Property{}, "id = ?", id).Error
}

func (r *propertyRepository) List(ctx context.Context, params *domainRepo.PropertyFilterParams) ([]entity.Property, int64, error) {
	var properties []entity.Property
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Property{}).
		Scopes(ContainsAny(params.Pagination.Search, "name", "code", "city"))

	if params.HostID != nil {
		query = query.Where("host_id = ?", *params.HostID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Host").
		Order("name ASC").
		Find(&properties).Error
	return properties, total, err
}

func (r *propertyRepository) Search(ctx context.Context, q string, limit int) ([]entity.Property, error) {
	var properties []entity.Property
	err := r.db.WithContext(ctx).
		Scopes(ContainsAny(q, "name", "code", "city")).
		Order("name ASC").
		Limit(searchLimit(limit)).
		Find(&properties).Error
	return properties, err
}

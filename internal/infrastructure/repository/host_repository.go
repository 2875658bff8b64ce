package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/pkg/pagination"
	"gorm.io/gorm"
)

type hostRepository struct {
	db *gorm.DB
}

// NewHostRepository creates a new host repository
func NewHostRepository(db *gorm.DB) domainRepo.HostRepository {
	return &hostRepository{db: db}
}

func (r *hostRepository) Create(ctx context.Context, host *entity.Host) error {
	return r.db.WithContext(ctx).Create(host).Error
}

func (r *hostRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Host, error) {
	var host entity.Host
	err := r.db.WithContext(ctx).First(&host, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &host, err
}

func (r *hostRepository) Update(ctx context.Context, host *entity.Host) error {
	return r.db.WithContext(ctx).Save(host).Error
}

func (r *hostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Host{}, "id = ?", id).Error
}

func (r *hostRepository) List(ctx context.Context, params *pagination.Params) ([]entity.Host, int64, error) {
	var hosts []entity.Host
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Host{}).
		Scopes(ContainsAny(params.Search, "name", "phone", "email"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("name ASC").Find(&hosts).Error
	return hosts, total, err
}

func (r *hostRepository) Search(ctx context.Context, q string, limit int) ([]entity.Host, error) {
	var hosts []entity.Host
	err := r.db.WithContext(ctx).
		Scopes(ContainsAny(q, "name", "phone", "email")).
		Order("name ASC").
		Limit(searchLimit(limit)).
		Find(&hosts).Error
	return hosts, err
}

func (r *hostRepository) CountProperties(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Property{}).Where("host_id = ?", id).Count(&count).Error
	return count, err
}

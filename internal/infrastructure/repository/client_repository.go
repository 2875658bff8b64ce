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

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Client{}, "id = ?", id).Error
}

func (r *clientRepository) List(ctx context.Context, params *pagination.Params) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{}).
		Scopes(ContainsAny(params.Search, "name", "gstin", "contact_name", "email"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("name ASC").Find(&clients).Error
	return clients, total, err
}

func (r *clientRepository) Search(ctx context.Context, q string, limit int) ([]entity.Client, error) {
	var clients []entity.Client
	err := r.db.WithContext(ctx).
		Scopes(ContainsAny(q, "name", "gstin", "contact_name")).
		Order("name ASC").
		Limit(searchLimit(limit)).
		Find(&clients).Error
	return clients, err
}

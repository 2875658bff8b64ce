package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/sangkips/stayledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stayledger-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pincodeRepository struct {
	db *gorm.DB
}

// NewPincodeRepository creates a new pincode repository
func NewPincodeRepository(db *gorm.DB) domainRepo.PincodeRepository {
	return &pincodeRepository{db: db}
}

func (r *pincodeRepository) GetByCode(ctx context.Context, code string) (*entity.Pincode, error) {
	var pincode entity.Pincode
	err := r.db.WithContext(ctx).First(&pincode, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pincode, err
}

func (r *pincodeRepository) Search(ctx context.Context, q string, limit int) ([]entity.Pincode, error) {
	var pincodes []entity.Pincode
	prefix := escapeLike(strings.TrimSpace(q)) + "%"
	err := r.db.WithContext(ctx).
		Where("code LIKE ? OR city ILIKE ?", prefix, prefix).
		Order("code ASC").
		Limit(searchLimit(limit)).
		Find(&pincodes).Error
	return pincodes, err
}

func (r *pincodeRepository) Upsert(ctx context.Context, pincodes []entity.Pincode) error {
	if len(pincodes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&pincodes).Error
}

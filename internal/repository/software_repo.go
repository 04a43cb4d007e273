package repository

import (
	"context"

	"accesshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SoftwareRepository defines data access for catalog entries
type SoftwareRepository interface {
	Create(ctx context.Context, software *model.Software) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Software, error)
	List(ctx context.Context, page, limit int) ([]model.Software, int64, error)
}

type softwareRepository struct {
	db *gorm.DB
}

func NewSoftwareRepository(db *gorm.DB) SoftwareRepository {
	return &softwareRepository{db: db}
}

func (r *softwareRepository) Create(ctx context.Context, software *model.Software) error {
	return GetDB(ctx, r.db).Create(software).Error
}

func (r *softwareRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Software, error) {
	var software model.Software
	if err := GetDB(ctx, r.db).First(&software, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &software, nil
}

// List returns catalog entries in creation order, which is stable across
// calls for deterministic pagination.
func (r *softwareRepository) List(ctx context.Context, page, limit int) ([]model.Software, int64, error) {
	var entries []model.Software
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Software{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at ASC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

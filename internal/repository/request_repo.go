package repository

import (
	"context"

	"accesshub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestRepository defines data access for access requests
type RequestRepository interface {
	Create(ctx context.Context, request *model.AccessRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AccessRequest, error)
	GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.AccessRequest, error)
	ListByStatus(ctx context.Context, status model.RequestStatus, page, limit int) ([]model.AccessRequest, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.AccessRequest, int64, error)
	DecideIfPending(ctx context.Context, id uuid.UUID, decision model.RequestStatus) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *model.AccessRequest) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AccessRequest, error) {
	var request model.AccessRequest
	if err := GetDB(ctx, r.db).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.AccessRequest, error) {
	var request model.AccessRequest
	if err := GetDB(ctx, r.db).Preload("User").Preload("Software").First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListByStatus(ctx context.Context, status model.RequestStatus, page, limit int) ([]model.AccessRequest, int64, error) {
	var requests []model.AccessRequest
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AccessRequest{}).Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("User").Preload("Software").
		Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.AccessRequest, int64, error) {
	var requests []model.AccessRequest
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AccessRequest{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Software").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// DecideIfPending applies a terminal decision as a conditional update keyed on
// the current status. Returns the affected-row count: zero means the request
// is missing or already decided, and the caller distinguishes the two. This
// compare-and-set makes concurrent decisions race-free — exactly one wins.
func (r *requestRepository) DecideIfPending(ctx context.Context, id uuid.UUID, decision model.RequestStatus) (int64, error) {
	result := GetDB(ctx, r.db).Model(&model.AccessRequest{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Update("status", decision)
	return result.RowsAffected, result.Error
}

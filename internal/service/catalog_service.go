package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"accesshub/internal/model"
	"accesshub/internal/repository"
	"accesshub/pkg/apperror"

	"github.com/google/uuid"
)

// DTOs

type RegisterSoftwareRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	AccessLevels []string `json:"accessLevels" binding:"required"`
}

type SoftwareResponse struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	AccessLevels model.AccessLevelList `json:"accessLevels"`
	CreatedAt    string                `json:"created_at"`
}

// CatalogService manages the registered software catalog. Entries are
// created by admins and are never mutated or deleted.
type CatalogService interface {
	RegisterSoftware(ctx context.Context, principal model.Principal, req RegisterSoftwareRequest) (*SoftwareResponse, error)
	ListSoftware(ctx context.Context, principal model.Principal, page, limit int) ([]SoftwareResponse, int64, error)
}

type catalogService struct {
	repo repository.SoftwareRepository
}

// NewCatalogService returns a new instance of CatalogService
func NewCatalogService(repo repository.SoftwareRepository) CatalogService {
	return &catalogService{repo: repo}
}

func toSoftwareResponse(s *model.Software) *SoftwareResponse {
	return &SoftwareResponse{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		AccessLevels: s.AccessLevels,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}

// normalizeAccessLevels parses the raw level names into the closed set,
// collapsing duplicates while keeping first-seen order.
func normalizeAccessLevels(raw []string) (model.AccessLevelList, error) {
	levels := make(model.AccessLevelList, 0, len(raw))
	for _, v := range raw {
		level, ok := model.ParseAccessLevel(v)
		if !ok {
			return nil, fmt.Errorf("%w: invalid access level %q", apperror.ErrInvalidArgument, v)
		}
		if !levels.Contains(level) {
			levels = append(levels, level)
		}
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: at least one access level is required", apperror.ErrInvalidArgument)
	}
	return levels, nil
}

func (s *catalogService) RegisterSoftware(ctx context.Context, principal model.Principal, req RegisterSoftwareRequest) (*SoftwareResponse, error) {
	if !principal.Role.Can(model.CapRegisterSoftware) {
		return nil, fmt.Errorf("%w: only admins can register software", apperror.ErrForbidden)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperror.ErrInvalidArgument)
	}

	levels, err := normalizeAccessLevels(req.AccessLevels)
	if err != nil {
		return nil, err
	}

	software := &model.Software{
		Name:         name,
		Description:  req.Description,
		AccessLevels: levels,
	}
	if err := s.repo.Create(ctx, software); err != nil {
		return nil, fmt.Errorf("failed to create software: %w", err)
	}

	return toSoftwareResponse(software), nil
}

func (s *catalogService) ListSoftware(ctx context.Context, principal model.Principal, page, limit int) ([]SoftwareResponse, int64, error) {
	if !principal.Role.Can(model.CapListSoftware) {
		return nil, 0, fmt.Errorf("%w: cannot list software", apperror.ErrForbidden)
	}

	entries, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list software: %w", err)
	}

	responses := make([]SoftwareResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *toSoftwareResponse(&entries[i]))
	}
	return responses, total, nil
}

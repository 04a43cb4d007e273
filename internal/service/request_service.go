package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accesshub/internal/model"
	"accesshub/internal/repository"
	"accesshub/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs

type CreateRequestDTO struct {
	SoftwareID string `json:"softwareId" binding:"required"`
	AccessType string `json:"accessType" binding:"required"`
	Reason     string `json:"reason"`
}

type DecideRequestDTO struct {
	Status string `json:"status" binding:"required"`
}

// RequesterInfo is the denormalized requester view on pending listings
type RequesterInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// SoftwareInfo is the denormalized software view on request listings
type SoftwareInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type RequestResponse struct {
	ID         uuid.UUID           `json:"id"`
	User       *RequesterInfo      `json:"user,omitempty"`
	Software   SoftwareInfo        `json:"software"`
	AccessType model.AccessLevel   `json:"accessType"`
	Reason     string              `json:"reason"`
	Status     model.RequestStatus `json:"status"`
	CreatedAt  string              `json:"created_at"`
	UpdatedAt  string              `json:"updated_at"`
}

// RequestService is the request lifecycle engine: Pending at creation,
// one transition to Approved or Rejected, nothing after that.
type RequestService interface {
	CreateRequest(ctx context.Context, principal model.Principal, req CreateRequestDTO) (*RequestResponse, error)
	ListPendingRequests(ctx context.Context, principal model.Principal, page, limit int) ([]RequestResponse, int64, error)
	ListOwnRequests(ctx context.Context, principal model.Principal, page, limit int) ([]RequestResponse, int64, error)
	DecideRequest(ctx context.Context, principal model.Principal, id string, req DecideRequestDTO) (*RequestResponse, error)
}

type requestService struct {
	requests repository.RequestRepository
	software repository.SoftwareRepository
}

// NewRequestService returns a new instance of RequestService
func NewRequestService(requests repository.RequestRepository, software repository.SoftwareRepository) RequestService {
	return &requestService{requests: requests, software: software}
}

// toRequestResponse composes the read model from the stored request and its
// preloaded relations. Requester/software fields are looked up per read, not
// duplicated onto the request record, so renames never go stale.
func toRequestResponse(r *model.AccessRequest, includeUser bool) *RequestResponse {
	resp := &RequestResponse{
		ID:         r.ID,
		Software:   SoftwareInfo{ID: r.SoftwareID, Name: r.Software.Name},
		AccessType: r.AccessType,
		Reason:     r.Reason,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
	if includeUser {
		resp.User = &RequesterInfo{
			ID:       r.UserID,
			Username: r.User.Username,
			Email:    r.User.Email,
		}
	}
	return resp
}

func (s *requestService) CreateRequest(ctx context.Context, principal model.Principal, req CreateRequestDTO) (*RequestResponse, error) {
	if !principal.Role.Can(model.CapCreateRequest) {
		return nil, fmt.Errorf("%w: only employees can request access", apperror.ErrForbidden)
	}

	softwareID, err := uuid.Parse(req.SoftwareID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid software id", apperror.ErrInvalidArgument)
	}

	software, err := s.software.GetByID(ctx, softwareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: software not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load software: %w", err)
	}

	accessType, ok := model.ParseAccessLevel(req.AccessType)
	if !ok || !software.AccessLevels.Contains(accessType) {
		return nil, fmt.Errorf("%w: access type %q is not offered by %s", apperror.ErrInvalidArgument, req.AccessType, software.Name)
	}

	request := &model.AccessRequest{
		UserID:     principal.ID,
		SoftwareID: software.ID,
		AccessType: accessType,
		Reason:     req.Reason,
		Status:     model.StatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Software = *software
	return toRequestResponse(request, false), nil
}

func (s *requestService) ListPendingRequests(ctx context.Context, principal model.Principal, page, limit int) ([]RequestResponse, int64, error) {
	if !principal.Role.Can(model.CapListPendingRequests) {
		return nil, 0, fmt.Errorf("%w: only managers and admins can view pending requests", apperror.ErrForbidden)
	}

	requests, total, err := s.requests.ListByStatus(ctx, model.StatusPending, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending requests: %w", err)
	}

	responses := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *toRequestResponse(&requests[i], true))
	}
	return responses, total, nil
}

func (s *requestService) ListOwnRequests(ctx context.Context, principal model.Principal, page, limit int) ([]RequestResponse, int64, error) {
	if !principal.Role.Can(model.CapListOwnRequests) {
		return nil, 0, fmt.Errorf("%w: cannot list requests", apperror.ErrForbidden)
	}

	requests, total, err := s.requests.ListByUser(ctx, principal.ID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list own requests: %w", err)
	}

	responses := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *toRequestResponse(&requests[i], false))
	}
	return responses, total, nil
}

// DecideRequest applies a terminal decision to a pending request. The update
// is conditional on the current status being Pending; a lost race or an
// already-decided request surfaces as Conflict, never as a silent overwrite.
func (s *requestService) DecideRequest(ctx context.Context, principal model.Principal, id string, req DecideRequestDTO) (*RequestResponse, error) {
	if !principal.Role.Can(model.CapDecideRequest) {
		return nil, fmt.Errorf("%w: only managers and admins can decide requests", apperror.ErrForbidden)
	}

	decision, ok := model.ParseDecision(req.Status)
	if !ok {
		return nil, fmt.Errorf("%w: status must be %s or %s", apperror.ErrInvalidArgument, model.StatusApproved, model.StatusRejected)
	}

	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: request not found", apperror.ErrNotFound)
	}

	affected, err := s.requests.DecideIfPending(ctx, requestID, decision)
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	if affected == 0 {
		current, getErr := s.requests.GetByID(ctx, requestID)
		if getErr != nil {
			return nil, fmt.Errorf("%w: request not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: request is already %s", apperror.ErrConflict, current.Status)
	}

	updated, err := s.requests.GetByIDWithRelations(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload request: %w", err)
	}
	return toRequestResponse(updated, true), nil
}

package service

import (
	"context"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/fieldserv/dms-api/pkg/pagination"
	"github.com/google/uuid"
)

// VisitService tracks booker calls: a visit is created on check-in and
// closed exactly once on check-out.
type VisitService struct {
	visitRepo    repository.VisitRepository
	customerRepo repository.CustomerRepository
}

// NewVisitService creates a new visit service
func NewVisitService(visitRepo repository.VisitRepository, customerRepo repository.CustomerRepository) *VisitService {
	return &VisitService{visitRepo: visitRepo, customerRepo: customerRepo}
}

// CheckInInput represents the check-in input
type CheckInInput struct {
	BookerID   uuid.UUID
	CustomerID uuid.UUID
	Latitude   float64
	Longitude  float64
}

// CheckIn opens a visit on a customer
func (s *VisitService) CheckIn(ctx context.Context, tc entity.TenantContext, input *CheckInInput) (*entity.Visit, error) {
	if tc.AllTenants || tc.IsEmpty() {
		return nil, apperror.NewBadRequestError("A concrete tenant is required")
	}

	customer, err := s.customerRepo.GetByID(ctx, tc, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	visit := &entity.Visit{
		TenantID:   tc.ID,
		BookerID:   input.BookerID,
		CustomerID: input.CustomerID,
		CheckInAt:  time.Now(),
		CheckInLat: input.Latitude,
		CheckInLng: input.Longitude,
	}
	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// CheckOutInput represents the check-out input
type CheckOutInput struct {
	Latitude  float64
	Longitude float64
	Notes     *string
}

// CheckOut closes a visit. A second check-out on the same visit is a
// conflict, the first close stands.
func (s *VisitService) CheckOut(ctx context.Context, tc entity.TenantContext, visitID uuid.UUID, input *CheckOutInput) (*entity.Visit, error) {
	visit, err := s.visitRepo.GetByID(ctx, tc, visitID)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, apperror.NewNotFoundError("Visit")
	}
	if visit.IsCheckedOut() {
		return nil, apperror.NewConflictError("Visit is already checked out")
	}

	now := time.Now()
	visit.CheckOutAt = &now
	visit.CheckOutLat = &input.Latitude
	visit.CheckOutLng = &input.Longitude
	visit.Notes = input.Notes

	if err := s.visitRepo.Update(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// ListVisits lists visits, optionally filtered to one booker
func (s *VisitService) ListVisits(ctx context.Context, tc entity.TenantContext, bookerID *uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Visit], error) {
	visits, total, err := s.visitRepo.List(ctx, tc, bookerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(visits, pag), nil
}

package service

import (
	"context"

	"github.com/unialloc/room-alloc-api/internal/models"
	appErrors "github.com/unialloc/room-alloc-api/pkg/errors"
)

type allocationLister interface {
	List(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, *models.Pagination, error)
}

type decisionLister interface {
	ListByRun(ctx context.Context, runID string, page, pageSize int) ([]models.AllocationDecision, *models.Pagination, error)
}

// ReportingService serves the engine's read-only boundary: committed
// allocations and the persisted decision log.
type ReportingService struct {
	allocations allocationLister
	decisions   decisionLister
}

// NewReportingService constructs the service.
func NewReportingService(allocations allocationLister, decisions decisionLister) *ReportingService {
	return &ReportingService{allocations: allocations, decisions: decisions}
}

// ListAllocations returns committed allocations for a semester.
func (s *ReportingService) ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, *models.Pagination, error) {
	if filter.SemesterID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	allocations, pagination, err := s.allocations.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list allocations")
	}
	return allocations, pagination, nil
}

// ListDecisions returns decision log entries for one run.
func (s *ReportingService) ListDecisions(ctx context.Context, runID string, page, pageSize int) ([]models.AllocationDecision, *models.Pagination, error) {
	if runID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "run id is required")
	}
	if s.decisions == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "decision log persistence is disabled")
	}
	decisions, pagination, err := s.decisions.ListByRun(ctx, runID, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list allocation decisions")
	}
	return decisions, pagination, nil
}

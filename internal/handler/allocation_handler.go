package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unialloc/room-alloc-api/internal/dto"
	"github.com/unialloc/room-alloc-api/internal/models"
	appErrors "github.com/unialloc/room-alloc-api/pkg/errors"
	"github.com/unialloc/room-alloc-api/pkg/response"
)

type allocationRunner interface {
	Enqueue(ctx context.Context, req dto.RunRequest) (*dto.RunEnqueuedResponse, error)
	GetRun(runID string) (*models.RunResult, error)
}

type allocationReporter interface {
	ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, *models.Pagination, error)
	ListDecisions(ctx context.Context, runID string, page, pageSize int) ([]models.AllocationDecision, *models.Pagination, error)
}

// AllocationHandler exposes the allocation engine's trigger and reporting
// endpoints.
type AllocationHandler struct {
	allocator allocationRunner
	reports   allocationReporter
}

// NewAllocationHandler constructs the handler.
func NewAllocationHandler(allocator allocationRunner, reports allocationReporter) *AllocationHandler {
	return &AllocationHandler{allocator: allocator, reports: reports}
}

// TriggerRun godoc
// @Summary Trigger an allocation run
// @Tags Allocations
// @Accept json
// @Produce json
// @Param payload body dto.RunRequest true "Run request"
// @Success 202 {object} response.Envelope
// @Router /allocations/runs [post]
func (h *AllocationHandler) TriggerRun(c *gin.Context) {
	var req dto.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run payload"))
		return
	}
	resp, err := h.allocator.Enqueue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, resp, nil)
}

// GetRun godoc
// @Summary Get allocation run status and result
// @Tags Allocations
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /allocations/runs/{id} [get]
func (h *AllocationHandler) GetRun(c *gin.Context) {
	result, err := h.allocator.GetRun(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List committed allocations
// @Tags Allocations
// @Produce json
// @Param semesterId query string true "Semester"
// @Param roomId query string false "Filter by room"
// @Param demandId query string false "Filter by demand"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /allocations [get]
func (h *AllocationHandler) List(c *gin.Context) {
	var filter models.AllocationFilter
	filter.SemesterID = c.Query("semesterId")
	filter.RoomID = c.Query("roomId")
	filter.DemandID = c.Query("demandId")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}

	allocations, pagination, err := h.reports.ListAllocations(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocations, pagination)
}

// ListDecisions godoc
// @Summary List decision log entries for a run
// @Tags Allocations
// @Produce json
// @Param id path string true "Run ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /allocations/runs/{id}/decisions [get]
func (h *AllocationHandler) ListDecisions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	decisions, pagination, err := h.reports.ListDecisions(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decisions, pagination)
}

// Register mounts the allocation routes on a router group.
func (h *AllocationHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/allocations/runs", h.TriggerRun)
	rg.GET("/allocations/runs/:id", h.GetRun)
	rg.GET("/allocations/runs/:id/decisions", h.ListDecisions)
	rg.GET("/allocations", h.List)
}

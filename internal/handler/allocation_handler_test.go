package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unialloc/room-alloc-api/internal/dto"
	"github.com/unialloc/room-alloc-api/internal/models"
	appErrors "github.com/unialloc/room-alloc-api/pkg/errors"
)

type allocationRunnerMock struct {
	enqueued *dto.RunRequest
	run      *models.RunResult
}

func (m *allocationRunnerMock) Enqueue(ctx context.Context, req dto.RunRequest) (*dto.RunEnqueuedResponse, error) {
	if req.SemesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	m.enqueued = &req
	return &dto.RunEnqueuedResponse{RunID: "run-1", SemesterID: req.SemesterID, Status: string(models.RunStatusPending)}, nil
}

func (m *allocationRunnerMock) GetRun(runID string) (*models.RunResult, error) {
	if m.run == nil || m.run.RunID != runID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found or expired")
	}
	return m.run, nil
}

type allocationReporterMock struct {
	allocations []models.Allocation
}

func (m *allocationReporterMock) ListAllocations(ctx context.Context, filter models.AllocationFilter) ([]models.Allocation, *models.Pagination, error) {
	if filter.SemesterID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.allocations)}
	return m.allocations, pagination, nil
}

func (m *allocationReporterMock) ListDecisions(ctx context.Context, runID string, page, pageSize int) ([]models.AllocationDecision, *models.Pagination, error) {
	return nil, nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "decision log persistence is disabled")
}

func newHandlerTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAllocationHandlerTriggerRunAccepted(t *testing.T) {
	runner := &allocationRunnerMock{}
	h := NewAllocationHandler(runner, &allocationReporterMock{})

	c, w := newHandlerTestContext(t, http.MethodPost, "/allocations/runs", `{"semesterId":"2026-1"}`)
	h.TriggerRun(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, runner.enqueued)
	assert.Equal(t, "2026-1", runner.enqueued.SemesterID)
	assert.Contains(t, w.Body.String(), "run-1")
}

func TestAllocationHandlerTriggerRunRejectsMissingSemester(t *testing.T) {
	h := NewAllocationHandler(&allocationRunnerMock{}, &allocationReporterMock{})

	c, w := newHandlerTestContext(t, http.MethodPost, "/allocations/runs", `{}`)
	h.TriggerRun(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocationHandlerTriggerRunRejectsMalformedBody(t *testing.T) {
	h := NewAllocationHandler(&allocationRunnerMock{}, &allocationReporterMock{})

	c, w := newHandlerTestContext(t, http.MethodPost, "/allocations/runs", `{not json`)
	h.TriggerRun(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocationHandlerGetRun(t *testing.T) {
	runner := &allocationRunnerMock{run: &models.RunResult{RunID: "run-1", Status: models.RunStatusCompleted}}
	h := NewAllocationHandler(runner, &allocationReporterMock{})

	c, w := newHandlerTestContext(t, http.MethodGet, "/allocations/runs/run-1", "")
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	h.GetRun(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "COMPLETED")
}

func TestAllocationHandlerGetRunNotFound(t *testing.T) {
	h := NewAllocationHandler(&allocationRunnerMock{}, &allocationReporterMock{})

	c, w := newHandlerTestContext(t, http.MethodGet, "/allocations/runs/missing", "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.GetRun(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAllocationHandlerListRequiresSemester(t *testing.T) {
	h := NewAllocationHandler(&allocationRunnerMock{}, &allocationReporterMock{})

	c, w := newHandlerTestContext(t, http.MethodGet, "/allocations", "")
	h.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocationHandlerList(t *testing.T) {
	reporter := &allocationReporterMock{
		allocations: []models.Allocation{{ID: "a1", SemesterID: "2026-1", DemandID: "d1", RoomID: "R1", DayCode: 2, BlockCode: "M1"}},
	}
	h := NewAllocationHandler(&allocationRunnerMock{}, reporter)

	c, w := newHandlerTestContext(t, http.MethodGet, "/allocations?semesterId=2026-1", "")
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"room_id":"R1"`)
	assert.Contains(t, w.Body.String(), "pagination")
}

func TestAllocationHandlerListDecisionsDisabled(t *testing.T) {
	h := NewAllocationHandler(&allocationRunnerMock{}, &allocationReporterMock{})

	c, w := newHandlerTestContext(t, http.MethodGet, "/allocations/runs/run-1/decisions", "")
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	h.ListDecisions(c)

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
}

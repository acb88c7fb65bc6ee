package service

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/unialloc/room-alloc-api/internal/dto"
	"github.com/unialloc/room-alloc-api/internal/models"
)

type decisionInserter interface {
	InsertBatch(ctx context.Context, decisions []models.AllocationDecision) error
}

// DecisionLog collects per-candidate decisions during a run and flushes them
// once the run finishes. A nil *DecisionLog is a no-op, so callers never
// guard their Record calls.
type DecisionLog struct {
	runID      string
	semesterID string
	repo       decisionInserter
	logger     *zap.Logger
	entries    []models.AllocationDecision
}

// NewDecisionLog builds a collector for one run. repo may be nil, in which
// case entries only surface through the logger at debug level.
func NewDecisionLog(runID, semesterID string, repo decisionInserter, logger *zap.Logger) *DecisionLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecisionLog{runID: runID, semesterID: semesterID, repo: repo, logger: logger}
}

// RecordCandidate logs one evaluated candidate with its scoring breakdown.
func (l *DecisionLog) RecordCandidate(demandID string, phase int, roomID string, breakdown dto.ScoreBreakdown, outcome models.DecisionOutcome, reason string) {
	if l == nil {
		return
	}
	score := breakdown.Total
	payload, _ := json.Marshal(breakdown)
	l.append(models.AllocationDecision{
		RunID:      l.runID,
		SemesterID: l.semesterID,
		DemandID:   demandID,
		Phase:      phase,
		RoomID:     &roomID,
		Score:      &score,
		Breakdown:  types.JSONText(payload),
		Outcome:    outcome,
		Reason:     reason,
	})
}

// RecordSkip logs a demand-level outcome with no specific room.
func (l *DecisionLog) RecordSkip(demandID string, phase int, reason string) {
	if l == nil {
		return
	}
	l.append(models.AllocationDecision{
		RunID:      l.runID,
		SemesterID: l.semesterID,
		DemandID:   demandID,
		Phase:      phase,
		Outcome:    models.DecisionSkipped,
		Reason:     reason,
	})
}

func (l *DecisionLog) append(decision models.AllocationDecision) {
	l.entries = append(l.entries, decision)
	l.logger.Debug("allocation decision",
		zap.String("run_id", decision.RunID),
		zap.String("demand_id", decision.DemandID),
		zap.Int("phase", decision.Phase),
		zap.String("outcome", string(decision.Outcome)),
		zap.String("reason", decision.Reason))
}

// Flush persists collected entries. Persistence failures are logged, not
// fatal: the decision log is observability, never correctness.
func (l *DecisionLog) Flush(ctx context.Context) {
	if l == nil || l.repo == nil || len(l.entries) == 0 {
		return
	}
	if err := l.repo.InsertBatch(ctx, l.entries); err != nil {
		l.logger.Warn("failed to persist decision log",
			zap.String("run_id", l.runID),
			zap.Int("entries", len(l.entries)),
			zap.Error(err))
	}
	l.entries = nil
}

package models

import "time"

// RunStatus tracks the lifecycle of an allocation run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// PhaseResult aggregates per-phase counters for one run.
type PhaseResult struct {
	Processed int `json:"processed"`
	Allocated int `json:"allocated"`
	Conflicts int `json:"conflicts"`
	Skipped   int `json:"skipped"`
}

// SkipDetail explains why a demand was left unallocated, for operator
// remediation.
type SkipDetail struct {
	DemandID string `json:"demand_id"`
	Phase    int    `json:"phase"`
	Reason   string `json:"reason"`
}

// RunResult is the engine's boundary contract toward reporting layers.
type RunResult struct {
	RunID          string       `json:"run_id"`
	SemesterID     string       `json:"semester_id"`
	Status         RunStatus    `json:"status"`
	Phase1         PhaseResult  `json:"phase1"`
	Phase2         PhaseResult  `json:"phase2"`
	Phase3         PhaseResult  `json:"phase3"`
	TotalProcessed int          `json:"total_processed"`
	TotalAllocated int          `json:"total_allocated"`
	TotalSkipped   int          `json:"total_skipped"`
	Skips          []SkipDetail `json:"skips,omitempty"`
	Error          string       `json:"error,omitempty"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     *time.Time   `json:"finished_at,omitempty"`
}

// Skip appends a skip detail and bumps the matching phase counter.
func (r *RunResult) Skip(phase int, demandID, reason string) {
	r.Skips = append(r.Skips, SkipDetail{DemandID: demandID, Phase: phase, Reason: reason})
	switch phase {
	case 1:
		r.Phase1.Skipped++
	case 2:
		r.Phase2.Skipped++
	case 3:
		r.Phase3.Skipped++
	}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// DecisionOutcome classifies what happened to an evaluated candidate or demand.
type DecisionOutcome string

const (
	DecisionAllocated DecisionOutcome = "ALLOCATED"
	DecisionRejected  DecisionOutcome = "REJECTED"
	DecisionSkipped   DecisionOutcome = "SKIPPED"
)

// AllocationDecision records one entry of the per-run decision log: a
// candidate that was evaluated, or a demand-level skip with its reason.
type AllocationDecision struct {
	ID         string          `db:"id" json:"id"`
	RunID      string          `db:"run_id" json:"run_id"`
	SemesterID string          `db:"semester_id" json:"semester_id"`
	DemandID   string          `db:"demand_id" json:"demand_id"`
	Phase      int             `db:"phase" json:"phase"`
	RoomID     *string         `db:"room_id" json:"room_id,omitempty"`
	Score      *float64        `db:"score" json:"score,omitempty"`
	Breakdown  types.JSONText  `db:"breakdown" json:"breakdown,omitempty"`
	Outcome    DecisionOutcome `db:"outcome" json:"outcome"`
	Reason     string          `db:"reason" json:"reason"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

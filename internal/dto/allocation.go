package dto

// RunRequest triggers an allocation run for one semester.
type RunRequest struct {
	SemesterID string `json:"semesterId" validate:"required"`
}

// RunEnqueuedResponse acknowledges an accepted run.
type RunEnqueuedResponse struct {
	RunID      string `json:"runId"`
	SemesterID string `json:"semesterId"`
	Status     string `json:"status"`
}

// ScoreBreakdown itemizes the weighted scoring model for one candidate.
type ScoreBreakdown struct {
	Capacity   float64 `json:"capacity"`
	SoftRules  float64 `json:"softRules"`
	Preference float64 `json:"preference"`
	History    float64 `json:"history"`
	Total      float64 `json:"total"`
}

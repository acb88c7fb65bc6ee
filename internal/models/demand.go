package models

import "time"

// Demand represents a course section's need for a weekly room assignment
// within one semester. Demands are imported upstream and never mutated by
// the allocation engine.
type Demand struct {
	ID             string    `db:"id" json:"id"`
	SemesterID     string    `db:"semester_id" json:"semester_id"`
	DisciplineCode string    `db:"discipline_code" json:"discipline_code"`
	Name           string    `db:"name" json:"name"`
	ProfessorNames string    `db:"professor_names" json:"professor_names"`
	Section        string    `db:"section" json:"section"`
	SeatCount      int       `db:"seat_count" json:"seat_count"`
	ScheduleCode   string    `db:"schedule_code" json:"schedule_code"`
	Level          string    `db:"level" json:"level"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

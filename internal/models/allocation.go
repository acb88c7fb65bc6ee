package models

import "time"

// Allocation is one committed (demand, room, day, block) assignment. The
// allocations table enforces uniqueness on (semester_id, room_id, day_code,
// block_code); the AllocationRepository is its sole writer.
type Allocation struct {
	ID         string    `db:"id" json:"id"`
	SemesterID string    `db:"semester_id" json:"semester_id"`
	DemandID   string    `db:"demand_id" json:"demand_id"`
	RoomID     string    `db:"room_id" json:"room_id"`
	DayCode    int       `db:"day_code" json:"day_code"`
	BlockCode  string    `db:"block_code" json:"block_code"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// OccupiedSlot is a committed (room, day, block) triple within a semester,
// used to build the batch occupancy index.
type OccupiedSlot struct {
	RoomID    string `db:"room_id" json:"room_id"`
	DayCode   int    `db:"day_code" json:"day_code"`
	BlockCode string `db:"block_code" json:"block_code"`
}

// AllocationFilter describes query params for listing allocations.
type AllocationFilter struct {
	SemesterID string
	RoomID     string
	DemandID   string
	Page       int
	PageSize   int
}

// RoomHistory counts prior-semester allocations of a discipline per room.
type RoomHistory struct {
	RoomID    string `db:"room_id"`
	Semesters int    `db:"semesters"`
}

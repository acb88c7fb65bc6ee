package models

import "time"

// Room represents a physical room available for allocation.
type Room struct {
	ID          string    `db:"id" json:"id"`
	BuildingID  string    `db:"building_id" json:"building_id"`
	TypeID      string    `db:"type_id" json:"type_id"`
	Capacity    int       `db:"capacity" json:"capacity"`
	Floor       int       `db:"floor" json:"floor"`
	SeatingType string    `db:"seating_type" json:"seating_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// CharacteristicIDs is loaded from the room_characteristics join table.
	CharacteristicIDs []string `db:"-" json:"characteristic_ids"`
}

// HasCharacteristic reports whether the room carries the given characteristic.
func (r *Room) HasCharacteristic(id string) bool {
	for _, c := range r.CharacteristicIDs {
		if c == id {
			return true
		}
	}
	return false
}

// HasAllCharacteristics reports whether every listed characteristic is present.
func (r *Room) HasAllCharacteristics(ids []string) bool {
	for _, id := range ids {
		if !r.HasCharacteristic(id) {
			return false
		}
	}
	return true
}

// GroundFloor reports whether the room is reachable without stairs.
func (r *Room) GroundFloor() bool {
	return r.Floor == 0
}

package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Professor is an administrator-managed instructor record. Professors never
// authenticate; they exist so demands can be matched to mobility and room
// preference data.
type Professor struct {
	ID                       string         `db:"id" json:"id"`
	FullName                 string         `db:"full_name" json:"full_name"`
	MobilityImpaired         bool           `db:"mobility_impaired" json:"mobility_impaired"`
	PreferredRooms           types.JSONText `db:"preferred_rooms" json:"preferred_rooms"`
	PreferredCharacteristics types.JSONText `db:"preferred_characteristics" json:"preferred_characteristics"`
	CreatedAt                time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time      `db:"updated_at" json:"updated_at"`
}

// ProfessorPreferences is the decoded preference payload.
type ProfessorPreferences struct {
	RoomIDs           []string `json:"room_ids"`
	CharacteristicIDs []string `json:"characteristic_ids"`
}

// Preferences decodes the stored preference payloads. Malformed payloads
// degrade to empty preferences rather than failing a run.
func (p *Professor) Preferences() ProfessorPreferences {
	var prefs ProfessorPreferences
	if len(p.PreferredRooms) > 0 {
		_ = json.Unmarshal(p.PreferredRooms, &prefs.RoomIDs)
	}
	if len(p.PreferredCharacteristics) > 0 {
		_ = json.Unmarshal(p.PreferredCharacteristics, &prefs.CharacteristicIDs)
	}
	return prefs
}

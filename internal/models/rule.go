package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RuleKind discriminates the typed configuration carried by a rule.
type RuleKind string

const (
	RuleKindRoomSet           RuleKind = "ROOM_SET"
	RuleKindRoomTypeSet       RuleKind = "ROOM_TYPE_SET"
	RuleKindCharacteristicSet RuleKind = "CHARACTERISTIC_SET"
)

// HardRulePriority marks a rule as mandatory; higher values are preferences
// where a lower number means a stronger preference.
const HardRulePriority = 0

// Rule constrains or biases which rooms a discipline may be allocated to.
type Rule struct {
	ID             string         `db:"id" json:"id"`
	DisciplineCode string         `db:"discipline_code" json:"discipline_code"`
	Kind           RuleKind       `db:"kind" json:"kind"`
	Config         types.JSONText `db:"config" json:"config"`
	Priority       int            `db:"priority" json:"priority"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// RuleConfig is the decoded payload for a rule. Exactly one field is
// meaningful depending on Kind.
type RuleConfig struct {
	RoomIDs           []string `json:"room_ids,omitempty"`
	RoomTypeIDs       []string `json:"room_type_ids,omitempty"`
	CharacteristicIDs []string `json:"characteristic_ids,omitempty"`
}

// Hard reports whether the rule is mandatory.
func (r *Rule) Hard() bool {
	return r.Priority == HardRulePriority
}

// DecodeConfig parses the JSON payload into its typed form.
func (r *Rule) DecodeConfig() (RuleConfig, error) {
	var cfg RuleConfig
	if len(r.Config) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(r.Config, &cfg); err != nil {
		return cfg, fmt.Errorf("decode rule %s config: %w", r.ID, err)
	}
	return cfg, nil
}

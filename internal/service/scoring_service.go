package service

import (
	"go.uber.org/zap"

	"github.com/unialloc/room-alloc-api/internal/dto"
	"github.com/unialloc/room-alloc-api/internal/models"
	"github.com/unialloc/room-alloc-api/internal/schedule"
	"github.com/unialloc/room-alloc-api/pkg/config"
)

// Candidate is a transient, scored (demand, room) pairing. Candidates are
// produced per phase-2 demand, consumed once by phase 3 and never persisted.
type Candidate struct {
	Demand       *models.Demand
	Room         *models.Room
	Score        float64
	HasConflicts bool
	Breakdown    dto.ScoreBreakdown
}

// ScoringService computes the weighted score of a room for a demand:
// capacity fit, satisfied soft rules, professor preferences and historical
// discipline-room continuity.
type ScoringService struct {
	weights config.AllocatorWeights
	rules   *RuleService
	logger  *zap.Logger
}

// NewScoringService constructs the service. Zero-valued weights fall back to
// the configuration defaults.
func NewScoringService(weights config.AllocatorWeights, rules *RuleService, logger *zap.Logger) *ScoringService {
	if weights == (config.AllocatorWeights{}) {
		weights = config.DefaultWeights()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{weights: weights, rules: rules, logger: logger}
}

// Score evaluates one room for one demand. history maps room id to the
// number of prior semesters this discipline was allocated there; occupancy
// is the batch-loaded conflict index for the semester.
func (s *ScoringService) Score(
	demand *models.Demand,
	room *models.Room,
	blocks []schedule.Block,
	softRules []models.Rule,
	professor *models.Professor,
	history map[string]int,
	occupancy *occupancyIndex,
) Candidate {
	breakdown := dto.ScoreBreakdown{
		Capacity:  s.capacityPoints(demand.SeatCount, room.Capacity),
		SoftRules: s.softRulePoints(room, softRules),
		History:   s.weights.History * float64(history[room.ID]),
	}
	if professor != nil {
		breakdown.Preference = s.preferencePoints(room, professor)
	}
	breakdown.Total = breakdown.Capacity + breakdown.SoftRules + breakdown.Preference + breakdown.History

	return Candidate{
		Demand:       demand,
		Room:         room,
		Score:        breakdown.Total,
		HasConflicts: occupancy.anyOccupied(room.ID, blocks),
		Breakdown:    breakdown,
	}
}

// capacityPoints rewards capacity close to the seat count from above. An
// exact fit earns the full weight; oversized rooms decay toward zero.
// Under-capacity rooms score negative but stay eligible: exclusion happens
// only through hard rules.
func (s *ScoringService) capacityPoints(seats, capacity int) float64 {
	if seats <= 0 {
		seats = 1
	}
	if capacity <= 0 {
		return -s.weights.Capacity
	}
	if capacity >= seats {
		return s.weights.Capacity * float64(seats) / float64(capacity)
	}
	return -s.weights.Capacity * float64(seats-capacity) / float64(seats)
}

// softRulePoints sums weight/priority for every satisfied soft rule, so a
// priority-1 preference counts more than a priority-2 one.
func (s *ScoringService) softRulePoints(room *models.Room, softRules []models.Rule) float64 {
	var points float64
	for _, rule := range softRules {
		if rule.Hard() {
			continue
		}
		if s.rules.Satisfies(room, rule) {
			points += s.weights.SoftRule / float64(rule.Priority)
		}
	}
	return points
}

func (s *ScoringService) preferencePoints(room *models.Room, professor *models.Professor) float64 {
	prefs := professor.Preferences()
	var points float64
	if containsString(prefs.RoomIDs, room.ID) {
		points += s.weights.PreferredRoom
	}
	for _, characteristic := range prefs.CharacteristicIDs {
		if room.HasCharacteristic(characteristic) {
			points += s.weights.PreferredCharacteristic
			break
		}
	}
	return points
}

package service

import (
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/unialloc/room-alloc-api/internal/models"
	"github.com/unialloc/room-alloc-api/internal/schedule"
	"github.com/unialloc/room-alloc-api/pkg/config"
)

func newScoringFixture() *ScoringService {
	rules := NewRuleService(ruleListerStub{}, zap.NewNop())
	return NewScoringService(config.DefaultWeights(), rules, zap.NewNop())
}

func mustParse(t *testing.T, code string) []schedule.Block {
	t.Helper()
	blocks, err := schedule.Parse(code)
	assert.NoError(t, err)
	return blocks
}

func TestScoringCapacityExactFitEarnsFullWeight(t *testing.T) {
	svc := newScoringFixture()
	demand := &models.Demand{ID: "d1", SeatCount: 40}
	room := &models.Room{ID: "R1", Capacity: 40}

	candidate := svc.Score(demand, room, mustParse(t, "2M1"), nil, nil, nil, newOccupancyIndex(nil))
	assert.InDelta(t, 20.0, candidate.Breakdown.Capacity, 1e-9)
}

func TestScoringCapacityOversizedDecays(t *testing.T) {
	svc := newScoringFixture()
	demand := &models.Demand{ID: "d1", SeatCount: 20}
	room := &models.Room{ID: "R1", Capacity: 80}

	candidate := svc.Score(demand, room, mustParse(t, "2M1"), nil, nil, nil, newOccupancyIndex(nil))
	assert.InDelta(t, 5.0, candidate.Breakdown.Capacity, 1e-9)
}

func TestScoringCapacityUndersizedScoresNegative(t *testing.T) {
	svc := newScoringFixture()
	demand := &models.Demand{ID: "d1", SeatCount: 50}
	room := &models.Room{ID: "R1", Capacity: 40}

	candidate := svc.Score(demand, room, mustParse(t, "2M1"), nil, nil, nil, newOccupancyIndex(nil))
	assert.Less(t, candidate.Breakdown.Capacity, 0.0)
}

func TestScoringSoftRulesWeightedByPriority(t *testing.T) {
	svc := newScoringFixture()
	demand := &models.Demand{ID: "d1", SeatCount: 40}
	room := &models.Room{ID: "R1", Capacity: 40, TypeID: "LAB", CharacteristicIDs: []string{"PROJECTOR"}}
	soft := []models.Rule{
		{ID: "r1", Kind: models.RuleKindRoomTypeSet, Priority: 1, Config: types.JSONText(`{"room_type_ids":["LAB"]}`)},
		{ID: "r2", Kind: models.RuleKindCharacteristicSet, Priority: 2, Config: types.JSONText(`{"characteristic_ids":["PROJECTOR"]}`)},
		{ID: "r3", Kind: models.RuleKindRoomSet, Priority: 2, Config: types.JSONText(`{"room_ids":["R9"]}`)},
	}

	candidate := svc.Score(demand, room, mustParse(t, "2M1"), soft, nil, nil, newOccupancyIndex(nil))
	// 10/1 for the priority-1 rule plus 10/2 for the satisfied priority-2 one
	assert.InDelta(t, 15.0, candidate.Breakdown.SoftRules, 1e-9)
}

func TestScoringProfessorPreferences(t *testing.T) {
	svc := newScoringFixture()
	demand := &models.Demand{ID: "d1", SeatCount: 40}
	room := &models.Room{ID: "R1", Capacity: 40, CharacteristicIDs: []string{"AC", "PROJECTOR"}}
	professor := &models.Professor{
		ID:                       "p1",
		FullName:                 "Ana Souza",
		PreferredRooms:           types.JSONText(`["R1"]`),
		PreferredCharacteristics: types.JSONText(`["AC","PROJECTOR"]`),
	}

	candidate := svc.Score(demand, room, mustParse(t, "2M1"), nil, professor, nil, newOccupancyIndex(nil))
	// 15 for the preferred room plus a single 5 regardless of how many
	// preferred characteristics the room carries
	assert.InDelta(t, 20.0, candidate.Breakdown.Preference, 1e-9)
}

func TestScoringHistoryContinuity(t *testing.T) {
	svc := newScoringFixture()
	demand := &models.Demand{ID: "d1", DisciplineCode: "MAT101", SeatCount: 40}
	room := &models.Room{ID: "R1", Capacity: 40}

	candidate := svc.Score(demand, room, mustParse(t, "2M1"), nil, nil, map[string]int{"R1": 3}, newOccupancyIndex(nil))
	assert.InDelta(t, 9.0, candidate.Breakdown.History, 1e-9)
}

func TestScoringFlagsConflicts(t *testing.T) {
	svc := newScoringFixture()
	demand := &models.Demand{ID: "d1", SeatCount: 40}
	room := &models.Room{ID: "R1", Capacity: 40}
	occupancy := newOccupancyIndex([]models.OccupiedSlot{{RoomID: "R1", DayCode: 2, BlockCode: "M1"}})

	candidate := svc.Score(demand, room, mustParse(t, "2M12"), nil, nil, nil, occupancy)
	assert.True(t, candidate.HasConflicts, "any overlapping block makes the whole candidate conflicting")

	free := svc.Score(demand, room, mustParse(t, "3M12"), nil, nil, nil, occupancy)
	assert.False(t, free.HasConflicts)
}

func TestScoringTotalIsSumOfComponents(t *testing.T) {
	svc := newScoringFixture()
	demand := &models.Demand{ID: "d1", DisciplineCode: "MAT101", SeatCount: 40}
	room := &models.Room{ID: "R1", Capacity: 40}
	professor := &models.Professor{ID: "p1", FullName: "Ana Souza", PreferredRooms: types.JSONText(`["R1"]`)}

	candidate := svc.Score(demand, room, mustParse(t, "2M1"), nil, professor, map[string]int{"R1": 1}, newOccupancyIndex(nil))
	expected := candidate.Breakdown.Capacity + candidate.Breakdown.SoftRules + candidate.Breakdown.Preference + candidate.Breakdown.History
	assert.InDelta(t, expected, candidate.Score, 1e-9)
	assert.InDelta(t, 38.0, candidate.Score, 1e-9)
}

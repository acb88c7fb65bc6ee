package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unialloc/room-alloc-api/internal/models"
)

type ruleListerStub struct {
	items map[string][]models.Rule
	err   error
}

func (s ruleListerStub) ListByDisciplines(ctx context.Context, disciplineCodes []string) (map[string][]models.Rule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func TestRuleServiceSatisfiesRoomSet(t *testing.T) {
	svc := NewRuleService(ruleListerStub{}, zap.NewNop())
	rule := models.Rule{ID: "r1", Kind: models.RuleKindRoomSet, Config: types.JSONText(`{"room_ids":["R1","R2"]}`)}

	assert.True(t, svc.Satisfies(&models.Room{ID: "R1"}, rule))
	assert.False(t, svc.Satisfies(&models.Room{ID: "R3"}, rule))
}

func TestRuleServiceSatisfiesRoomTypeSet(t *testing.T) {
	svc := NewRuleService(ruleListerStub{}, zap.NewNop())
	rule := models.Rule{ID: "r1", Kind: models.RuleKindRoomTypeSet, Config: types.JSONText(`{"room_type_ids":["LAB"]}`)}

	assert.True(t, svc.Satisfies(&models.Room{ID: "R1", TypeID: "LAB"}, rule))
	assert.False(t, svc.Satisfies(&models.Room{ID: "R1", TypeID: "AUDITORIUM"}, rule))
}

func TestRuleServiceSatisfiesCharacteristicSetRequiresAll(t *testing.T) {
	svc := NewRuleService(ruleListerStub{}, zap.NewNop())
	rule := models.Rule{ID: "r1", Kind: models.RuleKindCharacteristicSet, Config: types.JSONText(`{"characteristic_ids":["PROJECTOR","AC"]}`)}

	assert.True(t, svc.Satisfies(&models.Room{ID: "R1", CharacteristicIDs: []string{"AC", "PROJECTOR", "WHITEBOARD"}}, rule))
	assert.False(t, svc.Satisfies(&models.Room{ID: "R1", CharacteristicIDs: []string{"PROJECTOR"}}, rule))
}

func TestRuleServiceSatisfiesUndecodableConfig(t *testing.T) {
	svc := NewRuleService(ruleListerStub{}, zap.NewNop())
	rule := models.Rule{ID: "r1", Kind: models.RuleKindRoomSet, Config: types.JSONText(`not json`)}

	assert.False(t, svc.Satisfies(&models.Room{ID: "R1"}, rule))
}

func TestRuleServiceSatisfiesUnknownKind(t *testing.T) {
	svc := NewRuleService(ruleListerStub{}, zap.NewNop())
	rule := models.Rule{ID: "r1", Kind: models.RuleKind("FLOOR_SET"), Config: types.JSONText(`{}`)}

	assert.False(t, svc.Satisfies(&models.Room{ID: "R1"}, rule))
}

func TestRuleServiceHardCompliant(t *testing.T) {
	svc := NewRuleService(ruleListerStub{}, zap.NewNop())
	room := &models.Room{ID: "R1", TypeID: "LAB"}

	hard := []models.Rule{
		{ID: "r1", Kind: models.RuleKindRoomSet, Priority: models.HardRulePriority, Config: types.JSONText(`{"room_ids":["R1"]}`)},
		{ID: "r2", Kind: models.RuleKindRoomTypeSet, Priority: models.HardRulePriority, Config: types.JSONText(`{"room_type_ids":["LAB"]}`)},
	}
	assert.True(t, svc.HardCompliant(room, hard))

	hard[1].Config = types.JSONText(`{"room_type_ids":["AUDITORIUM"]}`)
	assert.False(t, svc.HardCompliant(room, hard))
}

func TestRuleServiceHardCompliantVacuouslyTrue(t *testing.T) {
	svc := NewRuleService(ruleListerStub{}, zap.NewNop())
	assert.True(t, svc.HardCompliant(&models.Room{ID: "R1"}, nil))
}

func TestSplitHardSoft(t *testing.T) {
	rules := []models.Rule{
		{ID: "r1", Priority: 0},
		{ID: "r2", Priority: 1},
		{ID: "r3", Priority: 0},
		{ID: "r4", Priority: 3},
	}
	hard, soft := SplitHardSoft(rules)
	require.Len(t, hard, 2)
	require.Len(t, soft, 2)
	assert.Equal(t, "r1", hard[0].ID)
	assert.Equal(t, "r3", hard[1].ID)
	assert.Equal(t, "r2", soft[0].ID)
}

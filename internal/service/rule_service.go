package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/unialloc/room-alloc-api/internal/models"
	appErrors "github.com/unialloc/room-alloc-api/pkg/errors"
)

type ruleLister interface {
	ListByDisciplines(ctx context.Context, disciplineCodes []string) (map[string][]models.Rule, error)
}

// RuleService retrieves and evaluates discipline allocation rules.
type RuleService struct {
	rules  ruleLister
	logger *zap.Logger
}

// NewRuleService constructs the service.
func NewRuleService(rules ruleLister, logger *zap.Logger) *RuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleService{rules: rules, logger: logger}
}

// ForDisciplines loads rules for every discipline in one round-trip, each
// list ordered by priority ascending (hard rules first).
func (s *RuleService) ForDisciplines(ctx context.Context, disciplineCodes []string) (map[string][]models.Rule, error) {
	grouped, err := s.rules.ListByDisciplines(ctx, disciplineCodes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discipline rules")
	}
	return grouped, nil
}

// Satisfies reports whether the room meets one rule. A rule whose payload
// cannot be decoded is treated as unsatisfied.
func (s *RuleService) Satisfies(room *models.Room, rule models.Rule) bool {
	cfg, err := rule.DecodeConfig()
	if err != nil {
		s.logger.Warn("undecodable rule config",
			zap.String("rule_id", rule.ID),
			zap.String("discipline", rule.DisciplineCode),
			zap.Error(err))
		return false
	}

	switch rule.Kind {
	case models.RuleKindRoomSet:
		return containsString(cfg.RoomIDs, room.ID)
	case models.RuleKindRoomTypeSet:
		return containsString(cfg.RoomTypeIDs, room.TypeID)
	case models.RuleKindCharacteristicSet:
		return room.HasAllCharacteristics(cfg.CharacteristicIDs)
	default:
		s.logger.Warn("unknown rule kind", zap.String("rule_id", rule.ID), zap.String("kind", string(rule.Kind)))
		return false
	}
}

// HardCompliant reports whether the room satisfies every hard rule in the
// list. Vacuously true when the discipline has no hard rules.
func (s *RuleService) HardCompliant(room *models.Room, rules []models.Rule) bool {
	for _, rule := range rules {
		if !rule.Hard() {
			continue
		}
		if !s.Satisfies(room, rule) {
			return false
		}
	}
	return true
}

// SplitHardSoft partitions a priority-ordered rule list.
func SplitHardSoft(rules []models.Rule) (hard, soft []models.Rule) {
	for _, rule := range rules {
		if rule.Hard() {
			hard = append(hard, rule)
		} else {
			soft = append(soft, rule)
		}
	}
	return hard, soft
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

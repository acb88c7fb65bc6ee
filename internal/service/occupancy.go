package service

import (
	"github.com/unialloc/room-alloc-api/internal/models"
	"github.com/unialloc/room-alloc-api/internal/schedule"
)

type slotKey struct {
	RoomID string
	Day    int
	Block  string
}

// occupancyIndex answers (room, day, block) conflict lookups against a
// snapshot of committed allocations loaded in one batch query. Phase 1
// reserves slots as it commits so later demands in the same pass see them.
type occupancyIndex struct {
	slots map[slotKey]struct{}
}

func newOccupancyIndex(occupied []models.OccupiedSlot) *occupancyIndex {
	idx := &occupancyIndex{slots: make(map[slotKey]struct{}, len(occupied))}
	for _, slot := range occupied {
		idx.slots[slotKey{RoomID: slot.RoomID, Day: slot.DayCode, Block: slot.BlockCode}] = struct{}{}
	}
	return idx
}

func (idx *occupancyIndex) anyOccupied(roomID string, blocks []schedule.Block) bool {
	for _, block := range blocks {
		if _, ok := idx.slots[slotKey{RoomID: roomID, Day: block.Day, Block: block.Code}]; ok {
			return true
		}
	}
	return false
}

func (idx *occupancyIndex) reserve(roomID string, blocks []schedule.Block) {
	for _, block := range blocks {
		idx.slots[slotKey{RoomID: roomID, Day: block.Day, Block: block.Code}] = struct{}{}
	}
}

func overlaps(occupied []models.OccupiedSlot, blocks []schedule.Block) bool {
	if len(occupied) == 0 {
		return false
	}
	taken := make(map[slotKey]struct{}, len(occupied))
	for _, slot := range occupied {
		taken[slotKey{Day: slot.DayCode, Block: slot.BlockCode}] = struct{}{}
	}
	for _, block := range blocks {
		if _, ok := taken[slotKey{Day: block.Day, Block: block.Code}]; ok {
			return true
		}
	}
	return false
}

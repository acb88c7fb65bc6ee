package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/unialloc/room-alloc-api/internal/models"
)

// RoomRepository reads the room inventory.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListAll returns every room with its characteristic set attached, ordered
// by id so candidate evaluation is deterministic across runs.
func (r *RoomRepository) ListAll(ctx context.Context) ([]models.Room, error) {
	const roomQuery = `SELECT id, building_id, type_id, capacity, floor, seating_type, created_at, updated_at
FROM rooms ORDER BY id ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, roomQuery); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	const charQuery = `SELECT room_id, characteristic_id FROM room_characteristics ORDER BY room_id ASC, characteristic_id ASC`
	var links []struct {
		RoomID           string `db:"room_id"`
		CharacteristicID string `db:"characteristic_id"`
	}
	if err := r.db.SelectContext(ctx, &links, charQuery); err != nil {
		return nil, fmt.Errorf("list room characteristics: %w", err)
	}

	byRoom := make(map[string][]string, len(rooms))
	for _, link := range links {
		byRoom[link.RoomID] = append(byRoom[link.RoomID], link.CharacteristicID)
	}
	for i := range rooms {
		rooms[i].CharacteristicIDs = byRoom[rooms[i].ID]
	}
	return rooms, nil
}

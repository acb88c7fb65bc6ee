package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRoomRepositoryListAllAttachesCharacteristics(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	roomRows := sqlmock.NewRows([]string{"id", "building_id", "type_id", "capacity", "floor", "seating_type", "created_at", "updated_at"}).
		AddRow("R1", "B1", "CLASSROOM", 40, 0, "FIXED", time.Now(), time.Now()).
		AddRow("R2", "B1", "LAB", 25, 1, "MOVABLE", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms ORDER BY id ASC")).
		WillReturnRows(roomRows)

	charRows := sqlmock.NewRows([]string{"room_id", "characteristic_id"}).
		AddRow("R1", "AC").
		AddRow("R1", "PROJECTOR").
		AddRow("R2", "WORKBENCH")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT room_id, characteristic_id FROM room_characteristics")).
		WillReturnRows(charRows)

	rooms, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, []string{"AC", "PROJECTOR"}, rooms[0].CharacteristicIDs)
	assert.True(t, rooms[0].HasCharacteristic("AC"))
	assert.True(t, rooms[0].GroundFloor())
	assert.False(t, rooms[1].GroundFloor())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryListAllNoCharacteristics(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	roomRows := sqlmock.NewRows([]string{"id", "building_id", "type_id", "capacity", "floor", "seating_type", "created_at", "updated_at"}).
		AddRow("R1", "B1", "CLASSROOM", 40, 0, "FIXED", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms ORDER BY id ASC")).
		WillReturnRows(roomRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT room_id, characteristic_id FROM room_characteristics")).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "characteristic_id"}))

	rooms, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Empty(t, rooms[0].CharacteristicIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pangea-chat/roomcode-server/internal/database"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*PostgresCodeRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresCodeRepository(database.NewPostgresDatabaseWithDB(db)), mock
}

func TestCreateIfAbsentWritten(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO room_codes (code, room_id, created_at) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING")).
		WithArgs("aBc1234", "!room:example.org", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	written, err := repo.CreateIfAbsent(context.Background(), "aBc1234", "!room:example.org")
	require.NoError(t, err)
	require.True(t, written)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAbsentConflict(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO room_codes")).
		WithArgs("aBc1234", "!room:example.org", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	written, err := repo.CreateIfAbsent(context.Background(), "aBc1234", "!room:example.org")
	require.NoError(t, err)
	require.False(t, written)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCode(t *testing.T) {
	repo, mock := newTestRepository(t)

	createdAt := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, room_id, created_at FROM room_codes WHERE code = $1 ORDER BY room_id")).
		WithArgs("aBc1234").
		WillReturnRows(sqlmock.NewRows([]string{"code", "room_id", "created_at"}).
			AddRow("aBc1234", "!room:example.org", createdAt))

	mappings, err := repo.GetByCode(context.Background(), "aBc1234")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	require.Equal(t, "aBc1234", mappings[0].Code)
	require.Equal(t, "!room:example.org", mappings[0].RoomID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCodeUnmapped(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, room_id, created_at FROM room_codes WHERE code = $1")).
		WithArgs("zz9zzzz").
		WillReturnRows(sqlmock.NewRows([]string{"code", "room_id", "created_at"}))

	mappings, err := repo.GetByCode(context.Background(), "zz9zzzz")
	require.NoError(t, err)
	require.Empty(t, mappings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByRoom(t *testing.T) {
	repo, mock := newTestRepository(t)

	createdAt := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, room_id, created_at FROM room_codes WHERE room_id = $1 ORDER BY created_at")).
		WithArgs("!room:example.org").
		WillReturnRows(sqlmock.NewRows([]string{"code", "room_id", "created_at"}).
			AddRow("aBc1234", "!room:example.org", createdAt).
			AddRow("xYz9876", "!room:example.org", createdAt.Add(time.Second)))

	mappings, err := repo.GetByRoom(context.Background(), "!room:example.org")
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	require.Equal(t, "aBc1234", mappings[0].Code)
	require.Equal(t, "xYz9876", mappings[1].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByRoomExcept(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM room_codes WHERE room_id = $1 AND code <> $2")).
		WithArgs("!room:example.org", "aBc1234").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DeleteByRoomExcept(context.Background(), "!room:example.org", "aBc1234")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pangea-chat/roomcode-server/internal/database"
	"github.com/pangea-chat/roomcode-server/internal/model"
)

// CodeRepository is an interface that defines the read/write contract required
// for access code mappings. CreateIfAbsent is the only write primitive the
// allocation path relies on and must be atomic with respect to concurrent callers.
type CodeRepository interface {
	// GetByCode retrieves the mappings keyed by the given code, ordered by room ID.
	// It returns an empty slice when the code is not mapped.
	GetByCode(ctx context.Context, code string) ([]*model.CodeMapping, error)

	// CreateIfAbsent writes the mapping {code -> roomID} only if the code is not
	// already mapped. It reports whether the write happened; false means the key
	// existed at the moment of the write. The check and the write are a single
	// atomic operation.
	CreateIfAbsent(ctx context.Context, code, roomID string) (bool, error)

	// GetByRoom retrieves all mappings currently held by the given room.
	GetByRoom(ctx context.Context, roomID string) ([]*model.CodeMapping, error)

	// DeleteByRoomExcept removes every mapping held by the given room except keepCode.
	DeleteByRoomExcept(ctx context.Context, roomID, keepCode string) error
}

const schema = `
CREATE TABLE IF NOT EXISTS room_codes (
	code TEXT PRIMARY KEY,
	room_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_room_codes_room_id ON room_codes(room_id);
`

// PostgresCodeRepository implements the CodeRepository interface backed by PostgreSQL.
type PostgresCodeRepository struct {
	db database.Database
}

// NewPostgresCodeRepository creates a new PostgresCodeRepository instance with the provided database.
func NewPostgresCodeRepository(db database.Database) *PostgresCodeRepository {
	return &PostgresCodeRepository{
		db: db,
	}
}

// InitSchema creates the room_codes table and its indexes if they do not exist.
func (cr *PostgresCodeRepository) InitSchema(ctx context.Context) error {
	if _, err := cr.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

func (cr *PostgresCodeRepository) GetByCode(ctx context.Context, code string) ([]*model.CodeMapping, error) {
	query := "SELECT code, room_id, created_at FROM room_codes WHERE code = $1 ORDER BY room_id"

	rows, err := cr.db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get code mappings: %w", err)
	}
	defer rows.Close()

	mappings := []*model.CodeMapping{}
	for rows.Next() {
		mapping := &model.CodeMapping{}
		if err := rows.Scan(&mapping.Code, &mapping.RoomID, &mapping.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan code mapping: %w", err)
		}
		mappings = append(mappings, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read code mappings: %w", err)
	}

	return mappings, nil
}

// CreateIfAbsent relies on the primary key on code: the conditional insert and
// the existence check are a single statement, so concurrent allocators can
// never both win the same code.
func (cr *PostgresCodeRepository) CreateIfAbsent(ctx context.Context, code, roomID string) (bool, error) {
	query := "INSERT INTO room_codes (code, room_id, created_at) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING"

	result, err := cr.db.ExecContext(ctx, query, code, roomID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to create code mapping: %w", err)
	}

	written, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create code mapping: %w", err)
	}

	return written == 1, nil
}

func (cr *PostgresCodeRepository) GetByRoom(ctx context.Context, roomID string) ([]*model.CodeMapping, error) {
	query := "SELECT code, room_id, created_at FROM room_codes WHERE room_id = $1 ORDER BY created_at"

	rows, err := cr.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room mappings: %w", err)
	}
	defer rows.Close()

	mappings := []*model.CodeMapping{}
	for rows.Next() {
		mapping := &model.CodeMapping{}
		if err := rows.Scan(&mapping.Code, &mapping.RoomID, &mapping.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room mapping: %w", err)
		}
		mappings = append(mappings, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read room mappings: %w", err)
	}

	return mappings, nil
}

func (cr *PostgresCodeRepository) DeleteByRoomExcept(ctx context.Context, roomID, keepCode string) error {
	query := "DELETE FROM room_codes WHERE room_id = $1 AND code <> $2"

	if _, err := cr.db.ExecContext(ctx, query, roomID, keepCode); err != nil {
		return fmt.Errorf("failed to delete room mappings: %w", err)
	}

	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const createSavesTable = `
CREATE TABLE IF NOT EXISTS table_saves (
	room_id    TEXT NOT NULL,
	slot       TEXT NOT NULL,
	snapshot   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (room_id, slot)
)`

// PostgresStore keeps save slots in a table_saves table, one row per
// (room, slot) with the snapshot as JSONB.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{pool: pool, logger: logger}
}

// EnsureSchema creates the saves table if it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createSavesTable); err != nil {
		return fmt.Errorf("create table_saves: %w", err)
	}
	return nil
}

// Save upserts the snapshot under the slot.
func (s *PostgresStore) Save(ctx context.Context, roomID, slot string, snapshot []byte) error {
	roomID, slot, err := validateSlot(roomID, slot)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO table_saves (room_id, slot, snapshot)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_id, slot)
		DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()
	`, roomID, slot, snapshot)
	if err != nil {
		return fmt.Errorf("save slot %s/%s: %w", roomID, slot, err)
	}

	s.logger.Debug("snapshot saved",
		zap.String("room_id", roomID),
		zap.String("slot", slot),
		zap.Int("bytes", len(snapshot)),
	)
	return nil
}

// Load returns the snapshot stored under the slot.
func (s *PostgresStore) Load(ctx context.Context, roomID, slot string) ([]byte, error) {
	roomID, slot, err := validateSlot(roomID, slot)
	if err != nil {
		return nil, err
	}

	var snapshot []byte
	err = s.pool.QueryRow(ctx,
		`SELECT snapshot FROM table_saves WHERE room_id = $1 AND slot = $2`,
		roomID, slot,
	).Scan(&snapshot)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s/%s: %w", roomID, slot, err)
	}
	return snapshot, nil
}

// List returns the room's slots, sorted by slot name.
func (s *PostgresStore) List(ctx context.Context, roomID string) ([]SaveRecord, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, fmt.Errorf("room id is required")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT slot, octet_length(snapshot::text), created_at, updated_at
		FROM table_saves
		WHERE room_id = $1
		ORDER BY slot
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list slots for %s: %w", roomID, err)
	}
	defer rows.Close()

	var records []SaveRecord
	for rows.Next() {
		rec := SaveRecord{RoomID: roomID}
		if err := rows.Scan(&rec.Slot, &rec.Bytes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots for %s: %w", roomID, err)
	}
	return records, nil
}

// Delete removes the slot.
func (s *PostgresStore) Delete(ctx context.Context, roomID, slot string) error {
	roomID, slot, err := validateSlot(roomID, slot)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM table_saves WHERE room_id = $1 AND slot = $2`,
		roomID, slot,
	)
	if err != nil {
		return fmt.Errorf("delete slot %s/%s: %w", roomID, slot, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// validateSlot trims and rejects empty identifiers.
func validateSlot(roomID, slot string) (string, string, error) {
	roomID = strings.TrimSpace(roomID)
	slot = strings.TrimSpace(slot)
	if roomID == "" {
		return "", "", fmt.Errorf("room id is required")
	}
	if slot == "" {
		return "", "", fmt.Errorf("slot is required")
	}
	return roomID, slot, nil
}

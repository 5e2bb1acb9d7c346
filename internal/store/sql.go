package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordlemon/internal/game"
)

// sqlStore keeps one JSON snapshot per key in the sessions table.
// The table is created by the db package migrations.
type sqlStore struct {
	db *sql.DB
}

// NewSQLStore returns a Store backed by db.
func NewSQLStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) Get(ctx context.Context, key string) (*game.Session, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE player_key=?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess game.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *sqlStore) Put(ctx context.Context, key string, sess *game.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (player_key, state, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(player_key) DO UPDATE SET state=excluded.state, updated_at=excluded.updated_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *sqlStore) Clear(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE player_key=?`, key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

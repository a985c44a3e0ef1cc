// Package persistence provides SQLite-backed saved-game storage. Each
// save is a full JSON snapshot of the engine state under a generated id.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hex-settlers/internal/game"
)

// Store wraps a SQLite connection for saved games.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_games (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		turn_number INTEGER NOT NULL,
		snapshot TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saved_games_created ON saved_games(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SavedGame is one row of saved-game metadata.
type SavedGame struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
	TurnNumber int       `db:"turn_number"`
}

// Save stores a snapshot under a fresh id and returns it.
func (s *Store) Save(name string, snap *game.Snapshot) (string, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	id := uuid.NewString()
	_, err = s.conn.Exec(
		"INSERT INTO saved_games (id, name, created_at, turn_number, snapshot) VALUES (?, ?, ?, ?, ?)",
		id, name, time.Now().UTC().Format(time.RFC3339), snap.TurnNumber, string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("insert saved game: %w", err)
	}

	slog.Info("game saved", "id", id, "name", name, "turn", snap.TurnNumber)
	return id, nil
}

// Load reads the snapshot stored under the id.
func (s *Store) Load(id string) (*game.Snapshot, error) {
	var payload string
	if err := s.conn.Get(&payload, "SELECT snapshot FROM saved_games WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load saved game %s: %w", id, err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	slog.Info("game loaded", "id", id, "turn", snap.TurnNumber)
	return &snap, nil
}

// List returns saved-game metadata, newest first.
func (s *Store) List() ([]SavedGame, error) {
	var rows []struct {
		ID         string `db:"id"`
		Name       string `db:"name"`
		CreatedAt  string `db:"created_at"`
		TurnNumber int    `db:"turn_number"`
	}
	err := s.conn.Select(&rows,
		"SELECT id, name, created_at, turn_number FROM saved_games ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	saves := make([]SavedGame, 0, len(rows))
	for _, row := range rows {
		createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", row.ID, err)
		}
		saves = append(saves, SavedGame{
			ID:         row.ID,
			Name:       row.Name,
			CreatedAt:  createdAt,
			TurnNumber: row.TurnNumber,
		})
	}
	return saves, nil
}

// Delete removes a saved game.
func (s *Store) Delete(id string) error {
	_, err := s.conn.Exec("DELETE FROM saved_games WHERE id = ?", id)
	return err
}

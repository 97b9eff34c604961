package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amalgamgame/amalgam-server-go/internal/game/rules"
)

// MatchRecord is one finished game as archived to PostgreSQL. Only
// results are persisted; live game state never round-trips through the
// database.
type MatchRecord struct {
	GameID      string            `json:"game_id"`
	Winner      rules.PlayerID    `json:"winner"`
	VictoryType rules.VictoryType `json:"victory_type"`
	Moves       []rules.Move      `json:"moves"`
	FinishedAt  time.Time         `json:"finished_at"`
}

// MatchRepository archives finished matches.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a match repository on the shared pool.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// EnsureSchema creates the matches table when missing.
func (r *MatchRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS matches (
			game_id      TEXT PRIMARY KEY,
			winner       TEXT NOT NULL,
			victory_type TEXT NOT NULL,
			move_count   INTEGER NOT NULL,
			moves        JSONB NOT NULL,
			finished_at  TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure matches schema: %w", err)
	}
	return nil
}

// SaveMatch inserts a finished match. Saving the same game twice is a
// no-op.
func (r *MatchRepository) SaveMatch(ctx context.Context, rec MatchRecord) error {
	moves, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("encode move history: %w", err)
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO matches (game_id, winner, victory_type, move_count, moves, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id) DO NOTHING`,
		rec.GameID, string(rec.Winner), string(rec.VictoryType), len(rec.Moves), moves, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", rec.GameID, err)
	}
	return nil
}

// RecentMatches returns the most recently finished matches, newest first.
func (r *MatchRepository) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.pool.Query(ctx, `
		SELECT game_id, winner, victory_type, moves, finished_at
		FROM matches
		ORDER BY finished_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var (
			rec      MatchRecord
			winner   string
			victory  string
			rawMoves []byte
		)
		if err := rows.Scan(&rec.GameID, &winner, &victory, &rawMoves, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		rec.Winner = rules.PlayerID(winner)
		rec.VictoryType = rules.VictoryType(victory)
		if err := json.Unmarshal(rawMoves, &rec.Moves); err != nil {
			return nil, fmt.Errorf("decode move history for %s: %w", rec.GameID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

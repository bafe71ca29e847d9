package automatic

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/othello-go/reversi/board"
)

// GameResult is the outcome of one autoplay game, seen from player 1.
type GameResult struct {
	GameID      string
	Index       int
	Player1     string
	Player2     string
	Player1Side board.Color
	P1Stones    int
	P2Stones    int
	Turns       int
	Elapsed     time.Duration
}

// Margin is player 1's stones minus player 2's.
func (r GameResult) Margin() int {
	return r.P1Stones - r.P2Stones
}

const createGamesTable = `
CREATE TABLE IF NOT EXISTS games (
	game_id      TEXT PRIMARY KEY,
	game_index   INTEGER NOT NULL,
	player1      TEXT NOT NULL,
	player2      TEXT NOT NULL,
	player1_side TEXT NOT NULL,
	p1_stones    INTEGER NOT NULL,
	p2_stones    INTEGER NOT NULL,
	turns        INTEGER NOT NULL,
	elapsed_ms   INTEGER NOT NULL,
	created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// ResultsStore keeps autoplay results in a SQLite database.
type ResultsStore struct {
	db *sql.DB
}

func OpenResultsStore(ctx context.Context, path string) (*ResultsStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, createGamesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating games table: %w", err)
	}
	return &ResultsStore{db: db}, nil
}

func (s *ResultsStore) Insert(ctx context.Context, r GameResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (game_id, game_index, player1, player2, player1_side,
			p1_stones, p2_stones, turns, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Index, r.Player1, r.Player2, r.Player1Side.String(),
		r.P1Stones, r.P2Stones, r.Turns, r.Elapsed.Milliseconds())
	return err
}

// Results returns every stored game between the two named players, in the
// order they were played.
func (s *ResultsStore) Results(ctx context.Context, player1, player2 string) ([]GameResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, game_index, player1, player2, player1_side,
			p1_stones, p2_stones, turns, elapsed_ms
		FROM games WHERE player1 = ? AND player2 = ?
		ORDER BY rowid`, player1, player2)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var r GameResult
		var side string
		var elapsed int64
		if err := rows.Scan(&r.GameID, &r.Index, &r.Player1, &r.Player2, &side,
			&r.P1Stones, &r.P2Stones, &r.Turns, &elapsed); err != nil {
			return nil, err
		}
		c, err := board.ColorFromString(side)
		if err != nil {
			return nil, err
		}
		r.Player1Side = c
		r.Elapsed = time.Duration(elapsed) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *ResultsStore) Close() error {
	return s.db.Close()
}

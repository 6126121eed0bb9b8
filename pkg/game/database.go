package game

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"wrapsnake/pkg/logging"
)

// Store persists game results in a local sqlite database.
type Store struct {
	db *sql.DB
}

// Result is one finished game.
type Result struct {
	SessionID string
	Name      string
	Score     int
	FoodEaten int
	Length    int
	Won       bool
	Duration  time.Duration
}

// LeaderboardEntry is a row of the high-score list.
type LeaderboardEntry struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Won   bool      `json:"won"`
	Date  time.Time `json:"date"`
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	logging.L().Infow("score store open", "path", path)
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS leaderboard (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			score INTEGER,
			won INTEGER DEFAULT 0,
			date DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS game_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			name TEXT,
			score INTEGER,
			food_eaten INTEGER,
			length INTEGER,
			won INTEGER,
			duration_ms INTEGER,
			ended_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// SaveResult records a finished game in both tables.
func (s *Store) SaveResult(r Result) error {
	won := 0
	if r.Won {
		won = 1
	}
	if _, err := s.db.Exec(
		`INSERT INTO leaderboard (name, score, won) VALUES (?, ?, ?)`,
		r.Name, r.Score, won,
	); err != nil {
		return fmt.Errorf("save leaderboard row: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO game_sessions (session_id, name, score, food_eaten, length, won, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Name, r.Score, r.FoodEaten, r.Length, won, r.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("save session row: %w", err)
	}
	return nil
}

// TopScores returns the best n results, highest first.
func (s *Store) TopScores(n int) ([]LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT name, score, won, date FROM leaderboard ORDER BY score DESC, date ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var won int
		if err := rows.Scan(&e.Name, &e.Score, &won, &e.Date); err != nil {
			return nil, err
		}
		e.Won = won != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

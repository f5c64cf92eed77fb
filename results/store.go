// Package results persists game outcomes in a SQLite database and derives
// per-agent standings from them.
package results

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"skygrid/harness"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	seed       INTEGER NOT NULL,
	player_one TEXT    NOT NULL,
	player_two TEXT    NOT NULL,
	winner     TEXT    NOT NULL,
	turns      INTEGER NOT NULL,
	played_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS games_player_one ON games(player_one);
CREATE INDEX IF NOT EXISTS games_player_two ON games(player_two);
`

// Store is a results database. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing results db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// RecordGame inserts one finished game.
func (s *Store) RecordGame(r harness.GameResult) error {
	_, err := s.db.Exec(
		`INSERT INTO games (seed, player_one, player_two, winner, turns, played_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Seed, r.One, r.Two, r.WinnerName(), r.Turns, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording game: %w", err)
	}
	return nil
}

// Standing is one agent's aggregate record.
type Standing struct {
	Agent  string `json:"agent"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

// Standings aggregates every recorded game into per-agent records, sorted by
// wins descending.
func (s *Store) Standings() ([]Standing, error) {
	rows, err := s.db.Query(
		`SELECT agent,
		        COUNT(*),
		        SUM(CASE WHEN winner = agent THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner != agent AND winner != 'draw' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner = 'draw' THEN 1 ELSE 0 END)
		 FROM (
			SELECT player_one AS agent, winner FROM games
			UNION ALL
			SELECT player_two AS agent, winner FROM games
		 )
		 GROUP BY agent
		 ORDER BY 3 DESC, agent ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying standings: %w", err)
	}
	defer rows.Close()

	var standings []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Agent, &st.Games, &st.Wins, &st.Losses, &st.Draws); err != nil {
			return nil, fmt.Errorf("scanning standing: %w", err)
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}

// Package storage provides SQL persistence for scores and level runs.
// SQLite (pure-Go modernc.org/sqlite) is the default; a postgres:// DSN
// switches to PostgreSQL through lib/pq.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is the SQLite database used when no DSN is configured.
const DefaultPath = "~/.rockfall/scores.db"

// Dialect identifies the SQL backend behind a Store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Store manages the database connection for score persistence.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// LevelRun is one finished attempt at a level.
type LevelRun struct {
	ID        int64
	GameID    string
	LevelID   string
	Outcome   string // "complete", "crushed", "time_up", "abandoned"
	Diamonds  int
	Ticks     int
	TimeLeft  int
	CreatedAt time.Time
}

// LevelStats aggregates the runs of one level.
type LevelStats struct {
	LevelID      string
	Attempts     int
	Completions  int
	MostDiamonds int
	BestTimeLeft int // Highest time left over completed runs
}

// ParseDSN decides the dialect for dsn and returns the driver data source.
// postgres:// and postgresql:// URLs select PostgreSQL; anything else is a
// SQLite file path where a leading ~ expands to the home directory.
func ParseDSN(dsn string) (Dialect, string, error) {
	if dsn == "" {
		dsn = DefaultPath
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres, dsn, nil
	}
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if dsn == "" {
		return "", "", fmt.Errorf("storage: empty sqlite path")
	}
	if dsn[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dsn = filepath.Join(home, dsn[1:])
	}
	return DialectSQLite, dsn, nil
}

// Open connects to the database named by dsn and runs migrations.
// For SQLite the parent directories are created if needed.
func Open(dsn string) (*Store, error) {
	dialect, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	driver := "sqlite"
	if dialect == DialectPostgres {
		driver = "postgres"
	} else {
		dir := filepath.Dir(source)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: dialect}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// Dialect returns the backend in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	ts := "DATETIME DEFAULT CURRENT_TIMESTAMP"
	if s.dialect == DialectPostgres {
		id = "BIGSERIAL PRIMARY KEY"
		ts = "TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id ` + id + `,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at ` + ts + `
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC)`,
		`CREATE TABLE IF NOT EXISTS level_runs (
			id ` + id + `,
			game_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			diamonds INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			time_left INTEGER NOT NULL DEFAULT 0,
			created_at ` + ts + `
		)`,
		`CREATE INDEX IF NOT EXISTS idx_level_runs_level ON level_runs(level_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// insert runs an INSERT ... RETURNING id and returns the new ID.
func (s *Store) insert(query string, args ...any) (int64, error) {
	var id int64
	if err := s.db.QueryRow(s.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	id, err := s.insert("INSERT INTO scores (game_id, score) VALUES (?, ?)", gameID, score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
}

// AllScores retrieves all scores for the given game (no limit).
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	return s.queryScores(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC`,
		gameID,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		s.rebind("SELECT MAX(score) FROM scores WHERE game_id = ?"),
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores and runs for the given game.
func (s *Store) ClearScores(gameID string) error {
	for _, q := range []string{
		"DELETE FROM scores WHERE game_id = ?",
		"DELETE FROM level_runs WHERE game_id = ?",
	} {
		if _, err := s.db.Exec(s.rebind(q), gameID); err != nil {
			return fmt.Errorf("storage: cannot clear scores: %w", err)
		}
	}
	return nil
}

// SaveLevelRun records one finished level attempt.
func (s *Store) SaveLevelRun(run LevelRun) (int64, error) {
	id, err := s.insert(
		`INSERT INTO level_runs (game_id, level_id, outcome, diamonds, ticks, time_left)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.GameID, run.LevelID, run.Outcome, run.Diamonds, run.Ticks, run.TimeLeft,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save level run: %w", err)
	}
	return id, nil
}

// RecentRuns returns the latest runs of a game, newest first.
func (s *Store) RecentRuns(gameID string, limit int) ([]LevelRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(s.rebind(
		`SELECT id, game_id, level_id, outcome, diamonds, ticks, time_left, created_at
		 FROM level_runs
		 WHERE game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`),
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level runs: %w", err)
	}
	defer rows.Close()

	var runs []LevelRun
	for rows.Next() {
		var r LevelRun
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GameID, &r.LevelID, &r.Outcome, &r.Diamonds, &r.Ticks, &r.TimeLeft, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// LevelStatsFor aggregates the runs of one level.
func (s *Store) LevelStatsFor(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}
	err := s.db.QueryRow(s.rebind(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'complete' THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(diamonds), 0),
		        COALESCE(MAX(CASE WHEN outcome = 'complete' THEN time_left ELSE 0 END), 0)
		 FROM level_runs WHERE level_id = ?`),
		levelID,
	).Scan(&stats.Attempts, &stats.Completions, &stats.MostDiamonds, &stats.BestTimeLeft)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	return stats, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(s.rebind(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`),
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(s.rebind(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY id DESC LIMIT 1`),
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// parseTime handles both time.Time (PostgreSQL) and text (SQLite) timestamps.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	}
	return time.Time{}
}

func parseTimeString(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02T15:04:05Z"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"arcade-ai/engine"
)

const defaultLocalDBName = "arcade_local.db"

type sqliteService struct {
	db *sql.DB
}

func NewSQLiteServiceFromEnv() (Service, error) {
	dbPath := strings.TrimSpace(os.Getenv("ARCADE_DB_PATH"))
	if dbPath == "" {
		dbPath = filepath.Join("data", defaultLocalDBName)
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (Service, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteService{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS player_performance (
	player_id         TEXT PRIMARY KEY,
	games_played      INTEGER NOT NULL,
	total_score       INTEGER NOT NULL,
	average_score     REAL NOT NULL,
	best_score        INTEGER NOT NULL,
	wins              INTEGER NOT NULL,
	win_rate          REAL NOT NULL,
	smoothed_win_rate REAL NOT NULL,
	skill_rating      INTEGER NOT NULL,
	last_played       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tournaments (
	id         TEXT PRIMARY KEY,
	game_id    TEXT NOT NULL,
	status     INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tournaments_game ON tournaments(game_id);
`)
	return err
}

func (s *sqliteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteService) SavePerformance(ctx context.Context, data engine.PlayerPerformanceData) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO player_performance
	(player_id, games_played, total_score, average_score, best_score, wins, win_rate, smoothed_win_rate, skill_rating, last_played)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(player_id) DO UPDATE SET
	games_played = excluded.games_played,
	total_score = excluded.total_score,
	average_score = excluded.average_score,
	best_score = excluded.best_score,
	wins = excluded.wins,
	win_rate = excluded.win_rate,
	smoothed_win_rate = excluded.smoothed_win_rate,
	skill_rating = excluded.skill_rating,
	last_played = excluded.last_played`,
		data.PlayerID, data.GamesPlayed, data.TotalScore, data.AverageScore, data.BestScore,
		data.Wins, data.WinRate, data.SmoothedWinRate, data.SkillRating, data.LastPlayed.Unix())
	if err != nil {
		return fmt.Errorf("save performance for %s: %w", data.PlayerID, err)
	}
	return nil
}

func (s *sqliteService) GetPerformance(ctx context.Context, playerID string) (*engine.PlayerPerformanceData, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
SELECT player_id, games_played, total_score, average_score, best_score, wins, win_rate, smoothed_win_rate, skill_rating, last_played
FROM player_performance WHERE player_id = ?`, playerID)
	return scanPerformance(row)
}

func (s *sqliteService) ListPerformance(ctx context.Context) ([]engine.PlayerPerformanceData, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT player_id, games_played, total_score, average_score, best_score, wins, win_rate, smoothed_win_rate, skill_rating, last_played
FROM player_performance ORDER BY skill_rating DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.PlayerPerformanceData
	for rows.Next() {
		data, err := scanPerformance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *data)
	}
	return out, rows.Err()
}

func (s *sqliteService) SaveTournament(ctx context.Context, t engine.Tournament) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode tournament %s: %w", t.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO tournaments (id, game_id, status, payload, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET status = excluded.status, payload = excluded.payload`,
		t.ID, t.GameID, int(t.Status), string(payload), t.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("save tournament %s: %w", t.ID, err)
	}
	return nil
}

func (s *sqliteService) GetTournament(ctx context.Context, id string) (*engine.Tournament, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM tournaments WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t engine.Tournament
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return nil, fmt.Errorf("decode tournament %s: %w", id, err)
	}
	return &t, nil
}

func (s *sqliteService) PruneInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var total int64
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM player_performance WHERE last_played < ?`, cutoff.Unix())
	if err != nil {
		return total, err
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}

	res, err = s.db.ExecContext(ctx,
		`DELETE FROM tournaments WHERE status IN (?, ?) AND created_at < ?`,
		int(engine.TournamentStatusCompleted), int(engine.TournamentStatusCancelled), cutoff.Unix())
	if err != nil {
		return total, err
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerformance(row rowScanner) (*engine.PlayerPerformanceData, error) {
	var data engine.PlayerPerformanceData
	var lastPlayed int64
	err := row.Scan(&data.PlayerID, &data.GamesPlayed, &data.TotalScore, &data.AverageScore,
		&data.BestScore, &data.Wins, &data.WinRate, &data.SmoothedWinRate, &data.SkillRating, &lastPlayed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data.LastPlayed = time.Unix(lastPlayed, 0)
	return &data, nil
}

func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, 3*time.Second)
}

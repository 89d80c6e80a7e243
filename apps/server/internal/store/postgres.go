package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"arcade-ai/engine"
)

type postgresService struct {
	db *sql.DB
}

func NewPostgresServiceFromEnv() (Service, error) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for STORE_MODE=postgres")
	}
	return NewPostgresService(dsn)
}

func NewPostgresService(dsn string) (Service, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := ensurePostgresSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &postgresService{db: db}, nil
}

func ensurePostgresSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS player_performance (
	player_id         TEXT PRIMARY KEY,
	games_played      BIGINT NOT NULL,
	total_score       BIGINT NOT NULL,
	average_score     DOUBLE PRECISION NOT NULL,
	best_score        BIGINT NOT NULL,
	wins              BIGINT NOT NULL,
	win_rate          DOUBLE PRECISION NOT NULL,
	smoothed_win_rate DOUBLE PRECISION NOT NULL,
	skill_rating      BIGINT NOT NULL,
	last_played       BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS tournaments (
	id         TEXT PRIMARY KEY,
	game_id    TEXT NOT NULL,
	status     INTEGER NOT NULL,
	payload    JSONB NOT NULL,
	created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tournaments_game ON tournaments(game_id);
`)
	return err
}

func (s *postgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *postgresService) SavePerformance(ctx context.Context, data engine.PlayerPerformanceData) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO player_performance
	(player_id, games_played, total_score, average_score, best_score, wins, win_rate, smoothed_win_rate, skill_rating, last_played)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (player_id) DO UPDATE SET
	games_played = EXCLUDED.games_played,
	total_score = EXCLUDED.total_score,
	average_score = EXCLUDED.average_score,
	best_score = EXCLUDED.best_score,
	wins = EXCLUDED.wins,
	win_rate = EXCLUDED.win_rate,
	smoothed_win_rate = EXCLUDED.smoothed_win_rate,
	skill_rating = EXCLUDED.skill_rating,
	last_played = EXCLUDED.last_played`,
		data.PlayerID, data.GamesPlayed, data.TotalScore, data.AverageScore, data.BestScore,
		data.Wins, data.WinRate, data.SmoothedWinRate, data.SkillRating, data.LastPlayed.Unix())
	if err != nil {
		return fmt.Errorf("save performance for %s: %w", data.PlayerID, err)
	}
	return nil
}

func (s *postgresService) GetPerformance(ctx context.Context, playerID string) (*engine.PlayerPerformanceData, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
SELECT player_id, games_played, total_score, average_score, best_score, wins, win_rate, smoothed_win_rate, skill_rating, last_played
FROM player_performance WHERE player_id = $1`, playerID)
	return scanPerformance(row)
}

func (s *postgresService) ListPerformance(ctx context.Context) ([]engine.PlayerPerformanceData, error) {
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

func (s *postgresService) SaveTournament(ctx context.Context, t engine.Tournament) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode tournament %s: %w", t.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO tournaments (id, game_id, status, payload, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, payload = EXCLUDED.payload`,
		t.ID, t.GameID, int(t.Status), string(payload), t.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("save tournament %s: %w", t.ID, err)
	}
	return nil
}

func (s *postgresService) GetTournament(ctx context.Context, id string) (*engine.Tournament, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM tournaments WHERE id = $1`, id).Scan(&payload)
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

func (s *postgresService) PruneInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var total int64
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM player_performance WHERE last_played < $1`, cutoff.Unix())
	if err != nil {
		return total, err
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}

	res, err = s.db.ExecContext(ctx,
		`DELETE FROM tournaments WHERE status IN ($1, $2) AND created_at < $3`,
		int(engine.TournamentStatusCompleted), int(engine.TournamentStatusCancelled), cutoff.Unix())
	if err != nil {
		return total, err
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}
	return total, nil
}

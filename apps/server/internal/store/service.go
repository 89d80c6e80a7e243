// Package store persists player performance snapshots and tournament
// history for the opponent engine. The engine stays authoritative for live
// state; the store is a mirror the platform reads for profiles and
// leaderboards.
package store

import (
	"context"
	"time"

	"arcade-ai/engine"
)

type Service interface {
	SavePerformance(ctx context.Context, data engine.PlayerPerformanceData) error
	GetPerformance(ctx context.Context, playerID string) (*engine.PlayerPerformanceData, error)
	ListPerformance(ctx context.Context) ([]engine.PlayerPerformanceData, error)

	SaveTournament(ctx context.Context, t engine.Tournament) error
	GetTournament(ctx context.Context, id string) (*engine.Tournament, error)

	// PruneInactive removes performance rows not played since the cutoff
	// and finished tournaments created before it. Best-effort retention.
	PruneInactive(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}

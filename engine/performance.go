package engine

import (
	"math"
	"sync"
	"time"
)

// smoothingAlpha is the EWMA weight for the trend win rate used by the
// periodic adaptation sweep.
const smoothingAlpha = 0.2

// Skill rating blend weights. Monotonic in both inputs.
const (
	ratingAverageWeight = 0.1
	ratingLatestWeight  = 0.01
)

type playerStats struct {
	mu   sync.Mutex
	data PlayerPerformanceData
}

// Tracker owns per-human-player rolling statistics. Updates are serialized
// per player so concurrent result submissions cannot lose increments; reads
// for different players never contend.
type Tracker struct {
	mu      sync.RWMutex
	players map[string]*playerStats
}

func NewTracker() *Tracker {
	return &Tracker{players: make(map[string]*playerStats)}
}

func (t *Tracker) stats(playerID string) *playerStats {
	t.mu.RLock()
	ps := t.players[playerID]
	t.mu.RUnlock()
	if ps != nil {
		return ps
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if ps = t.players[playerID]; ps == nil {
		ps = &playerStats{data: PlayerPerformanceData{PlayerID: playerID}}
		t.players[playerID] = ps
	}
	return ps
}

// Record folds one game result into the player's aggregate and returns the
// updated snapshot. Creates the aggregate lazily on first submission.
func (t *Tracker) Record(result GameResult) PlayerPerformanceData {
	ps := t.stats(result.PlayerID)

	ps.mu.Lock()
	defer ps.mu.Unlock()

	d := &ps.data
	first := d.GamesPlayed == 0
	d.GamesPlayed++
	d.TotalScore += int64(result.Score)
	d.AverageScore = float64(d.TotalScore) / float64(d.GamesPlayed)
	if result.Score > d.BestScore {
		d.BestScore = result.Score
	}
	if result.Won {
		d.Wins++
	}
	d.WinRate = float64(d.Wins) / float64(d.GamesPlayed)

	outcome := 0.0
	if result.Won {
		outcome = 1.0
	}
	if first {
		d.SmoothedWinRate = outcome
	} else {
		d.SmoothedWinRate = (1-smoothingAlpha)*d.SmoothedWinRate + smoothingAlpha*outcome
	}

	d.SkillRating = skillRating(d.AverageScore, result.Score)
	if result.PlayedAt.IsZero() {
		d.LastPlayed = time.Now()
	} else {
		d.LastPlayed = result.PlayedAt
	}
	return *d
}

// skillRating blends historical average score with the latest result.
func skillRating(averageScore float64, latestScore int) int {
	return int(math.Round(ratingAverageWeight*averageScore + ratingLatestWeight*float64(latestScore)))
}

// Get returns a snapshot of a player's aggregate, or false if the player
// has never submitted a result.
func (t *Tracker) Get(playerID string) (PlayerPerformanceData, bool) {
	t.mu.RLock()
	ps := t.players[playerID]
	t.mu.RUnlock()
	if ps == nil {
		return PlayerPerformanceData{}, false
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.data, true
}

// eligible returns snapshots for every player with at least minGames
// recorded, for the periodic sweep.
func (t *Tracker) eligible(minGames int) []PlayerPerformanceData {
	t.mu.RLock()
	all := make([]*playerStats, 0, len(t.players))
	for _, ps := range t.players {
		all = append(all, ps)
	}
	t.mu.RUnlock()

	var out []PlayerPerformanceData
	for _, ps := range all {
		ps.mu.Lock()
		if ps.data.GamesPlayed >= minGames {
			out = append(out, ps.data)
		}
		ps.mu.Unlock()
	}
	return out
}

// pruneInactive deletes aggregates whose last game predates the cutoff.
// Best-effort cleanup; returns how many players were dropped.
func (t *Tracker) pruneInactive(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	dropped := 0
	for id, ps := range t.players {
		ps.mu.Lock()
		stale := !ps.data.LastPlayed.IsZero() && ps.data.LastPlayed.Before(cutoff)
		ps.mu.Unlock()
		if stale {
			delete(t.players, id)
			dropped++
		}
	}
	return dropped
}

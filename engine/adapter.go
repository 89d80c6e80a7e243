package engine

import (
	"log"
	"time"
)

// Win-rate thresholds mapping a player's trend to the target tier for their
// adaptive opponents. Both the post-result trigger and the periodic sweep
// use the same mapping.
const (
	hardWinRate   = 0.8
	mediumWinRate = 0.6
)

func targetDifficulty(winRate float64) Difficulty {
	switch {
	case winRate > hardWinRate:
		return DifficultyHard
	case winRate > mediumWinRate:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// Adapter is the closed-loop difficulty controller. It inspects a human
// player's performance and retunes the adaptive opponents linked to them,
// converging idempotently: an unchanged win rate produces no replacement
// and no event.
type Adapter struct {
	registry *Registry
	tracker  *Tracker
	bus      *Bus
	minGames int
}

func NewAdapter(registry *Registry, tracker *Tracker, bus *Bus, minGames int) *Adapter {
	return &Adapter{registry: registry, tracker: tracker, bus: bus, minGames: minGames}
}

// Evaluate retunes every adaptive opponent linked to the player toward the
// tier implied by winRate. Already-matching opponents are untouched.
func (a *Adapter) Evaluate(playerID string, winRate float64) {
	target := targetDifficulty(winRate)
	for _, op := range a.registry.byHumanPlayer(playerID) {
		prev, changed := op.retune(target)
		if !changed {
			continue
		}
		op.mu.Lock()
		opponentID := op.player.ID
		op.mu.Unlock()
		log.Printf("[Adapter] Player %s winRate=%.2f: opponent %s %s -> %s",
			playerID, winRate, opponentID, prev, target)
		a.bus.Publish(LearningUpdated{
			PlayerID:   playerID,
			OpponentID: opponentID,
			Previous:   prev,
			Next:       target,
			WinRate:    winRate,
			At:         time.Now(),
		})
	}
}

// Sweep re-evaluates every player with enough recorded games, using the
// smoothed win rate rather than the instantaneous one. A panic while
// evaluating one player must not abort the rest of the batch.
func (a *Adapter) Sweep() {
	for _, data := range a.tracker.eligible(a.minGames) {
		a.evaluateSafe(data.PlayerID, data.SmoothedWinRate)
	}
}

func (a *Adapter) evaluateSafe(playerID string, winRate float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Adapter] Sweep evaluation panicked for player %s: %v", playerID, r)
		}
	}()
	a.Evaluate(playerID, winRate)
}

// Package engine implements the offline AI opponent engine: opponent
// creation with difficulty and personality, heuristic move selection,
// performance tracking with closed-loop difficulty adaptation, and offline
// tournament scheduling.
//
// Rendering, per-game rules and persistence belong to the calling game
// modules; the engine only weighs the heuristic inputs they supply.
package engine

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// Engine is the facade owning every component and their lifecycle.
// Create with New, then Start to run the background sweeps and Stop to
// tear everything down.
type Engine struct {
	cfg         Config
	profiles    *ProfileLibrary
	registry    *Registry
	tracker     *Tracker
	adapter     *Adapter
	tournaments *Scheduler
	bus         *Bus

	seedMu sync.Mutex
	seeds  *rand.Rand

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	bus := NewBus(cfg.EventBuffer)
	registry := NewRegistry()
	tracker := NewTracker()

	e := &Engine{
		cfg:         cfg,
		profiles:    NewProfileLibrary(),
		registry:    registry,
		tracker:     tracker,
		adapter:     NewAdapter(registry, tracker, bus, cfg.AdaptMinGames),
		tournaments: NewScheduler(bus),
		bus:         bus,
		seeds:       rand.New(rand.NewSource(seed)),
		done:        make(chan struct{}),
	}
	return e, nil
}

// Start launches the periodic adaptation sweep and, when a retention
// horizon is configured, the low-priority retention sweep.
func (e *Engine) Start() {
	e.wg.Add(1)
	go e.adaptLoop()
	if e.cfg.RetentionHorizon > 0 {
		e.wg.Add(1)
		go e.retentionLoop()
	}
	log.Printf("[Engine] Started: adapt every %s (min %d games), retention=%s",
		e.cfg.AdaptInterval, e.cfg.AdaptMinGames, e.cfg.RetentionHorizon)
}

// Stop cancels the background sweeps and closes the event channel.
// Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.done)
		e.wg.Wait()
		e.bus.Close()
		log.Printf("[Engine] Stopped")
	})
}

func (e *Engine) adaptLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.AdaptInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.adapter.Sweep()
		case <-e.done:
			return
		}
	}
}

func (e *Engine) retentionLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.RetentionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-e.cfg.RetentionHorizon)
			players := e.tracker.pruneInactive(cutoff)
			tournaments := e.tournaments.pruneFinished(cutoff)
			if players > 0 || tournaments > 0 {
				log.Printf("[Engine] Retention sweep dropped %d players, %d tournaments", players, tournaments)
			}
		case <-e.done:
			return
		}
	}
}

// Profiles exposes the behavior profile library so game modules can overlay
// their own per-game profiles at startup.
func (e *Engine) Profiles() *ProfileLibrary { return e.profiles }

// Subscribe registers a listener on the engine's event stream.
func (e *Engine) Subscribe() (<-chan Event, func()) { return e.bus.Subscribe() }

// CreateOpponent creates a non-adaptive AI opponent for a game.
func (e *Engine) CreateOpponent(gameID string, difficulty Difficulty, personality Personality) *AIPlayer {
	return e.createOpponent(gameID, difficulty, personality, "")
}

// CreateAdaptiveOpponent creates an opponent linked to a human player; the
// difficulty adapter may retune it as that player's performance evolves.
func (e *Engine) CreateAdaptiveOpponent(gameID string, difficulty Difficulty, personality Personality, playerID string) *AIPlayer {
	return e.createOpponent(gameID, difficulty, personality, playerID)
}

func (e *Engine) createOpponent(gameID string, difficulty Difficulty, personality Personality, playerID string) *AIPlayer {
	player := &AIPlayer{
		ID:          newOpponentID(),
		GameID:      gameID,
		Difficulty:  difficulty,
		Personality: personality,
		SkillLevel:  baseSkillLevel[difficulty],
		Adaptive:    playerID != "",
		PlayerID:    playerID,
		CreatedAt:   time.Now(),
	}
	profile := e.profiles.Lookup(gameID, personality)

	e.seedMu.Lock()
	seed := e.seeds.Int63()
	e.seedMu.Unlock()

	e.registry.add(player, profile, seed)
	log.Printf("[Engine] Created opponent %s: game=%s tier=%s personality=%s",
		player.ID, gameID, difficulty, personality)
	e.bus.Publish(OpponentCreated{Opponent: *player, At: player.CreatedAt})
	return player
}

// Opponent returns a snapshot of a live opponent, or nil if unknown.
func (e *Engine) Opponent(id string) *AIPlayer { return e.registry.Get(id) }

// OpponentCount returns the number of live opponents.
func (e *Engine) OpponentCount() int { return e.registry.Count() }

// RemoveOpponent drops an opponent when its game session ends.
func (e *Engine) RemoveOpponent(id string) { e.registry.Remove(id) }

// SelectMove picks one of the legal moves for an opponent per its current
// difficulty policy. Returns nil for an unknown opponent or an empty move
// list: no decision possible, never a crash. The game state is accepted for
// the contract but not consulted — the heuristic inputs arrive precomputed
// on each move.
func (e *Engine) SelectMove(opponentID string, state GameState, legalMoves []GameMove) *GameMove {
	_ = state
	op := e.registry.get(opponentID)
	if op == nil {
		log.Printf("[Engine] SelectMove for unknown opponent %s", opponentID)
		return nil
	}
	if len(legalMoves) == 0 {
		return nil
	}
	return op.selectMove(legalMoves)
}

// RecordResult folds a finished game into the player's statistics and
// immediately re-evaluates their opponents' difficulty. Fire and forget:
// malformed results are logged no-ops.
func (e *Engine) RecordResult(result GameResult) {
	if result.PlayerID == "" {
		log.Printf("[Engine] Ignoring result with empty player id (game=%s)", result.GameID)
		return
	}
	data := e.tracker.Record(result)
	e.adapter.evaluateSafe(result.PlayerID, data.WinRate)
}

// Performance returns a snapshot of a player's aggregate, or nil if the
// player has never submitted a result.
func (e *Engine) Performance(playerID string) *PlayerPerformanceData {
	data, ok := e.tracker.Get(playerID)
	if !ok {
		return nil
	}
	return &data
}

// StartTournament creates an offline tournament over the given players.
func (e *Engine) StartTournament(gameID string, players []string, format TournamentFormat) (Tournament, error) {
	return e.tournaments.Start(gameID, players, format)
}

// ReportMatchResult advances bracket state with one completed match.
// Returns the updated tournament snapshot, or nil if the id is unknown.
func (e *Engine) ReportMatchResult(tournamentID string, match TournamentMatch) *Tournament {
	return e.tournaments.Report(tournamentID, match)
}

// Tournament returns a snapshot of a tournament, or nil if unknown.
func (e *Engine) Tournament(id string) *Tournament { return e.tournaments.Get(id) }

// CancelTournament cancels a tournament that has not completed.
func (e *Engine) CancelTournament(id string) *Tournament { return e.tournaments.Cancel(id) }

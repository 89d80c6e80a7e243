// Command arena runs an offline simulation against the opponent engine:
// it creates a roster of AI opponents, drives synthetic games to show the
// difficulty adapter converging, then plays one tournament to completion.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"arcade-ai/engine"
)

func main() {
	var (
		gameID  = flag.String("game", "sudoku-classic", "game identifier")
		games   = flag.Int("games", 40, "synthetic games per player")
		players = flag.Int("players", 5, "tournament entrants")
		format  = flag.String("format", "single", "tournament format: single|roundrobin|double")
		seed    = flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	)
	flag.Parse()

	tf, err := parseFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	e, err := engine.New(engine.Config{Seed: *seed})
	if err != nil {
		log.Fatalf("[Arena] Engine init failed: %v", err)
	}
	e.Start()
	defer e.Stop()

	events, cancel := e.Subscribe()
	defer cancel()
	go func() {
		for ev := range events {
			log.Printf("[Arena] Event: %s", ev.Kind())
		}
	}()

	simSeed := *seed
	if simSeed == 0 {
		simSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(simSeed))

	// Two synthetic humans with very different strength, each with a linked
	// adaptive opponent. The strong player should be pushed to HARD, the
	// weak one down to EASY.
	runSeason(e, rng, *gameID, "strong-player", 0.9, *games)
	runSeason(e, rng, *gameID, "weak-player", 0.2, *games)

	for _, id := range []string{"strong-player", "weak-player"} {
		if data := e.Performance(id); data != nil {
			fmt.Printf("%-14s games=%-3d winRate=%.2f avg=%.1f best=%d rating=%d\n",
				id, data.GamesPlayed, data.WinRate, data.AverageScore, data.BestScore, data.SkillRating)
		}
	}

	runTournament(e, rng, *gameID, *players, tf)
}

func parseFormat(s string) (engine.TournamentFormat, error) {
	switch s {
	case "single":
		return engine.FormatSingleElimination, nil
	case "roundrobin":
		return engine.FormatRoundRobin, nil
	case "double":
		return engine.FormatDoubleElimination, nil
	default:
		return 0, fmt.Errorf("unknown format %q (single|roundrobin|double)", s)
	}
}

// runSeason plays synthetic games for one human at a fixed true strength
// and reports how the linked opponent's difficulty ends up.
func runSeason(e *engine.Engine, rng *rand.Rand, gameID, playerID string, strength float64, games int) {
	op := e.CreateAdaptiveOpponent(gameID, engine.DifficultyMedium, engine.PersonalityBalanced, playerID)

	for i := 0; i < games; i++ {
		moves := randomMoves(rng, 4)
		if mv := e.SelectMove(op.ID, engine.GameState{GameID: gameID, Turn: i + 1}, moves); mv == nil {
			log.Fatalf("[Arena] SelectMove failed for %s", op.ID)
		}

		won := rng.Float64() < strength
		score := 40 + rng.Intn(60)
		if won {
			score += 100
		}
		e.RecordResult(engine.GameResult{
			GameID:     gameID,
			PlayerID:   playerID,
			OpponentID: op.ID,
			Score:      score,
			Won:        won,
			Duration:   time.Duration(30+rng.Intn(300)) * time.Second,
			MoveCount:  10 + rng.Intn(50),
			PlayedAt:   time.Now(),
		})
	}

	final := e.Opponent(op.ID)
	fmt.Printf("%-14s strength=%.1f opponent tier: %s -> %s\n",
		playerID, strength, engine.DifficultyMedium, final.Difficulty)
}

// runTournament drives a bracket to completion with random winners.
func runTournament(e *engine.Engine, rng *rand.Rand, gameID string, entrants int, format engine.TournamentFormat) {
	names := make([]string, entrants)
	for i := range names {
		names[i] = fmt.Sprintf("entrant-%d", i+1)
	}

	tm, err := e.StartTournament(gameID, names, format)
	if err != nil {
		log.Fatalf("[Arena] StartTournament failed: %v", err)
	}
	fmt.Printf("tournament %s: format=%s rounds=%d\n", tm.ID, format, tm.TotalRounds)

	cur := &tm
	for cur.Status == engine.TournamentStatusInProgress {
		home := names[rng.Intn(len(names))]
		away := names[rng.Intn(len(names))]
		for away == home {
			away = names[rng.Intn(len(names))]
		}
		winner := home
		if rng.Intn(2) == 1 {
			winner = away
		}
		cur = e.ReportMatchResult(tm.ID, engine.TournamentMatch{
			Round:    cur.CurrentRound,
			HomeID:   home,
			AwayID:   away,
			WinnerID: winner,
			Scores:   map[string]int{home: rng.Intn(10), away: rng.Intn(10)},
		})
		if cur == nil {
			log.Fatalf("[Arena] tournament vanished mid-run")
		}
	}
	fmt.Printf("tournament finished: status=%s matches=%d\n", cur.Status, len(cur.Matches))
}

func randomMoves(rng *rand.Rand, n int) []engine.GameMove {
	moves := make([]engine.GameMove, n)
	for i := range moves {
		moves[i] = engine.GameMove{
			ID:             fmt.Sprintf("move-%d", i+1),
			Reward:         rng.Float64(),
			StrategicValue: rng.Float64(),
			Risk:           rng.Float64(),
		}
	}
	return moves
}

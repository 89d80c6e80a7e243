package engine

import (
	"testing"
	"time"
)

func TestCreateOpponentAssignsSkillAndEmitsEvent(t *testing.T) {
	e, err := New(Config{Seed: 9})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	events, cancel := e.Subscribe()
	defer cancel()

	op := e.CreateOpponent("sudoku-classic", DifficultyMedium, PersonalityStrategic)
	if op.ID == "" {
		t.Fatal("opponent id not allocated")
	}
	if op.Adaptive {
		t.Fatal("unlinked opponent must not be adaptive")
	}
	if op.SkillLevel != baseSkillLevel[DifficultyMedium] {
		t.Fatalf("initial skill: got %d, want %d", op.SkillLevel, baseSkillLevel[DifficultyMedium])
	}

	ev := <-events
	created, ok := ev.(OpponentCreated)
	if !ok || created.Opponent.ID != op.ID {
		t.Fatalf("expected OpponentCreated for %s, got %v", op.ID, ev.Kind())
	}
	if e.OpponentCount() != 1 {
		t.Fatalf("registry count: got %d, want 1", e.OpponentCount())
	}
}

func TestSkillLevelsMonotonicAcrossTiers(t *testing.T) {
	tiers := []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
	for i := 1; i < len(tiers); i++ {
		if baseSkillLevel[tiers[i-1]] >= baseSkillLevel[tiers[i]] {
			t.Fatalf("skill mapping not monotonic at %s", tiers[i])
		}
	}
}

func TestSelectMoveUnknownOpponentAndEmptyMoves(t *testing.T) {
	e, err := New(Config{Seed: 10})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	if mv := e.SelectMove("ghost", GameState{}, gradedMoves()); mv != nil {
		t.Fatalf("unknown opponent: got %+v, want nil", mv)
	}

	op := e.CreateOpponent("sudoku-classic", DifficultyExpert, PersonalityBalanced)
	if mv := e.SelectMove(op.ID, GameState{}, nil); mv != nil {
		t.Fatalf("empty legal moves: got %+v, want nil", mv)
	}
}

// End-to-end scenario from the product contract: an EASY opponent for
// sudoku-classic must spread its picks across all three graded moves
// instead of locking onto the top score.
func TestEasyOpponentEndToEnd(t *testing.T) {
	e, err := New(Config{Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	op := e.CreateOpponent("sudoku-classic", DifficultyEasy, PersonalityBalanced)
	state := GameState{GameID: "sudoku-classic", CurrentPlayer: op.ID, Turn: 1}
	moves := gradedMoves()

	const rounds = 1500
	counts := make(map[string]int)
	for i := 0; i < rounds; i++ {
		mv := e.SelectMove(op.ID, state, moves)
		if mv == nil {
			t.Fatalf("nil move on trial %d", i)
		}
		counts[mv.ID]++
	}

	for id, n := range counts {
		if n < 380 || n > 620 {
			t.Fatalf("EASY end-to-end pick count for %q out of range: %d", id, n)
		}
	}
}

func TestExpertOpponentEndToEndDeterministic(t *testing.T) {
	e, err := New(Config{Seed: 43})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	op := e.CreateOpponent("chess-blitz", DifficultyExpert, PersonalityBalanced)
	moves := gradedMoves()
	for i := 0; i < 300; i++ {
		mv := e.SelectMove(op.ID, GameState{}, moves)
		if mv == nil || mv.ID != "best" {
			t.Fatalf("EXPERT trial %d picked %v", i, mv)
		}
	}
}

func TestSelectMoveDoesNotBlockDuringRetune(t *testing.T) {
	e, err := New(Config{Seed: 44})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	op := e.CreateAdaptiveOpponent("arcade-sprint", DifficultyMedium, PersonalityBalanced, "p9")
	moves := gradedMoves()

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				e.adapter.Evaluate("p9", 0.9)
				e.adapter.Evaluate("p9", 0.1)
			}
		}
	}()

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if mv := e.SelectMove(op.ID, GameState{}, moves); mv == nil {
			close(stop)
			t.Fatal("SelectMove returned nil during retune churn")
		}
	}
	close(stop)
}

func TestStopIsIdempotentAndStopsSweep(t *testing.T) {
	e, err := New(Config{Seed: 45, AdaptInterval: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	e.Start()
	time.Sleep(30 * time.Millisecond)
	e.Stop()
	e.Stop()
}

func TestConfigValidation(t *testing.T) {
	if _, err := New(Config{AdaptMinGames: -1}); err == nil {
		t.Fatal("negative AdaptMinGames accepted")
	}
	if _, err := New(Config{EventBuffer: -5}); err == nil {
		t.Fatal("negative EventBuffer accepted")
	}
}

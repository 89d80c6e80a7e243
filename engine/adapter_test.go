package engine

import (
	"testing"
)

func TestTargetDifficultyThresholds(t *testing.T) {
	cases := []struct {
		winRate float64
		want    Difficulty
	}{
		{0.85, DifficultyHard},
		{0.81, DifficultyHard},
		{0.8, DifficultyMedium},
		{0.65, DifficultyMedium},
		{0.6, DifficultyEasy},
		{0.4, DifficultyEasy},
		{0.1, DifficultyEasy},
		{0.0, DifficultyEasy},
	}
	for _, c := range cases {
		if got := targetDifficulty(c.winRate); got != c.want {
			t.Fatalf("winRate %.2f: got %s, want %s", c.winRate, got, c.want)
		}
	}
}

func drainLearningEvents(ch <-chan Event) []LearningUpdated {
	var out []LearningUpdated
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			if lu, isLU := ev.(LearningUpdated); isLU {
				out = append(out, lu)
			}
		default:
			return out
		}
	}
}

func TestAdapterConvergesAndStaysIdempotent(t *testing.T) {
	e, err := New(Config{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	op := e.CreateAdaptiveOpponent("sudoku-classic", DifficultyMedium, PersonalityBalanced, "p1")

	events, cancel := e.Subscribe()
	defer cancel()

	// 17 wins then 3 losses: win rate never leaves the HARD band after the
	// first result, so exactly one retune may fire.
	for i := 0; i < 17; i++ {
		e.RecordResult(GameResult{PlayerID: "p1", OpponentID: op.ID, Score: 100, Won: true})
	}
	for i := 0; i < 3; i++ {
		e.RecordResult(GameResult{PlayerID: "p1", OpponentID: op.ID, Score: 20, Won: false})
	}

	got := e.Opponent(op.ID)
	if got == nil {
		t.Fatal("opponent vanished from registry")
	}
	if got.Difficulty != DifficultyHard {
		t.Fatalf("difficulty after 0.85 win rate: got %s, want HARD", got.Difficulty)
	}
	if got.SkillLevel != op.SkillLevel || got.Personality != op.Personality || got.GameID != op.GameID {
		t.Fatal("difficulty retune changed fields other than the tier")
	}

	updates := drainLearningEvents(events)
	if len(updates) != 1 {
		t.Fatalf("learning events: got %d, want exactly 1", len(updates))
	}
	if updates[0].Previous != DifficultyMedium || updates[0].Next != DifficultyHard {
		t.Fatalf("learning event tiers: got %s -> %s", updates[0].Previous, updates[0].Next)
	}

	// Fixed point: re-evaluating the same win rate must emit nothing.
	e.adapter.Evaluate("p1", 0.85)
	e.adapter.Evaluate("p1", 0.85)
	if extra := drainLearningEvents(events); len(extra) != 0 {
		t.Fatalf("idempotent re-evaluation emitted %d events", len(extra))
	}
}

func TestAdapterIgnoresNonAdaptiveOpponents(t *testing.T) {
	e, err := New(Config{Seed: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	op := e.CreateOpponent("word-builder", DifficultyEasy, PersonalityDefensive)
	for i := 0; i < 12; i++ {
		e.RecordResult(GameResult{PlayerID: "p2", OpponentID: op.ID, Score: 90, Won: true})
	}

	if got := e.Opponent(op.ID); got.Difficulty != DifficultyEasy {
		t.Fatalf("unlinked opponent was retuned to %s", got.Difficulty)
	}
}

func TestAdapterSweepUsesSmoothedRate(t *testing.T) {
	e, err := New(Config{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	op := e.CreateAdaptiveOpponent("arcade-sprint", DifficultyHard, PersonalityAggressive, "p3")
	// A long losing streak drags both rates down; the sweep alone must be
	// enough to ease the opponent off HARD.
	for i := 0; i < 15; i++ {
		e.RecordResult(GameResult{PlayerID: "p3", OpponentID: op.ID, Score: 5, Won: false})
	}

	e.adapter.Sweep()
	if got := e.Opponent(op.ID); got.Difficulty != DifficultyEasy {
		t.Fatalf("difficulty after losing streak sweep: got %s, want EASY", got.Difficulty)
	}
}

func TestRecordResultIgnoresEmptyPlayerID(t *testing.T) {
	e, err := New(Config{Seed: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Stop()

	e.RecordResult(GameResult{GameID: "sudoku-classic", Score: 10, Won: true})
	if e.Performance("") != nil {
		t.Fatal("malformed result created an aggregate")
	}
}

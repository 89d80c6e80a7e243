package engine

import (
	"math/rand"
	"testing"
)

// Moves scored roughly [10, 5, 1] under the balanced profile.
func gradedMoves() []GameMove {
	return []GameMove{
		{ID: "best", Reward: 1.0},
		{ID: "mid", Reward: 0.5},
		{ID: "worst", Reward: 0.1},
	}
}

func TestEasySelectionIsUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	profile := &BehaviorProfile{Aggression: 0.5, Defense: 0.5}
	moves := gradedMoves()

	const rounds = 3000
	counts := make(map[string]int)
	for i := 0; i < rounds; i++ {
		idx := pickMoveIndex(rng, DifficultyEasy, moves, profile)
		counts[moves[idx].ID]++
	}

	// Uniform over 3 moves: each ~1000. Generous bounds, fixed seed.
	for id, n := range counts {
		if n < 850 || n > 1150 {
			t.Fatalf("EASY pick count for %q out of uniform range: %d", id, n)
		}
	}
	if counts["worst"] == 0 {
		t.Fatal("EASY never picked the lowest-scored move")
	}
}

func TestExpertSelectionIsDeterministicTopMove(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	profile := &BehaviorProfile{Aggression: 0.5, Defense: 0.5}
	moves := gradedMoves()

	for i := 0; i < 500; i++ {
		idx := pickMoveIndex(rng, DifficultyExpert, moves, profile)
		if moves[idx].ID != "best" {
			t.Fatalf("EXPERT picked %q on trial %d, want best", moves[idx].ID, i)
		}
	}
}

func TestHardTopMoveRate(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	profile := &BehaviorProfile{Aggression: 0.5, Defense: 0.5}
	moves := gradedMoves()

	const rounds = 2000
	top := 0
	for i := 0; i < rounds; i++ {
		if idx := pickMoveIndex(rng, DifficultyHard, moves, profile); moves[idx].ID == "best" {
			top++
		}
	}

	// Nominal 0.9 direct + 0.1/3 via the uniform fallback ≈ 0.933.
	rate := float64(top) / float64(rounds)
	if rate < 0.85 || rate > 0.95 {
		t.Fatalf("HARD top-move rate out of range: got %.3f, want [0.85, 0.95]", rate)
	}
}

func TestMediumTopMoveRate(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	profile := &BehaviorProfile{Aggression: 0.5, Defense: 0.5}
	moves := gradedMoves()

	const rounds = 2000
	top := 0
	for i := 0; i < rounds; i++ {
		if idx := pickMoveIndex(rng, DifficultyMedium, moves, profile); moves[idx].ID == "best" {
			top++
		}
	}

	// Nominal 0.7 direct + 0.3/3 via the uniform fallback = 0.8.
	rate := float64(top) / float64(rounds)
	if rate < 0.74 || rate > 0.86 {
		t.Fatalf("MEDIUM top-move rate out of range: got %.3f, want [0.74, 0.86]", rate)
	}
}

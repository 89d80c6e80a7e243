package engine

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreMoveBalancedWeights(t *testing.T) {
	profile := &BehaviorProfile{Personality: PersonalityBalanced, Aggression: 0.5, Defense: 0.5}
	move := GameMove{ID: "m", Reward: 1.0, StrategicValue: 0.5, Risk: 0.4}

	got := scoreMove(move, profile)
	want := 10.0*1.0 + 5.0*0.5 - 3.0*0.4
	if !almostEqual(got, want) {
		t.Fatalf("balanced score: got %.4f, want %.4f", got, want)
	}
}

func TestScoreMoveStanceAdjustment(t *testing.T) {
	move := GameMove{ID: "m", Reward: 0.5, StrategicValue: 0.5, Risk: 0.6}
	base := scoreMove(move, &BehaviorProfile{Aggression: 0.5, Defense: 0.5})

	aggressive := scoreMove(move, &BehaviorProfile{Aggression: 0.9, Defense: 0.2})
	if !almostEqual(aggressive-base, 2.0*move.Risk) {
		t.Fatalf("aggressive adjustment: got %+.4f, want %+.4f", aggressive-base, 2.0*move.Risk)
	}

	defensive := scoreMove(move, &BehaviorProfile{Aggression: 0.2, Defense: 0.9})
	if !almostEqual(base-defensive, 2.0*move.Risk) {
		t.Fatalf("defensive adjustment: got %+.4f, want %+.4f", base-defensive, 2.0*move.Risk)
	}
}

func TestBestMoveIndexTieBreaksFirstInOrder(t *testing.T) {
	profile := &BehaviorProfile{Aggression: 0.5, Defense: 0.5}
	moves := []GameMove{
		{ID: "a", Reward: 0.5},
		{ID: "b", Reward: 0.5}, // identical score, must lose the tie
		{ID: "c", Reward: 0.1},
	}
	for i := 0; i < 100; i++ {
		if idx := bestMoveIndex(moves, profile); idx != 0 {
			t.Fatalf("tie break: got index %d, want 0", idx)
		}
	}
}

func TestBestMoveIndexPrefersHighReward(t *testing.T) {
	profile := &BehaviorProfile{Aggression: 0.5, Defense: 0.5}
	moves := []GameMove{
		{ID: "small", Reward: 0.1},
		{ID: "big", Reward: 1.0},
		{ID: "risky", Reward: 1.0, Risk: 0.9},
	}
	if idx := bestMoveIndex(moves, profile); moves[idx].ID != "big" {
		t.Fatalf("best move: got %s, want big", moves[idx].ID)
	}
}

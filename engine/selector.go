package engine

import "math/rand"

// pickMoveIndex applies the tier policy to a non-empty candidate list:
// EASY picks uniformly at random, EXPERT always takes the top-scored move,
// MEDIUM/HARD take the top move with their tier probability and fall back
// to a uniform pick otherwise.
//
// The RNG is owned by the opponent instance and seeded at creation, so a
// fixed seed replays the exact same decision sequence.
func pickMoveIndex(rng *rand.Rand, tier Difficulty, moves []GameMove, profile *BehaviorProfile) int {
	if tier == DifficultyExpert {
		return bestMoveIndex(moves, profile)
	}
	if p := topMoveProbability[tier]; p > 0 && rng.Float64() < p {
		return bestMoveIndex(moves, profile)
	}
	return rng.Intn(len(moves))
}

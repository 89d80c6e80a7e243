package engine

// Move scoring weights. The same function serves every difficulty tier;
// only move *selection* differs per tier (see selector.go).
const (
	rewardWeight    = 10.0
	strategicWeight = 5.0
	riskWeight      = 3.0
	stanceRiskBonus = 2.0
)

// scoreMove computes the desirability of a single candidate move under a
// behavior profile.
func scoreMove(m GameMove, profile *BehaviorProfile) float64 {
	score := rewardWeight*m.Reward + strategicWeight*m.StrategicValue - riskWeight*m.Risk
	switch profile.stance() {
	case stanceAggressive:
		score += stanceRiskBonus * m.Risk
	case stanceDefensive:
		score -= stanceRiskBonus * m.Risk
	}
	return score
}

// bestMoveIndex returns the index of the highest-scored move.
// Ties break toward the earliest move in input order, so identical inputs
// always produce identical output.
func bestMoveIndex(moves []GameMove, profile *BehaviorProfile) int {
	best := 0
	bestScore := scoreMove(moves[0], profile)
	for i := 1; i < len(moves); i++ {
		if s := scoreMove(moves[i], profile); s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}

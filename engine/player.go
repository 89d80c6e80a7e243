package engine

import (
	"encoding/json"
	"time"
)

// AIPlayer is a live computer-controlled opponent.
// Immutable once created except for Difficulty, which the adapter replaces
// copy-on-write via the registry (never mutated in place).
type AIPlayer struct {
	ID          string      `json:"id"`
	GameID      string      `json:"gameId"`
	Difficulty  Difficulty  `json:"difficulty"`
	Personality Personality `json:"personality"`
	SkillLevel  int         `json:"skillLevel"`
	Adaptive    bool        `json:"adaptive"`
	PlayerID    string      `json:"playerId,omitempty"` // linked human player, empty if none
	CreatedAt   time.Time   `json:"createdAt"`
}

// withDifficulty returns a copy carrying the new tier. No other field changes.
func (p *AIPlayer) withDifficulty(d Difficulty) *AIPlayer {
	next := *p
	next.Difficulty = d
	return &next
}

// GameState is the caller-supplied view of a game in progress.
// The engine never mutates it; Board stays opaque to the engine.
type GameState struct {
	GameID        string          `json:"gameId"`
	CurrentPlayer string          `json:"currentPlayer"`
	Turn          int             `json:"turn"`
	TimeRemaining time.Duration   `json:"timeRemaining"`
	Scores        map[string]int  `json:"scores"`
	Board         json.RawMessage `json:"board,omitempty"`
}

// GameMove is a candidate action with heuristic inputs precomputed by the
// game module. The engine only weighs them.
type GameMove struct {
	ID             string          `json:"id"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Reward         float64         `json:"reward"`         // immediate reward
	StrategicValue float64         `json:"strategicValue"` // long-term value
	Risk           float64         `json:"risk"`
}

// GameResult is one completed game of a human player versus an AI opponent.
type GameResult struct {
	GameID     string        `json:"gameId"`
	PlayerID   string        `json:"playerId"`
	OpponentID string        `json:"opponentId"`
	Score      int           `json:"score"`
	Won        bool          `json:"won"`
	Duration   time.Duration `json:"duration"`
	MoveCount  int           `json:"moveCount"`
	PlayedAt   time.Time     `json:"playedAt"`
}

// PlayerPerformanceData is the rolling aggregate kept per human player.
type PlayerPerformanceData struct {
	PlayerID        string    `json:"playerId"`
	GamesPlayed     int       `json:"gamesPlayed"`
	TotalScore      int64     `json:"totalScore"`
	AverageScore    float64   `json:"averageScore"`
	BestScore       int       `json:"bestScore"`
	Wins            int       `json:"wins"`
	WinRate         float64   `json:"winRate"`
	SmoothedWinRate float64   `json:"smoothedWinRate"`
	SkillRating     int       `json:"skillRating"`
	LastPlayed      time.Time `json:"lastPlayed"`
}

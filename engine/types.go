package engine

import "fmt"

// Difficulty 对手难度档位
type Difficulty byte

const (
	DifficultyEasy   Difficulty = 0
	DifficultyMedium Difficulty = 1
	DifficultyHard   Difficulty = 2
	DifficultyExpert Difficulty = 3
)

var DifficultyDictionary = map[Difficulty]string{
	DifficultyEasy:   "EASY",
	DifficultyMedium: "MEDIUM",
	DifficultyHard:   "HARD",
	DifficultyExpert: "EXPERT",
}

func (d Difficulty) String() string {
	if s, ok := DifficultyDictionary[d]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseDifficulty resolves a tier name as used on the wire and in configs.
func ParseDifficulty(s string) (Difficulty, error) {
	for d, name := range DifficultyDictionary {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// baseSkillLevel maps a tier to the initial numeric skill of a fresh opponent.
// Must stay monotonic: EASY < MEDIUM < HARD < EXPERT.
var baseSkillLevel = map[Difficulty]int{
	DifficultyEasy:   25,
	DifficultyMedium: 50,
	DifficultyHard:   75,
	DifficultyExpert: 95,
}

// topMoveProbability is the chance a tier picks the best-scored move instead
// of a uniform-random legal move. EASY ignores scores entirely.
var topMoveProbability = map[Difficulty]float64{
	DifficultyEasy:   0.0,
	DifficultyMedium: 0.7,
	DifficultyHard:   0.9,
	DifficultyExpert: 1.0,
}

// Personality 对手性格
type Personality byte

const (
	PersonalityBalanced   Personality = 0
	PersonalityAggressive Personality = 1
	PersonalityDefensive  Personality = 2
	PersonalityStrategic  Personality = 3
	PersonalityCreative   Personality = 4
)

var PersonalityDictionary = map[Personality]string{
	PersonalityBalanced:   "BALANCED",
	PersonalityAggressive: "AGGRESSIVE",
	PersonalityDefensive:  "DEFENSIVE",
	PersonalityStrategic:  "STRATEGIC",
	PersonalityCreative:   "CREATIVE",
}

func (p Personality) String() string {
	if s, ok := PersonalityDictionary[p]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParsePersonality resolves a personality name as used on the wire.
func ParsePersonality(s string) (Personality, error) {
	for p, name := range PersonalityDictionary {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown personality %q", s)
}

// TournamentFormat 赛制
type TournamentFormat byte

const (
	FormatSingleElimination TournamentFormat = 0
	FormatRoundRobin        TournamentFormat = 1
	FormatDoubleElimination TournamentFormat = 2
)

var TournamentFormatDictionary = map[TournamentFormat]string{
	FormatSingleElimination: "SINGLE_ELIMINATION",
	FormatRoundRobin:        "ROUND_ROBIN",
	FormatDoubleElimination: "DOUBLE_ELIMINATION",
}

func (f TournamentFormat) String() string {
	if s, ok := TournamentFormatDictionary[f]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseTournamentFormat resolves a format name as used on the wire.
func ParseTournamentFormat(s string) (TournamentFormat, error) {
	for f, name := range TournamentFormatDictionary {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown tournament format %q", s)
}

// minPlayers is the format-defined minimum before a tournament can run.
func (f TournamentFormat) minPlayers() int { return 2 }

// TournamentStatus 比赛状态
type TournamentStatus byte

const (
	TournamentStatusWaiting    TournamentStatus = 0
	TournamentStatusInProgress TournamentStatus = 1
	TournamentStatusCompleted  TournamentStatus = 2
	TournamentStatusCancelled  TournamentStatus = 3
)

var TournamentStatusDictionary = map[TournamentStatus]string{
	TournamentStatusWaiting:    "WAITING_FOR_PLAYERS",
	TournamentStatusInProgress: "IN_PROGRESS",
	TournamentStatusCompleted:  "COMPLETED",
	TournamentStatusCancelled:  "CANCELLED",
}

func (s TournamentStatus) String() string {
	if v, ok := TournamentStatusDictionary[s]; ok {
		return v
	}
	return "UNKNOWN"
}

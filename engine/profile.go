package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// BehaviorProfile is the strategy vector for one (game type, personality)
// pair. All fields live in [0,1]. Profiles are immutable after load.
type BehaviorProfile struct {
	GameType    string      `json:"gameType"` // "" = any game type
	Personality Personality `json:"personality"`
	Aggression  float64     `json:"aggression"`
	Defense     float64     `json:"defense"`
	Patience    float64     `json:"patience"`
	Creativity  float64     `json:"creativity"`

	RiskTolerance float64 `json:"riskTolerance"`
	Adaptability  float64 `json:"adaptability"`
}

// stance buckets a profile for the risk adjustment in move scoring.
type stance byte

const (
	stanceBalanced stance = iota
	stanceAggressive
	stanceDefensive
)

// stanceBias: beyond this aggression/defense gap a profile stops being
// treated as balanced.
const stanceBias = 0.15

func (p *BehaviorProfile) stance() stance {
	switch gap := p.Aggression - p.Defense; {
	case gap >= stanceBias:
		return stanceAggressive
	case gap <= -stanceBias:
		return stanceDefensive
	default:
		return stanceBalanced
	}
}

type profileKey struct {
	gameType    string
	personality Personality
}

// ProfileLibrary holds all behavior profile definitions.
// Seeded with a built-in catalog; game modules may overlay their own
// per-game profiles from JSON.
type ProfileLibrary struct {
	mu       sync.RWMutex
	profiles map[profileKey]*BehaviorProfile
}

// defaultProfiles is the built-in game-type-agnostic catalog.
var defaultProfiles = []*BehaviorProfile{
	{Personality: PersonalityBalanced, Aggression: 0.5, Defense: 0.5, Patience: 0.5, Creativity: 0.5, RiskTolerance: 0.5, Adaptability: 0.5},
	{Personality: PersonalityAggressive, Aggression: 0.9, Defense: 0.2, Patience: 0.3, Creativity: 0.6, RiskTolerance: 0.8, Adaptability: 0.4},
	{Personality: PersonalityDefensive, Aggression: 0.2, Defense: 0.9, Patience: 0.8, Creativity: 0.3, RiskTolerance: 0.2, Adaptability: 0.5},
	{Personality: PersonalityStrategic, Aggression: 0.5, Defense: 0.6, Patience: 0.9, Creativity: 0.4, RiskTolerance: 0.35, Adaptability: 0.7},
	{Personality: PersonalityCreative, Aggression: 0.6, Defense: 0.4, Patience: 0.4, Creativity: 0.9, RiskTolerance: 0.65, Adaptability: 0.6},
}

// NewProfileLibrary creates a library preloaded with the built-in catalog.
func NewProfileLibrary() *ProfileLibrary {
	l := &ProfileLibrary{profiles: make(map[profileKey]*BehaviorProfile)}
	for _, p := range defaultProfiles {
		l.profiles[profileKey{p.GameType, p.Personality}] = p
	}
	return l
}

// LoadFromFile overlays profiles from a JSON file.
func (l *ProfileLibrary) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profiles file: %w", err)
	}
	return l.LoadFromJSON(data)
}

// LoadFromJSON overlays profiles from raw JSON bytes.
func (l *ProfileLibrary) LoadFromJSON(data []byte) error {
	var list []*BehaviorProfile
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse profiles JSON: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range list {
		l.profiles[profileKey{p.GameType, p.Personality}] = p
	}
	return nil
}

// Lookup resolves the profile for a game type and personality.
// Falls back to the game-type-agnostic entry, then to the balanced default;
// it never returns nil.
func (l *ProfileLibrary) Lookup(gameType string, personality Personality) *BehaviorProfile {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if p, ok := l.profiles[profileKey{gameType, personality}]; ok {
		return p
	}
	if p, ok := l.profiles[profileKey{"", personality}]; ok {
		return p
	}
	return l.profiles[profileKey{"", PersonalityBalanced}]
}

// Count returns the number of loaded profiles.
func (l *ProfileLibrary) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.profiles)
}

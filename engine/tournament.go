package engine

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TournamentMatch is one reported pairing outcome.
type TournamentMatch struct {
	ID         string         `json:"id"`
	Round      int            `json:"round"`
	HomeID     string         `json:"homeId"`
	AwayID     string         `json:"awayId"`
	WinnerID   string         `json:"winnerId"`
	Scores     map[string]int `json:"scores,omitempty"`
	ReportedAt time.Time      `json:"reportedAt"`
}

// Tournament owns bracket structure only: it never runs matches itself,
// it accepts completion reports and advances rounds.
type Tournament struct {
	ID           string            `json:"id"`
	GameID       string            `json:"gameId"`
	Format       TournamentFormat  `json:"format"`
	Status       TournamentStatus  `json:"status"`
	Players      []string          `json:"players"`
	CurrentRound int               `json:"currentRound"`
	TotalRounds  int               `json:"totalRounds"`
	Matches      []TournamentMatch `json:"matches"`
	CreatedAt    time.Time         `json:"createdAt"`
	CompletedAt  time.Time         `json:"completedAt,omitempty"`

	// roundPlan[r-1] is the number of matches expected in round r.
	roundPlan []int
}

// snapshot returns a defensive copy for callers and events.
func (t *Tournament) snapshot() Tournament {
	out := *t
	out.Players = append([]string(nil), t.Players...)
	out.Matches = append([]TournamentMatch(nil), t.Matches...)
	out.roundPlan = nil
	return out
}

// roundPlan computes per-round expected match counts and the total round
// count for n players under a format.
//
// Single elimination: halve (ceiling) until one player remains, so
// totalRounds == ceil(log2(n)) and a solo entrant gets zero rounds.
// Round robin: n-1 rounds of floor(n/2) matches.
// Double elimination: 2n-1 rounds; the leading rounds mirror the
// single-elimination plan, the rest are single rebracket matches.
func roundPlan(format TournamentFormat, n int) []int {
	if n < 2 {
		if format == FormatDoubleElimination && n == 1 {
			return []int{1}
		}
		return nil
	}

	var plan []int
	switch format {
	case FormatRoundRobin:
		for r := 0; r < n-1; r++ {
			plan = append(plan, n/2)
		}
	case FormatDoubleElimination:
		total := n*2 - 1
		for rem := n; rem > 1; rem = (rem + 1) / 2 {
			plan = append(plan, rem/2)
		}
		for len(plan) < total {
			plan = append(plan, 1)
		}
	default: // single elimination
		for rem := n; rem > 1; rem = (rem + 1) / 2 {
			plan = append(plan, rem/2)
		}
	}
	return plan
}

// Scheduler computes bracket structure and advances tournament state.
type Scheduler struct {
	mu          sync.RWMutex
	tournaments map[string]*Tournament
	bus         *Bus
}

func NewScheduler(bus *Bus) *Scheduler {
	return &Scheduler{tournaments: make(map[string]*Tournament), bus: bus}
}

// Start creates a tournament for the given players.
// Below the format minimum the tournament waits for players instead of
// entering play; a zero-round bracket completes immediately.
func (s *Scheduler) Start(gameID string, players []string, format TournamentFormat) (Tournament, error) {
	if len(players) == 0 {
		return Tournament{}, ErrNoPlayers
	}

	plan := roundPlan(format, len(players))
	now := time.Now()
	t := &Tournament{
		ID:           uuid.NewString(),
		GameID:       gameID,
		Format:       format,
		Status:       TournamentStatusInProgress,
		Players:      append([]string(nil), players...),
		CurrentRound: 1,
		TotalRounds:  len(plan),
		roundPlan:    plan,
		CreatedAt:    now,
	}
	if len(players) < format.minPlayers() {
		t.Status = TournamentStatusWaiting
	}
	completed := false
	if t.TotalRounds == 0 && t.Status == TournamentStatusInProgress {
		t.Status = TournamentStatusCompleted
		t.CurrentRound = 0
		t.CompletedAt = now
		completed = true
	}

	s.mu.Lock()
	s.tournaments[t.ID] = t
	s.mu.Unlock()

	log.Printf("[Tournament] Started %s: game=%s format=%s players=%d rounds=%d",
		t.ID, gameID, format, len(players), t.TotalRounds)
	snap := t.snapshot()
	s.bus.Publish(TournamentStarted{Tournament: snap, At: now})
	if completed {
		s.bus.Publish(TournamentCompleted{Tournament: snap, At: now})
	}
	return snap, nil
}

// Get returns a snapshot of a tournament, or nil if unknown.
func (s *Scheduler) Get(id string) *Tournament {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tournaments[id]
	if t == nil {
		return nil
	}
	snap := t.snapshot()
	return &snap
}

// Report appends a completed match and advances bracket state.
// Unknown tournament ids return nil; malformed matches are logged no-ops
// that return the current state unchanged.
func (s *Scheduler) Report(tournamentID string, match TournamentMatch) *Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tournaments[tournamentID]
	if t == nil {
		log.Printf("[Tournament] Report for unknown tournament %s", tournamentID)
		return nil
	}

	snap := func() *Tournament { v := t.snapshot(); return &v }

	if t.Status != TournamentStatusInProgress {
		log.Printf("[Tournament] %s ignoring match report in status %s", t.ID, t.Status)
		return snap()
	}
	if match.WinnerID == "" || match.HomeID == "" || match.AwayID == "" {
		log.Printf("[Tournament] %s ignoring malformed match report (missing ids)", t.ID)
		return snap()
	}
	if match.Round != t.CurrentRound {
		log.Printf("[Tournament] %s ignoring match for round %d (current %d)",
			t.ID, match.Round, t.CurrentRound)
		return snap()
	}

	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.ReportedAt.IsZero() {
		match.ReportedAt = time.Now()
	}
	t.Matches = append(t.Matches, match)

	reported := 0
	for _, m := range t.Matches {
		if m.Round == t.CurrentRound {
			reported++
		}
	}
	if reported >= t.roundPlan[t.CurrentRound-1] {
		t.CurrentRound++
		if t.CurrentRound > t.TotalRounds {
			t.Status = TournamentStatusCompleted
			t.CompletedAt = time.Now()
			log.Printf("[Tournament] Completed %s after %d matches", t.ID, len(t.Matches))
			s.bus.Publish(TournamentCompleted{Tournament: t.snapshot(), At: t.CompletedAt})
		}
	}
	return snap()
}

// Cancel marks a tournament cancelled. Completed tournaments stay completed.
func (s *Scheduler) Cancel(id string) *Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tournaments[id]
	if t == nil {
		return nil
	}
	if t.Status == TournamentStatusInProgress || t.Status == TournamentStatusWaiting {
		t.Status = TournamentStatusCancelled
	}
	snap := t.snapshot()
	return &snap
}

// pruneFinished drops completed/cancelled tournaments older than the cutoff.
func (s *Scheduler) pruneFinished(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for id, t := range s.tournaments {
		done := t.Status == TournamentStatusCompleted || t.Status == TournamentStatusCancelled
		if done && t.CreatedAt.Before(cutoff) {
			delete(s.tournaments, id)
			dropped++
		}
	}
	return dropped
}

package engine

import (
	"fmt"
	"testing"
)

func testPlayers(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("player-%d", i+1)
	}
	return out
}

func TestSingleEliminationRoundCounts(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 3: 2, 5: 3, 8: 3}
	for n, want := range cases {
		if got := len(roundPlan(FormatSingleElimination, n)); got != want {
			t.Fatalf("single elim rounds for %d players: got %d, want %d", n, got, want)
		}
	}
}

func TestRoundRobinRoundCounts(t *testing.T) {
	for _, n := range []int{2, 3, 4, 6} {
		if got := len(roundPlan(FormatRoundRobin, n)); got != n-1 {
			t.Fatalf("round robin rounds for %d players: got %d, want %d", n, got, n-1)
		}
	}
}

func TestDoubleEliminationRoundCounts(t *testing.T) {
	for _, n := range []int{2, 4, 5} {
		if got := len(roundPlan(FormatDoubleElimination, n)); got != n*2-1 {
			t.Fatalf("double elim rounds for %d players: got %d, want %d", n, got, n*2-1)
		}
	}
}

func TestTournamentBelowMinimumWaits(t *testing.T) {
	s := NewScheduler(NewBus(8))
	tm, err := s.Start("sudoku-classic", testPlayers(1), FormatSingleElimination)
	if err != nil {
		t.Fatal(err)
	}
	if tm.Status != TournamentStatusWaiting {
		t.Fatalf("solo tournament status: got %s, want WAITING_FOR_PLAYERS", tm.Status)
	}
	if tm.TotalRounds != 0 {
		t.Fatalf("solo tournament rounds: got %d, want 0", tm.TotalRounds)
	}
}

func TestTournamentStartRejectsEmptyPlayers(t *testing.T) {
	s := NewScheduler(NewBus(8))
	if _, err := s.Start("sudoku-classic", nil, FormatRoundRobin); err == nil {
		t.Fatal("expected error for empty player list")
	}
}

func TestSingleEliminationAdvancesAndCompletes(t *testing.T) {
	bus := NewBus(16)
	events, cancel := bus.Subscribe()
	defer cancel()

	s := NewScheduler(bus)
	players := testPlayers(4)
	tm, err := s.Start("chess-blitz", players, FormatSingleElimination)
	if err != nil {
		t.Fatal(err)
	}
	if tm.Status != TournamentStatusInProgress || tm.CurrentRound != 1 || tm.TotalRounds != 2 {
		t.Fatalf("fresh tournament state: status=%s round=%d/%d", tm.Status, tm.CurrentRound, tm.TotalRounds)
	}

	report := func(round int, home, away, winner string) *Tournament {
		return s.Report(tm.ID, TournamentMatch{
			Round: round, HomeID: home, AwayID: away, WinnerID: winner,
			Scores: map[string]int{home: 3, away: 1},
		})
	}

	after := report(1, players[0], players[1], players[0])
	if after.CurrentRound != 1 {
		t.Fatalf("round advanced after half the pairings: round=%d", after.CurrentRound)
	}
	after = report(1, players[2], players[3], players[3])
	if after.CurrentRound != 2 {
		t.Fatalf("round did not advance after full pairings: round=%d", after.CurrentRound)
	}

	after = report(2, players[0], players[3], players[3])
	if after.Status != TournamentStatusCompleted {
		t.Fatalf("status after final: got %s, want COMPLETED", after.Status)
	}
	if len(after.Matches) != 3 {
		t.Fatalf("matches recorded: got %d, want 3", len(after.Matches))
	}

	var kinds []EventKind
	for done := false; !done; {
		select {
		case ev := <-events:
			kinds = append(kinds, ev.Kind())
		default:
			done = true
		}
	}
	if len(kinds) != 2 || kinds[0] != EventTournamentStarted || kinds[1] != EventTournamentCompleted {
		t.Fatalf("event sequence: got %v", kinds)
	}
}

func TestReportIgnoresMalformedAndWrongRound(t *testing.T) {
	s := NewScheduler(NewBus(8))
	players := testPlayers(2)
	tm, err := s.Start("word-builder", players, FormatSingleElimination)
	if err != nil {
		t.Fatal(err)
	}

	// Missing winner: no-op.
	after := s.Report(tm.ID, TournamentMatch{Round: 1, HomeID: players[0], AwayID: players[1]})
	if len(after.Matches) != 0 {
		t.Fatal("malformed match was appended")
	}

	// Wrong round: no-op.
	after = s.Report(tm.ID, TournamentMatch{Round: 5, HomeID: players[0], AwayID: players[1], WinnerID: players[0]})
	if len(after.Matches) != 0 || after.CurrentRound != 1 {
		t.Fatal("out-of-round match mutated state")
	}
}

func TestReportUnknownTournament(t *testing.T) {
	s := NewScheduler(NewBus(8))
	if got := s.Report("missing", TournamentMatch{Round: 1, HomeID: "a", AwayID: "b", WinnerID: "a"}); got != nil {
		t.Fatal("unknown tournament id must yield nil, not a value")
	}
	if got := s.Get("missing"); got != nil {
		t.Fatal("unknown tournament id must yield nil from Get")
	}
}

func TestCancelTournament(t *testing.T) {
	s := NewScheduler(NewBus(8))
	tm, err := s.Start("arcade-sprint", testPlayers(3), FormatRoundRobin)
	if err != nil {
		t.Fatal(err)
	}
	after := s.Cancel(tm.ID)
	if after == nil || after.Status != TournamentStatusCancelled {
		t.Fatalf("cancel: got %+v", after)
	}
	// Cancelled tournaments reject further reports.
	after = s.Report(tm.ID, TournamentMatch{Round: 1, HomeID: "a", AwayID: "b", WinnerID: "a"})
	if len(after.Matches) != 0 {
		t.Fatal("cancelled tournament accepted a match")
	}
}

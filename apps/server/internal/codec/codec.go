// Package codec frames gateway traffic as protobuf-encoded Struct
// envelopes: {"op": string, "ts": unix-millis, "data": object}. Using the
// well-known Struct keeps the wire self-describing while staying binary.
package codec

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"arcade-ai/engine"
)

// Envelope is a decoded wire frame.
type Envelope struct {
	Op   string
	TS   int64
	Data map[string]interface{}
}

// Encode wraps an op and payload into a binary frame.
func Encode(op string, data map[string]interface{}) ([]byte, error) {
	body := map[string]interface{}{
		"op": op,
		"ts": time.Now().UnixMilli(),
	}
	if data != nil {
		body["data"] = data
	}
	st, err := structpb.NewStruct(body)
	if err != nil {
		return nil, fmt.Errorf("build envelope %q: %w", op, err)
	}
	return proto.Marshal(st)
}

// Decode parses a binary frame into an Envelope.
func Decode(frame []byte) (*Envelope, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(frame, &st); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	m := st.AsMap()

	op, _ := m["op"].(string)
	if op == "" {
		return nil, fmt.Errorf("envelope missing op")
	}
	env := &Envelope{Op: op}
	if ts, ok := m["ts"].(float64); ok {
		env.TS = int64(ts)
	}
	if data, ok := m["data"].(map[string]interface{}); ok {
		env.Data = data
	}
	return env, nil
}

// ErrorFrame encodes an error push.
func ErrorFrame(code int, msg string) ([]byte, error) {
	return Encode("error", map[string]interface{}{"code": code, "message": msg})
}

// OpponentData flattens an AIPlayer for the wire.
func OpponentData(p engine.AIPlayer) map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"gameId":      p.GameID,
		"difficulty":  p.Difficulty.String(),
		"personality": p.Personality.String(),
		"skillLevel":  p.SkillLevel,
		"adaptive":    p.Adaptive,
		"playerId":    p.PlayerID,
	}
}

// PerformanceData flattens a performance aggregate for the wire.
func PerformanceData(d engine.PlayerPerformanceData) map[string]interface{} {
	return map[string]interface{}{
		"playerId":     d.PlayerID,
		"gamesPlayed":  d.GamesPlayed,
		"totalScore":   d.TotalScore,
		"averageScore": d.AverageScore,
		"bestScore":    d.BestScore,
		"wins":         d.Wins,
		"winRate":      d.WinRate,
		"skillRating":  d.SkillRating,
		"lastPlayed":   d.LastPlayed.UnixMilli(),
	}
}

// TournamentData flattens a tournament snapshot for the wire. Matches are
// summarized by count; clients fetch history from the platform store.
func TournamentData(t engine.Tournament) map[string]interface{} {
	players := make([]interface{}, len(t.Players))
	for i, p := range t.Players {
		players[i] = p
	}
	return map[string]interface{}{
		"id":           t.ID,
		"gameId":       t.GameID,
		"format":       t.Format.String(),
		"status":       t.Status.String(),
		"players":      players,
		"currentRound": t.CurrentRound,
		"totalRounds":  t.TotalRounds,
		"matchCount":   len(t.Matches),
	}
}

// EventFrame encodes a domain event for push delivery.
func EventFrame(ev engine.Event) ([]byte, error) {
	switch e := ev.(type) {
	case engine.OpponentCreated:
		return Encode("event_opponent_created", OpponentData(e.Opponent))
	case engine.LearningUpdated:
		return Encode("event_learning_updated", map[string]interface{}{
			"playerId":   e.PlayerID,
			"opponentId": e.OpponentID,
			"previous":   e.Previous.String(),
			"next":       e.Next.String(),
			"winRate":    e.WinRate,
		})
	case engine.TournamentStarted:
		return Encode("event_tournament_started", TournamentData(e.Tournament))
	case engine.TournamentCompleted:
		return Encode("event_tournament_completed", TournamentData(e.Tournament))
	default:
		return nil, fmt.Errorf("unknown event kind %s", ev.Kind())
	}
}

// Package gateway bridges websocket game-session clients to the opponent
// engine: client ops come in as codec envelopes, engine events fan out to
// every connection.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"arcade-ai/apps/server/internal/auth"
	"arcade-ai/apps/server/internal/codec"
	"arcade-ai/apps/server/internal/store"
	"arcade-ai/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection represents one websocket client.
type Connection struct {
	ID       string
	UserID   uint64
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time
}

// Gateway manages websocket connections and dispatches engine traffic.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64

	engine *engine.Engine
	store  store.Service
	auth   auth.Service

	stopFanout func()
}

// New wires a gateway to the engine and starts the event fan-out.
func New(eng *engine.Engine, st store.Service, authService auth.Service) *Gateway {
	g := &Gateway{
		connections: make(map[string]*Connection),
		engine:      eng,
		store:       st,
		auth:        authService,
	}

	events, cancel := eng.Subscribe()
	g.stopFanout = cancel
	go g.fanout(events)
	return g
}

// Close stops the event fan-out. Connections drain on their own pumps.
func (g *Gateway) Close() {
	if g.stopFanout != nil {
		g.stopFanout()
	}
}

func (g *Gateway) fanout(events <-chan engine.Event) {
	for ev := range events {
		frame, err := codec.EventFrame(ev)
		if err != nil {
			log.Printf("[Gateway] Encode event %s failed: %v", ev.Kind(), err)
			continue
		}
		g.Broadcast(frame)

		// Mirror durable state into the platform store, best effort.
		switch e := ev.(type) {
		case engine.TournamentStarted:
			g.persistTournament(e.Tournament)
		case engine.TournamentCompleted:
			g.persistTournament(e.Tournament)
		}
	}
}

func (g *Gateway) persistTournament(t engine.Tournament) {
	if g.store == nil {
		return
	}
	if err := g.store.SaveTournament(context.Background(), t); err != nil {
		log.Printf("[Gateway] Persist tournament %s failed: %v", t.ID, err)
	}
}

func (g *Gateway) persistPerformance(playerID string) {
	if g.store == nil {
		return
	}
	data := g.engine.Performance(playerID)
	if data == nil {
		return
	}
	if err := g.store.SavePerformance(context.Background(), *data); err != nil {
		log.Printf("[Gateway] Persist performance for %s failed: %v", playerID, err)
	}
}

// HandleWebSocket upgrades an HTTP request and runs the connection pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	var userID uint64
	var username string
	if g.auth != nil {
		if token := r.URL.Query().Get("token"); token != "" {
			userID, username, _ = g.auth.ResolveSession(token)
		}
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:       fmt.Sprintf("conn_%d", g.nextConnID),
		UserID:   userID,
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (user=%d), total: %d", c.ID, userID, total)

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		if messageType == websocket.BinaryMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(frame []byte) {
	env, err := codec.Decode(frame)
	if err != nil {
		log.Printf("[Gateway] Bad frame from %s: %v", c.ID, err)
		c.sendError(1, "invalid message format")
		return
	}

	switch env.Op {
	case "create_opponent":
		c.handleCreateOpponent(env)
	case "select_move":
		c.handleSelectMove(env)
	case "record_result":
		c.handleRecordResult(env)
	case "get_performance":
		c.handleGetPerformance(env)
	case "start_tournament":
		c.handleStartTournament(env)
	case "report_match":
		c.handleReportMatch(env)
	default:
		log.Printf("[Gateway] Unknown op %q from %s", env.Op, c.ID)
		c.sendError(2, "unknown op "+env.Op)
	}
}

func (c *Connection) handleCreateOpponent(env *codec.Envelope) {
	gameID := stringField(env.Data, "gameId")
	if gameID == "" {
		c.sendError(3, "create_opponent requires gameId")
		return
	}
	difficulty, err := engine.ParseDifficulty(stringField(env.Data, "difficulty"))
	if err != nil {
		c.sendError(3, err.Error())
		return
	}
	personality, err := engine.ParsePersonality(stringField(env.Data, "personality"))
	if err != nil {
		c.sendError(3, err.Error())
		return
	}

	var op *engine.AIPlayer
	if playerID := stringField(env.Data, "playerId"); playerID != "" {
		op = c.Gateway.engine.CreateAdaptiveOpponent(gameID, difficulty, personality, playerID)
	} else {
		op = c.Gateway.engine.CreateOpponent(gameID, difficulty, personality)
	}
	c.send("opponent", codec.OpponentData(*op))
}

func (c *Connection) handleSelectMove(env *codec.Envelope) {
	opponentID := stringField(env.Data, "opponentId")
	moves := parseMoves(env.Data["moves"])
	state := engine.GameState{
		GameID: stringField(env.Data, "gameId"),
		Turn:   intField(env.Data, "turn"),
	}

	mv := c.Gateway.engine.SelectMove(opponentID, state, moves)
	if mv == nil {
		c.send("no_move", map[string]interface{}{"opponentId": opponentID})
		return
	}
	c.send("move", map[string]interface{}{
		"opponentId": opponentID,
		"moveId":     mv.ID,
	})
}

func (c *Connection) handleRecordResult(env *codec.Envelope) {
	playerID := stringField(env.Data, "playerId")
	if playerID == "" {
		c.sendError(4, "record_result requires playerId")
		return
	}
	result := engine.GameResult{
		GameID:     stringField(env.Data, "gameId"),
		PlayerID:   playerID,
		OpponentID: stringField(env.Data, "opponentId"),
		Score:      intField(env.Data, "score"),
		Won:        boolField(env.Data, "won"),
		Duration:   time.Duration(intField(env.Data, "durationMs")) * time.Millisecond,
		MoveCount:  intField(env.Data, "moveCount"),
		PlayedAt:   time.Now(),
	}
	c.Gateway.engine.RecordResult(result)
	c.Gateway.persistPerformance(playerID)
	c.send("result_recorded", map[string]interface{}{"playerId": playerID})
}

func (c *Connection) handleGetPerformance(env *codec.Envelope) {
	playerID := stringField(env.Data, "playerId")
	data := c.Gateway.engine.Performance(playerID)
	if data == nil {
		c.send("no_performance", map[string]interface{}{"playerId": playerID})
		return
	}
	c.send("performance", codec.PerformanceData(*data))
}

func (c *Connection) handleStartTournament(env *codec.Envelope) {
	gameID := stringField(env.Data, "gameId")
	format, err := engine.ParseTournamentFormat(stringField(env.Data, "format"))
	if err != nil {
		c.sendError(5, err.Error())
		return
	}
	var players []string
	if raw, ok := env.Data["players"].([]interface{}); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				players = append(players, s)
			}
		}
	}

	tm, err := c.Gateway.engine.StartTournament(gameID, players, format)
	if err != nil {
		c.sendError(5, err.Error())
		return
	}
	c.send("tournament", codec.TournamentData(tm))
}

func (c *Connection) handleReportMatch(env *codec.Envelope) {
	tournamentID := stringField(env.Data, "tournamentId")
	match := engine.TournamentMatch{
		Round:    intField(env.Data, "round"),
		HomeID:   stringField(env.Data, "homeId"),
		AwayID:   stringField(env.Data, "awayId"),
		WinnerID: stringField(env.Data, "winnerId"),
	}
	tm := c.Gateway.engine.ReportMatchResult(tournamentID, match)
	if tm == nil {
		c.send("no_tournament", map[string]interface{}{"tournamentId": tournamentID})
		return
	}
	c.Gateway.persistTournament(*tm)
	c.send("tournament", codec.TournamentData(*tm))
}

func (c *Connection) send(op string, data map[string]interface{}) {
	frame, err := codec.Encode(op, data)
	if err != nil {
		log.Printf("[Gateway] Encode %q failed: %v", op, err)
		return
	}
	select {
	case c.Send <- frame:
	default:
		// Drop if buffer full
	}
}

func (c *Connection) sendError(code int, msg string) {
	frame, err := codec.ErrorFrame(code, msg)
	if err != nil {
		return
	}
	select {
	case c.Send <- frame:
	default:
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

// Broadcast sends a frame to all connections, dropping for full buffers.
func (g *Gateway) Broadcast(frame []byte) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.connections {
		select {
		case c.Send <- frame:
		default:
			// Drop message if buffer full
		}
	}
}

// Field helpers: envelope data arrives as structpb-decoded maps, so every
// number is a float64.

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

func intField(data map[string]interface{}, key string) int {
	f, _ := data[key].(float64)
	return int(f)
}

func floatField(data map[string]interface{}, key string) float64 {
	f, _ := data[key].(float64)
	return f
}

func boolField(data map[string]interface{}, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func parseMoves(raw interface{}) []engine.GameMove {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	moves := make([]engine.GameMove, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		id := stringField(m, "id")
		if id == "" {
			continue
		}
		moves = append(moves, engine.GameMove{
			ID:             id,
			Reward:         floatField(m, "reward"),
			StrategicValue: floatField(m, "strategicValue"),
			Risk:           floatField(m, "risk"),
		})
	}
	return moves
}

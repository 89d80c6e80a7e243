package engine

import (
	"sync"
	"time"
)

type EventKind byte

const (
	EventOpponentCreated EventKind = iota
	EventLearningUpdated
	EventTournamentStarted
	EventTournamentCompleted
)

var EventKindDictionary = map[EventKind]string{
	EventOpponentCreated:     "OPPONENT_CREATED",
	EventLearningUpdated:     "LEARNING_UPDATED",
	EventTournamentStarted:   "TOURNAMENT_STARTED",
	EventTournamentCompleted: "TOURNAMENT_COMPLETED",
}

func (k EventKind) String() string {
	if s, ok := EventKindDictionary[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Event is one of a closed set of domain notifications. Events are
// informational, not authoritative state; subscribers may miss some under
// overflow and must re-read the engine for truth.
type Event interface {
	Kind() EventKind
	OccurredAt() time.Time
}

type OpponentCreated struct {
	Opponent AIPlayer
	At       time.Time
}

func (OpponentCreated) Kind() EventKind { return EventOpponentCreated }
func (e OpponentCreated) OccurredAt() time.Time { return e.At }

type LearningUpdated struct {
	PlayerID   string
	OpponentID string
	Previous   Difficulty
	Next       Difficulty
	WinRate    float64
	At         time.Time
}

func (LearningUpdated) Kind() EventKind { return EventLearningUpdated }
func (e LearningUpdated) OccurredAt() time.Time { return e.At }

type TournamentStarted struct {
	Tournament Tournament
	At         time.Time
}

func (TournamentStarted) Kind() EventKind { return EventTournamentStarted }
func (e TournamentStarted) OccurredAt() time.Time { return e.At }

type TournamentCompleted struct {
	Tournament Tournament
	At         time.Time
}

func (TournamentCompleted) Kind() EventKind { return EventTournamentCompleted }
func (e TournamentCompleted) OccurredAt() time.Time { return e.At }

// Bus fans events out to subscribers over bounded buffered channels.
// Publish never blocks: when a subscriber's buffer is full the oldest
// pending event is dropped to make room. Slow subscribers therefore lag,
// they never stall gameplay.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
	closed bool
}

func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &Bus{subs: make(map[uint64]chan Event), buffer: buffer}
}

// Subscribe registers a listener. The returned cancel func is idempotent
// and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	b.nextID++
	id := b.nextID
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish broadcasts to all subscribers, best effort.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Full: drop the oldest pending event, then try once more.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Close tears down all subscriptions. Further publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

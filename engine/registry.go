package engine

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// opponent is a live registry entry: the (replaceable) player record plus
// the instance-owned decision RNG.
type opponent struct {
	mu      sync.Mutex
	player  *AIPlayer
	profile *BehaviorProfile
	rng     *rand.Rand
}

// Registry owns the set of live AI player instances, keyed by opponent id.
// Reads never block creation of unrelated opponents; difficulty swaps are
// copy-on-write so an in-flight SelectMove sees either the old or the new
// record, never a torn one.
type Registry struct {
	mu        sync.RWMutex
	opponents map[string]*opponent
}

func NewRegistry() *Registry {
	return &Registry{opponents: make(map[string]*opponent)}
}

// add stores a freshly created opponent. An id collision means uuid broke;
// treat it as programmer error.
func (r *Registry) add(player *AIPlayer, profile *BehaviorProfile, seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.opponents[player.ID]; exists {
		panic("duplicate opponent id " + player.ID)
	}
	r.opponents[player.ID] = &opponent{
		player:  player,
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (r *Registry) get(id string) *opponent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opponents[id]
}

// Get returns a snapshot of the opponent record, or nil if unknown.
func (r *Registry) Get(id string) *AIPlayer {
	op := r.get(id)
	if op == nil {
		return nil
	}
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.player
}

// Count returns the number of live opponents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.opponents)
}

// Remove drops an opponent from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.opponents, id)
}

// byHumanPlayer returns the entries linked to a human player id.
func (r *Registry) byHumanPlayer(playerID string) []*opponent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*opponent
	for _, op := range r.opponents {
		op.mu.Lock()
		linked := op.player.PlayerID == playerID
		op.mu.Unlock()
		if linked {
			out = append(out, op)
		}
	}
	return out
}

// retune replaces the entry's player record with a copy at the target tier.
// Returns the previous tier and whether anything changed; unchanged tiers
// are a no-op so repeated evaluation cannot thrash.
func (op *opponent) retune(target Difficulty) (Difficulty, bool) {
	op.mu.Lock()
	defer op.mu.Unlock()
	prev := op.player.Difficulty
	if prev == target || !op.player.Adaptive {
		return prev, false
	}
	op.player = op.player.withDifficulty(target)
	return prev, true
}

// selectMove runs the evaluator under the entry lock (the RNG is not safe
// for concurrent draws). Turn-based callers never contend here long enough
// to matter.
func (op *opponent) selectMove(moves []GameMove) *GameMove {
	op.mu.Lock()
	defer op.mu.Unlock()
	idx := pickMoveIndex(op.rng, op.player.Difficulty, moves, op.profile)
	pick := moves[idx]
	return &pick
}

func newOpponentID() string { return uuid.NewString() }

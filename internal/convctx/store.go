// Package convctx keeps the bounded per-user conversational context that
// the dialogue layer reads and writes on every turn.
package convctx

import (
	"context"
	"sync"

	"credit-assist/internal/creditmath"
	"credit-assist/internal/entity"
	"credit-assist/internal/intent"
)

// MaxHistory bounds the simulation history per user. Appends beyond the
// bound evict the oldest entry.
const MaxHistory = 5

// Context is one user's conversational state.
type Context struct {
	TurnCount    int                     `json:"turn_count"`
	LastIntent   intent.Intent           `json:"last_intent,omitempty"`
	LastEntities entity.Set              `json:"last_entities"`
	History      []creditmath.Simulation `json:"history,omitempty"`
}

// LastSimulation returns the most recent simulation, or nil when none
// has been recorded yet.
func (c *Context) LastSimulation() *creditmath.Simulation {
	if len(c.History) == 0 {
		return nil
	}
	sim := c.History[len(c.History)-1]
	return &sim
}

// Summary is the read-model view of a user's context.
type Summary struct {
	UserID          string                 `json:"user_id"`
	TurnCount       int                    `json:"turn_count"`
	LastIntent      intent.Intent          `json:"last_intent,omitempty"`
	SimulationCount int                    `json:"simulation_count"`
	LastSimulation  *creditmath.Simulation `json:"last_simulation,omitempty"`
}

// Store persists per-user contexts. Implementations serialize writes to
// the same user so interleaved turns cannot corrupt the state.
type Store interface {
	// Get returns a copy of the user's context, creating an empty one on
	// first access.
	Get(ctx context.Context, userID string) (Context, error)

	// RecordTurn increments the user's turn counter.
	RecordTurn(ctx context.Context, userID string) error

	// UpdateLast overwrites the last resolved intent and entity set.
	UpdateLast(ctx context.Context, userID string, it intent.Intent, ents entity.Set) error

	// AppendSimulation pushes a simulation onto the bounded history.
	AppendSimulation(ctx context.Context, userID string, sim creditmath.Simulation) error

	// Summary builds the read-model view for the user.
	Summary(ctx context.Context, userID string) (Summary, error)
}

// MemoryStore is the in-process Store used when no external backend is
// configured, and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*Context
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*Context)}
}

// get returns the live context for userID, creating it lazily. Callers
// must hold mu.
func (s *MemoryStore) get(userID string) *Context {
	c, ok := s.users[userID]
	if !ok {
		c = &Context{}
		s.users[userID] = c
	}
	return c
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(userID)
	out := *c
	out.History = append([]creditmath.Simulation(nil), c.History...)
	return out, nil
}

func (s *MemoryStore) RecordTurn(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(userID).TurnCount++
	return nil
}

func (s *MemoryStore) UpdateLast(_ context.Context, userID string, it intent.Intent, ents entity.Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(userID)
	c.LastIntent = it
	c.LastEntities = ents
	return nil
}

func (s *MemoryStore) AppendSimulation(_ context.Context, userID string, sim creditmath.Simulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(userID)
	c.History = appendBounded(c.History, sim)
	return nil
}

func (s *MemoryStore) Summary(_ context.Context, userID string) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(userID)
	return Summary{
		UserID:          userID,
		TurnCount:       c.TurnCount,
		LastIntent:      c.LastIntent,
		SimulationCount: len(c.History),
		LastSimulation:  c.LastSimulation(),
	}, nil
}

// appendBounded is the single place history growth happens; eviction is
// oldest-first.
func appendBounded(history []creditmath.Simulation, sim creditmath.Simulation) []creditmath.Simulation {
	history = append(history, sim)
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}
	return history
}

package convctx

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"credit-assist/internal/common/database"
	"credit-assist/internal/common/errors"
	"credit-assist/internal/creditmath"
	"credit-assist/internal/entity"
	"credit-assist/internal/intent"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "convctx:"

// RedisStore persists contexts as one JSON document per user. Writes to
// the same user are serialized with a per-user local mutex; a single
// process owns each conversation, so no cross-process locking is needed.
type RedisStore struct {
	client *database.RedisClient
	ttl    time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRedisStore(client *database.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *RedisStore) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *RedisStore) load(ctx context.Context, userID string) (Context, error) {
	raw, err := s.client.Client.Get(ctx, keyPrefix+userID).Bytes()
	if err == redis.Nil {
		return Context{}, nil
	}
	if err != nil {
		return Context{}, errors.NewContextStoreFailedError(err)
	}

	var c Context
	if err := json.Unmarshal(raw, &c); err != nil {
		return Context{}, errors.NewContextStoreFailedError(err)
	}
	return c, nil
}

func (s *RedisStore) save(ctx context.Context, userID string, c Context) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.NewContextStoreFailedError(err)
	}
	if err := s.client.Client.Set(ctx, keyPrefix+userID, raw, s.ttl).Err(); err != nil {
		return errors.NewContextStoreFailedError(err)
	}
	return nil
}

// mutate runs fn over the user's context under the per-user lock and
// writes the result back.
func (s *RedisStore) mutate(ctx context.Context, userID string, fn func(*Context)) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	c, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	fn(&c)
	return s.save(ctx, userID, c)
}

func (s *RedisStore) Get(ctx context.Context, userID string) (Context, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	return s.load(ctx, userID)
}

func (s *RedisStore) RecordTurn(ctx context.Context, userID string) error {
	return s.mutate(ctx, userID, func(c *Context) {
		c.TurnCount++
	})
}

func (s *RedisStore) UpdateLast(ctx context.Context, userID string, it intent.Intent, ents entity.Set) error {
	return s.mutate(ctx, userID, func(c *Context) {
		c.LastIntent = it
		c.LastEntities = ents
	})
}

func (s *RedisStore) AppendSimulation(ctx context.Context, userID string, sim creditmath.Simulation) error {
	return s.mutate(ctx, userID, func(c *Context) {
		c.History = appendBounded(c.History, sim)
	})
}

func (s *RedisStore) Summary(ctx context.Context, userID string) (Summary, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		UserID:          userID,
		TurnCount:       c.TurnCount,
		LastIntent:      c.LastIntent,
		SimulationCount: len(c.History),
		LastSimulation:  c.LastSimulation(),
	}, nil
}

package convctx

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"credit-assist/internal/creditmath"
	"credit-assist/internal/entity"
	"credit-assist/internal/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simFor(capital float64) creditmath.Simulation {
	return creditmath.Simulate(capital, 5, 3.5)
}

func TestMemoryStore_LazyCreate(t *testing.T) {
	s := NewMemoryStore()

	c, err := s.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, 0, c.TurnCount)
	assert.Empty(t, c.History)
	assert.Nil(t, c.LastSimulation())
}

func TestMemoryStore_RecordTurn(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordTurn(ctx, "u1"))
	}
	require.NoError(t, s.RecordTurn(ctx, "u2"))

	c1, _ := s.Get(ctx, "u1")
	c2, _ := s.Get(ctx, "u2")
	assert.Equal(t, 3, c1.TurnCount)
	assert.Equal(t, 1, c2.TurnCount)
}

func TestMemoryStore_UpdateLast(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ents := entity.Set{Amount: entity.Float64(50000)}
	require.NoError(t, s.UpdateLast(ctx, "u1", intent.Simulation, ents))

	c, _ := s.Get(ctx, "u1")
	assert.Equal(t, intent.Simulation, c.LastIntent)
	require.NotNil(t, c.LastEntities.Amount)
	assert.Equal(t, 50000.0, *c.LastEntities.Amount)
}

func TestMemoryStore_HistoryBound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= MaxHistory+2; i++ {
		require.NoError(t, s.AppendSimulation(ctx, "u1", simFor(float64(i*10000))))
	}

	c, _ := s.Get(ctx, "u1")
	require.Len(t, c.History, MaxHistory)
	// Oldest-first eviction: entries 1 and 2 are gone.
	assert.Equal(t, 30000.0, c.History[0].Capital)
	assert.Equal(t, 70000.0, c.History[MaxHistory-1].Capital)
	assert.Equal(t, 70000.0, c.LastSimulation().Capital)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.AppendSimulation(ctx, "u1", simFor(10000)))

	c, _ := s.Get(ctx, "u1")
	c.History[0].Capital = -1
	c.TurnCount = 99

	again, _ := s.Get(ctx, "u1")
	assert.Equal(t, 10000.0, again.History[0].Capital)
	assert.Equal(t, 0, again.TurnCount)
}

func TestMemoryStore_Summary(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.RecordTurn(ctx, "u1"))
	require.NoError(t, s.UpdateLast(ctx, "u1", intent.Simulation, entity.Set{}))
	require.NoError(t, s.AppendSimulation(ctx, "u1", simFor(20000)))
	require.NoError(t, s.AppendSimulation(ctx, "u1", simFor(30000)))

	sum, err := s.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", sum.UserID)
	assert.Equal(t, 1, sum.TurnCount)
	assert.Equal(t, intent.Simulation, sum.LastIntent)
	assert.Equal(t, 2, sum.SimulationCount)
	require.NotNil(t, sum.LastSimulation)
	assert.Equal(t, 30000.0, sum.LastSimulation.Capital)
}

func TestMemoryStore_ConcurrentTurns(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", n%2)
			for j := 0; j < 50; j++ {
				_ = s.RecordTurn(ctx, user)
			}
		}(i)
	}
	wg.Wait()

	c0, _ := s.Get(ctx, "u0")
	c1, _ := s.Get(ctx, "u1")
	assert.Equal(t, 200, c0.TurnCount)
	assert.Equal(t, 200, c1.TurnCount)
}

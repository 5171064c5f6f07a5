package intent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"credit-assist/internal/capability"
	"credit-assist/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier scripts the primary capability for tests.
type stubClassifier struct {
	mu       sync.Mutex
	loaded   bool
	label    string
	conf     float64
	failures int // fail this many calls before succeeding
	calls    int
}

func (s *stubClassifier) Loaded() bool { return s.loaded }

func (s *stubClassifier) Classify(ctx context.Context, text string) (capability.Classification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failures > 0 {
		s.failures--
		return capability.Classification{}, errors.New("model crashed")
	}
	return capability.Classification{Label: s.label, Confidence: s.conf}, nil
}

func TestResolver_PrimaryMode(t *testing.T) {
	primary := &stubClassifier{loaded: true, label: "simulation_credit", conf: 0.93}
	r := NewResolver(primary, logger.NewTestLogger(t))

	require.False(t, r.InFallback())
	assert.Equal(t, PrimaryThreshold, r.Threshold())

	res := r.Resolve(context.Background(), "Je voudrais simuler un crédit")
	assert.Equal(t, Simulation, res.Intent)
	assert.InDelta(t, 0.93, res.Confidence, 1e-9)
	assert.False(t, res.UsedFallback)
	// Primary mode defers entity extraction to the entity resolver.
	assert.True(t, res.Entities.IsEmpty())
}

func TestResolver_StartsInFallbackWhenNotLoaded(t *testing.T) {
	r := NewResolver(&stubClassifier{loaded: false}, logger.NewTestLogger(t))

	assert.True(t, r.InFallback())
	assert.Equal(t, FallbackThreshold, r.Threshold())
}

func TestResolver_FailureFlipsAndReissuesSameCall(t *testing.T) {
	primary := &stubClassifier{loaded: true, failures: 1, label: "support_client", conf: 0.9}
	r := NewResolver(primary, logger.NewTestLogger(t))

	res := r.Resolve(context.Background(), "Comment contacter un conseiller ?")

	// The failed call is recovered through the fallback path, not lost.
	assert.True(t, res.UsedFallback)
	assert.Equal(t, Support, res.Intent)
	assert.GreaterOrEqual(t, res.Confidence, 0.1)
	assert.True(t, r.InFallback())
}

func TestResolver_FallbackIsSticky(t *testing.T) {
	// Fails once, then would answer perfectly. The flip is still one-way.
	primary := &stubClassifier{loaded: true, failures: 1, label: "simulation_credit", conf: 0.99}
	r := NewResolver(primary, logger.NewTestLogger(t))

	_ = r.Resolve(context.Background(), "première requête")
	require.True(t, r.InFallback())

	res := r.Resolve(context.Background(), "Comment contacter un conseiller ?")
	assert.True(t, res.UsedFallback)
	assert.True(t, r.InFallback())

	// The primary must not have been consulted again after the flip.
	primary.mu.Lock()
	defer primary.mu.Unlock()
	assert.Equal(t, 1, primary.calls)
}

func TestResolver_ConcurrentFirstFailure(t *testing.T) {
	primary := &stubClassifier{loaded: true, failures: 1000}
	r := NewResolver(primary, logger.NewTestLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := r.Resolve(context.Background(), "Comment contacter un conseiller ?")
			assert.Equal(t, Support, res.Intent)
		}()
	}
	wg.Wait()

	assert.True(t, r.InFallback())
}

func TestResolver_FallbackBundlesEntities(t *testing.T) {
	r := NewResolver(&stubClassifier{loaded: false}, logger.NewTestLogger(t))

	res := r.Resolve(context.Background(), "Je voudrais simuler un crédit personnel de 50 000€ sur 5 ans")

	assert.Equal(t, Simulation, res.Intent)
	require.NotNil(t, res.Entities.Amount)
	assert.Equal(t, 50000.0, *res.Entities.Amount)
	require.NotNil(t, res.Entities.DurationYears)
	assert.Equal(t, 5, *res.Entities.DurationYears)
}

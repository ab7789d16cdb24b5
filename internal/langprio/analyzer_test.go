package langprio

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/diffpress/internal/cache"
	"github.com/fyrsmithlabs/diffpress/internal/compression"
)

var testKey = compression.ReviewKey{Repo: "acme/webapp", PRNumber: 421, HeadSHA: "3fc9d21"}

// recordingStore wraps Memory and records the TTLs passed to Set.
type recordingStore struct {
	*cache.Memory
	setTTLs []time.Duration
}

func (r *recordingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.setTTLs = append(r.setTTLs, ttl)
	return r.Memory.Set(ctx, key, value, ttl)
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (failingStore) Close() error { return nil }

func TestAnalyze_EmptyInputReturnsDefaults(t *testing.T) {
	a := New(cache.NewMemory())

	scores := a.Analyze(context.Background(), testKey, nil)

	assert.Equal(t, DefaultPriorities(), scores)
	assert.InDelta(t, 70, scores["python"], 0.001)
	assert.InDelta(t, 30, scores["markdown"], 0.001)
	assert.InDelta(t, 20, scores["text"], 0.001)
}

func TestAnalyze_DefaultsNotCached(t *testing.T) {
	store := &recordingStore{Memory: cache.NewMemory()}
	a := New(store)

	a.Analyze(context.Background(), testKey, nil)

	assert.Empty(t, store.setTTLs, "default table must not be written back")
}

func TestAnalyze_DistributionFormula(t *testing.T) {
	files := []compression.FileChange{
		{Path: "app/views.py", Additions: 20, Deletions: 10},
		{Path: "web/index.js", Additions: 8, Deletions: 2},
	}

	a := New(cache.NewMemory())
	scores := a.Analyze(context.Background(), testKey, files)

	// python: 30 of 40 lines -> 50 + 0.5*75 = 87.5
	// javascript: 10 of 40 lines -> 50 + 0.5*25 = 62.5
	require.Len(t, scores, 2)
	assert.InDelta(t, 87.5, scores["python"], 0.001)
	assert.InDelta(t, 62.5, scores["javascript"], 0.001)
}

func TestAnalyze_SkipsVendorAndUnknown(t *testing.T) {
	files := []compression.FileChange{
		{Path: "vendor/lib/core.py", Additions: 500, Deletions: 100},
		{Path: "yarn.lock", Additions: 900},
		{Path: "Dockerfile", Additions: 30},
		{Path: "svc/main.go", Additions: 10},
	}

	a := New(cache.NewMemory())
	scores := a.Analyze(context.Background(), testKey, files)

	// Only the Go file counts: 100% of attributed lines.
	require.Len(t, scores, 1)
	assert.InDelta(t, 100.0, scores["go"], 0.001)
}

func TestAnalyze_AllFilteredReturnsDefaults(t *testing.T) {
	files := []compression.FileChange{
		{Path: "node_modules/react/index.js", Additions: 400},
		{Path: "README", Additions: 12},
	}

	a := New(cache.NewMemory())
	scores := a.Analyze(context.Background(), testKey, files)

	assert.Equal(t, DefaultPriorities(), scores)
}

func TestAnalyze_ZeroLineChangesReturnsDefaults(t *testing.T) {
	files := []compression.FileChange{
		{Path: "app/views.py", Status: compression.StatusRenamed},
	}

	a := New(cache.NewMemory())
	scores := a.Analyze(context.Background(), testKey, files)

	assert.Equal(t, DefaultPriorities(), scores)
}

func TestAnalyze_CacheHitReturnedUnmodified(t *testing.T) {
	store := cache.NewMemory()
	cached := map[string]float64{"python": 99}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(),
		"lang_scores:acme/webapp:421:3fc9d21", raw, 0))

	a := New(store)
	files := []compression.FileChange{{Path: "svc/main.go", Additions: 10}}

	scores := a.Analyze(context.Background(), testKey, files)

	assert.Equal(t, cached, scores, "cache hit must win over fresh analysis")
}

func TestAnalyze_ComputedScoresCachedWithTTL(t *testing.T) {
	store := &recordingStore{Memory: cache.NewMemory()}
	a := New(store, WithTTL(3*time.Hour))
	files := []compression.FileChange{{Path: "svc/main.go", Additions: 10}}

	first := a.Analyze(context.Background(), testKey, files)
	second := a.Analyze(context.Background(), testKey, files)

	assert.Equal(t, first, second)
	require.Len(t, store.setTTLs, 1, "second call must hit the cache")
	assert.Equal(t, 3*time.Hour, store.setTTLs[0])
}

func TestAnalyze_CacheFailureDegradesToFresh(t *testing.T) {
	a := New(failingStore{})
	files := []compression.FileChange{{Path: "svc/main.go", Additions: 10}}

	scores := a.Analyze(context.Background(), testKey, files)

	require.Len(t, scores, 1)
	assert.InDelta(t, 100.0, scores["go"], 0.001)
}

func TestAnalyze_MalformedCacheEntryIgnored(t *testing.T) {
	store := cache.NewMemory()
	require.NoError(t, store.Set(context.Background(),
		"lang_scores:acme/webapp:421:3fc9d21", []byte("{not json"), 0))

	a := New(store)
	files := []compression.FileChange{{Path: "svc/main.go", Additions: 10}}

	scores := a.Analyze(context.Background(), testKey, files)
	assert.InDelta(t, 100.0, scores["go"], 0.001)
}

// Package langprio derives per-language priority scores from a pull
// request's change distribution, with cached results per PR snapshot.
package langprio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/diffpress/internal/cache"
	"github.com/fyrsmithlabs/diffpress/internal/compression"
	"github.com/fyrsmithlabs/diffpress/internal/lang"
)

const (
	// DefaultTTL keeps language scores well past the per-diff cache
	// horizon; a PR's language mix is stable for a given head SHA.
	DefaultTTL = 6 * time.Hour

	// DefaultCacheTimeout bounds each cache round trip so an outage
	// degrades to a recompute instead of stalling compression.
	DefaultCacheTimeout = 2 * time.Second
)

// skipPatterns exclude files that should not count toward the language
// distribution: generated/vendored trees, lockfiles, and top-level docs.
var skipPatterns = []string{
	"node_modules/", "vendor/", "dist/", "build/",
	".min.js", ".min.css",

	"package-lock.json", "yarn.lock", "Gemfile.lock",
	"Pipfile.lock", "poetry.lock",

	"README", "LICENSE", "CHANGELOG",
}

// Analyzer computes language priorities for one PR snapshot, caching
// non-default results under the snapshot key.
type Analyzer struct {
	store        cache.Store
	log          *zap.Logger
	ttl          time.Duration
	cacheTimeout time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTTL overrides the cache TTL for computed scores.
func WithTTL(ttl time.Duration) Option {
	return func(a *Analyzer) { a.ttl = ttl }
}

// WithCacheTimeout overrides the per-call cache timeout.
func WithCacheTimeout(timeout time.Duration) Option {
	return func(a *Analyzer) { a.cacheTimeout = timeout }
}

// WithLogger attaches a logger; the default is a nop.
func WithLogger(log *zap.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// New returns an Analyzer backed by the given store.
func New(store cache.Store, opts ...Option) *Analyzer {
	a := &Analyzer{
		store:        store,
		log:          zap.NewNop(),
		ttl:          DefaultTTL,
		cacheTimeout: DefaultCacheTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the language -> priority map for the PR snapshot. Cache
// hits are returned unmodified; on a miss the scores are computed from
// the file list and written back. Cache failures in either direction are
// logged and absorbed — compression always proceeds with fresh scores.
func (a *Analyzer) Analyze(ctx context.Context, key compression.ReviewKey, files []compression.FileChange) map[string]float64 {
	cacheKey := fmt.Sprintf("lang_scores:%s:%d:%s", key.Repo, key.PRNumber, key.HeadSHA)

	if scores, ok := a.cachedScores(ctx, cacheKey); ok {
		return scores
	}

	scores, isDefault := analyzeFileList(files)
	if !isDefault {
		a.storeScores(ctx, cacheKey, scores)
	}
	return scores
}

func (a *Analyzer) cachedScores(ctx context.Context, cacheKey string) (map[string]float64, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.cacheTimeout)
	defer cancel()

	raw, err := a.store.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			a.log.Error("language score cache lookup failed, computing fresh",
				zap.String("key", cacheKey), zap.Error(err))
		}
		return nil, false
	}

	var scores map[string]float64
	if err := json.Unmarshal(raw, &scores); err != nil {
		a.log.Warn("discarding malformed cached language scores",
			zap.String("key", cacheKey), zap.Error(err))
		return nil, false
	}
	return scores, true
}

func (a *Analyzer) storeScores(ctx context.Context, cacheKey string, scores map[string]float64) {
	raw, err := json.Marshal(scores)
	if err != nil {
		a.log.Error("failed to encode language scores", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.cacheTimeout)
	defer cancel()

	if err := a.store.Set(ctx, cacheKey, raw, a.ttl); err != nil {
		a.log.Error("language score cache store failed",
			zap.String("key", cacheKey), zap.Error(err))
	}
}

// analyzeFileList sums changed lines per detected language and converts
// the distribution into priorities: 50 baseline plus up to 50 for the
// dominant language. Returns the default table (and isDefault=true) when
// no file contributes to the distribution.
func analyzeFileList(files []compression.FileChange) (scores map[string]float64, isDefault bool) {
	lineChanges := make(map[string]int)
	totalLines := 0

	for _, file := range files {
		if shouldSkip(file.Path) {
			continue
		}
		language := lang.Detect(file.Path)
		if language == lang.Unknown {
			continue
		}
		lines := file.Additions + file.Deletions
		lineChanges[language] += lines
		totalLines += lines
	}

	if totalLines == 0 {
		return DefaultPriorities(), true
	}

	priorities := make(map[string]float64, len(lineChanges))
	for language, lines := range lineChanges {
		share := float64(lines) / float64(totalLines) * 100
		priorities[language] = round1(50 + share*0.5)
	}
	return priorities, false
}

func shouldSkip(path string) bool {
	for _, pattern := range skipPatterns {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// DefaultPriorities is the fallback table used when the PR offers no
// language signal. Intentionally flat: general-purpose languages at 70,
// markup and styles at 60, data/config formats at 40, markdown at 30,
// plain text at 20.
func DefaultPriorities() map[string]float64 {
	return map[string]float64{
		"python":     70,
		"javascript": 70,
		"typescript": 70,
		"java":       70,
		"go":         70,
		"rust":       70,
		"c":          70,
		"cpp":        70,
		"ruby":       70,
		"php":        70,
		"swift":      70,
		"kotlin":     70,
		"html":       60,
		"css":        60,
		"scss":       60,
		"json":       40,
		"yaml":       40,
		"xml":        40,
		"markdown":   30,
		"text":       20,
	}
}

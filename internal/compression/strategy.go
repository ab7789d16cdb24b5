package compression

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// TokenCounter estimates the token cost of a text blob. Count must be
// deterministic and must never fail.
type TokenCounter interface {
	Count(text string) int
}

// LanguageAnalyzer computes per-language priority scores for one PR
// snapshot. Implementations own their caching; a degraded cache must
// fall back to computing fresh scores rather than returning an error.
type LanguageAnalyzer interface {
	Analyze(ctx context.Context, key ReviewKey, files []FileChange) map[string]float64
}

// Strategy compresses a PR's changed files into a token-budgeted Result.
type Strategy interface {
	Compress(ctx context.Context, key ReviewKey, files []FileChange) (*Result, error)
}

// Deps are the collaborators a strategy needs. All fields except Logger
// are required.
type Deps struct {
	Counter   TokenCounter
	Languages LanguageAnalyzer
	Logger    *zap.Logger
}

func (d Deps) validate() error {
	if d.Counter == nil {
		return fmt.Errorf("token counter is required")
	}
	if d.Languages == nil {
		return fmt.Errorf("language analyzer is required")
	}
	return nil
}

// Factory constructs a strategy from a validated config.
type Factory func(cfg Config, deps Deps) (Strategy, error)

// strategies is the name -> constructor registry. A single "smart"
// strategy exists today; the registry keeps the door open for
// alternatives without inheritance depth.
var strategies = map[string]Factory{
	"smart": newSmartStrategy,
}

// New builds the named strategy. Unknown names and invalid configs fail
// fast, before any compression work begins.
func New(name string, cfg Config, deps Deps) (Strategy, error) {
	factory, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown compression strategy %q, available: %v", name, Names())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid compression config: %w", err)
	}
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("invalid compression deps: %w", err)
	}
	return factory(cfg, deps)
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

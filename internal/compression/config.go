package compression

import "fmt"

// Config holds the immutable policy parameters for one compression run.
// Tier budget fractions are each applied independently against MaxTokens.
type Config struct {
	MaxTokens int `koanf:"max_tokens"`

	// Preservation settings
	PreserveContextLines int `koanf:"preserve_context_lines"`

	// Token allocation fractions
	FullDiffTokenBudget float64 `koanf:"full_diff_token_budget"`
	SummaryTokenBudget  float64 `koanf:"summary_token_budget"`
	ListedTokenBudget   float64 `koanf:"listed_token_budget"`

	// Scoring weights
	CriticalPatternBonus    float64 `koanf:"critical_pattern_bonus"`
	LanguageBonusMultiplier float64 `koanf:"language_bonus_multiplier"`
	AdditionsWeight         float64 `koanf:"additions_weight"`
	DeletionsWeight         float64 `koanf:"deletions_weight"`
	TestFilePenalty         float64 `koanf:"test_file_penalty"`
	DocFilePenalty          float64 `koanf:"doc_file_penalty"`
}

// DefaultConfig returns the documented default policy: 50k tokens split
// 75/20/5 across the tiers.
func DefaultConfig() Config {
	return Config{
		MaxTokens:            50000,
		PreserveContextLines: 3,

		FullDiffTokenBudget: 0.75,
		SummaryTokenBudget:  0.20,
		ListedTokenBudget:   0.05,

		CriticalPatternBonus:    50.0,
		LanguageBonusMultiplier: 0.3,
		AdditionsWeight:         0.1,
		DeletionsWeight:         0.05,
		TestFilePenalty:         0.7,
		DocFilePenalty:          0.5,
	}
}

// Validate rejects invariant violations before any work begins: the
// budget must be positive, each tier fraction must lie in [0,1] and the
// three together must not oversubscribe the budget, weights must be
// non-negative, and penalty multipliers must lie in [0,1] so they only
// ever scale scores downward.
func (c Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.PreserveContextLines < 0 {
		return fmt.Errorf("preserve_context_lines must be non-negative, got %d", c.PreserveContextLines)
	}

	fractions := map[string]float64{
		"full_diff_token_budget": c.FullDiffTokenBudget,
		"summary_token_budget":   c.SummaryTokenBudget,
		"listed_token_budget":    c.ListedTokenBudget,
	}
	for name, f := range fractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("%s must be in [0,1], got %g", name, f)
		}
	}
	if sum := c.FullDiffTokenBudget + c.SummaryTokenBudget + c.ListedTokenBudget; sum > 1.0 {
		return fmt.Errorf("tier budget fractions sum to %g, exceeding the token budget", sum)
	}

	weights := map[string]float64{
		"critical_pattern_bonus":    c.CriticalPatternBonus,
		"language_bonus_multiplier": c.LanguageBonusMultiplier,
		"additions_weight":          c.AdditionsWeight,
		"deletions_weight":          c.DeletionsWeight,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must be non-negative, got %g", name, w)
		}
	}

	penalties := map[string]float64{
		"test_file_penalty": c.TestFilePenalty,
		"doc_file_penalty":  c.DocFilePenalty,
	}
	for name, p := range penalties {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0,1], got %g", name, p)
		}
	}

	return nil
}

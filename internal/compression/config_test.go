package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "negative max tokens",
			mutate:  func(c *Config) { c.MaxTokens = -1 },
			wantErr: "max_tokens",
		},
		{
			name:    "zero max tokens",
			mutate:  func(c *Config) { c.MaxTokens = 0 },
			wantErr: "max_tokens",
		},
		{
			name:    "fraction above one",
			mutate:  func(c *Config) { c.FullDiffTokenBudget = 1.2 },
			wantErr: "full_diff_token_budget",
		},
		{
			name:    "negative fraction",
			mutate:  func(c *Config) { c.SummaryTokenBudget = -0.1 },
			wantErr: "summary_token_budget",
		},
		{
			name: "fractions oversubscribe the budget",
			mutate: func(c *Config) {
				c.FullDiffTokenBudget = 0.9
				c.SummaryTokenBudget = 0.9
			},
			wantErr: "exceeding the token budget",
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.AdditionsWeight = -0.5 },
			wantErr: "additions_weight",
		},
		{
			name:    "penalty above one",
			mutate:  func(c *Config) { c.TestFilePenalty = 1.5 },
			wantErr: "test_file_penalty",
		},
		{
			name:    "negative context lines",
			mutate:  func(c *Config) { c.PreserveContextLines = -1 },
			wantErr: "preserve_context_lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_FractionsNeedNotSumToOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FullDiffTokenBudget = 0.5
	cfg.SummaryTokenBudget = 0.1
	cfg.ListedTokenBudget = 0.05
	assert.NoError(t, cfg.Validate())
}

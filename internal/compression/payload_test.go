package compression

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressForPayload(t *testing.T) *Result {
	t.Helper()

	files := []FileChange{
		{Path: "auth/session.py", Status: StatusModified, Additions: 10, Deletions: 2,
			Patch: "+token = generate()\n-old_token = None\n"},
		{Path: "web/app.js", Status: StatusAdded, Additions: 4,
			Patch: "+const app = init()\n"},
		{Path: "README.md", Status: StatusModified, Additions: 3, Patch: "+docs\n"},
	}

	// Budgets sized so each file lands in a different tier: the auth
	// patch (9 tokens) fills the full tier, the JS file takes the one
	// summary slot, and the README overflows to listed.
	cfg := DefaultConfig()
	cfg.MaxTokens = 300
	cfg.FullDiffTokenBudget = 0.03
	cfg.SummaryTokenBudget = 0.20
	cfg.ListedTokenBudget = 0.05

	s := newTestStrategy(t, cfg, stubCounter{}, map[string]float64{"python": 70})
	result, err := s.Compress(context.Background(), testReviewKey, files)
	require.NoError(t, err)

	require.NotEmpty(t, result.IncludedFull)
	require.NotEmpty(t, result.IncludedSummary)
	require.NotEmpty(t, result.IncludedListed)
	return result
}

func TestPayload_RoundTrip(t *testing.T) {
	result := compressForPayload(t)

	raw, err := json.Marshal(result.Payload())
	require.NoError(t, err)

	var decoded struct {
		Strategy string         `json:"strategy"`
		Stats    map[string]any `json:"stats"`
		Files    struct {
			Full    []map[string]any `json:"full"`
			Summary []map[string]any `json:"summary"`
			Listed  []string         `json:"listed"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "smart", decoded.Strategy)

	// JSON numbers decode as float64.
	assert.EqualValues(t, len(result.OriginalFiles), decoded.Stats["total_files"])
	assert.EqualValues(t, len(result.IncludedFull), decoded.Stats["included_full"])
	assert.EqualValues(t, len(result.IncludedSummary), decoded.Stats["included_summary"])
	assert.EqualValues(t, len(result.IncludedListed), decoded.Stats["included_listed"])
	assert.EqualValues(t, result.OriginalTokens, decoded.Stats["original_tokens"])
	assert.EqualValues(t, result.CompressedTokens, decoded.Stats["compressed_tokens"])
	assert.InDelta(t, result.CompressionRatio, decoded.Stats["compression_ratio"].(float64), 0.0001)

	total := len(decoded.Files.Full) + len(decoded.Files.Summary) + len(decoded.Files.Listed)
	assert.Equal(t, len(result.OriginalFiles), total)
}

func TestPayload_PatchOnlyInFullTier(t *testing.T) {
	result := compressForPayload(t)
	require.NotEmpty(t, result.IncludedFull)

	raw, err := json.Marshal(result.Payload())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	files := decoded["files"].(map[string]any)

	for _, entry := range files["full"].([]any) {
		m := entry.(map[string]any)
		assert.Contains(t, m, "patch")
		assert.Contains(t, m, "path")
		assert.Contains(t, m, "importance_score")
		assert.Contains(t, m, "is_critical")
	}
	for _, entry := range files["summary"].([]any) {
		m := entry.(map[string]any)
		assert.NotContains(t, m, "patch")
		assert.Contains(t, m, "importance_score")
	}
	// Listed entries are bare path strings, not objects.
	for _, entry := range files["listed"].([]any) {
		_, ok := entry.(string)
		assert.True(t, ok, "listed entries must be strings")
	}
}

func TestPayload_FullTierKeepsEmptyPatchKey(t *testing.T) {
	sf := ScoredFile{
		File:       PreparedFile{File: FileChange{Path: "auth/empty.py", Status: StatusModified}},
		IsCritical: true,
		Tier:       TierFull,
	}
	r := &Result{
		Strategy:     "smart",
		IncludedFull: []ScoredFile{sf},
	}

	raw, err := json.Marshal(r.Payload())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	full := decoded["files"].(map[string]any)["full"].([]any)
	require.Len(t, full, 1)
	assert.Contains(t, full[0].(map[string]any), "patch")
}

func TestPayload_ScoreRoundedToTwoDecimals(t *testing.T) {
	sf := ScoredFile{
		File:            PreparedFile{File: FileChange{Path: "a.py"}},
		ImportanceScore: 72.10000000001,
		Tier:            TierSummary,
	}
	r := &Result{Strategy: "smart", IncludedSummary: []ScoredFile{sf}}

	p := r.Payload()
	assert.Equal(t, 72.1, p.Files.Summary[0].ImportanceScore)
}

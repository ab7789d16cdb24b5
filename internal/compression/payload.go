package compression

import "math"

// Payload is the serialized form of a Result, consumed downstream by the
// prompt renderer and the diff cache. Field names and shape are a
// compatibility contract: the patch key appears only under files.full,
// and files.listed holds bare path strings.
type Payload struct {
	Strategy string         `json:"strategy"`
	Stats    map[string]any `json:"stats"`
	Files    PayloadFiles   `json:"files"`
}

// PayloadFiles groups the serialized tiers.
type PayloadFiles struct {
	Full    []FilePayload `json:"full"`
	Summary []FilePayload `json:"summary"`
	Listed  []string      `json:"listed"`
}

// FilePayload is one serialized file. Patch is a pointer so that full-tier
// entries always carry the key (even for an empty diff) while summary
// entries never do.
type FilePayload struct {
	Path            string  `json:"path"`
	Status          string  `json:"status"`
	Additions       int     `json:"additions"`
	Deletions       int     `json:"deletions"`
	Language        string  `json:"language"`
	ImportanceScore float64 `json:"importance_score"`
	IsCritical      bool    `json:"is_critical"`
	Patch           *string `json:"patch,omitempty"`
}

// Payload flattens the result for transport. Stats carries the canonical
// counters plus any strategy-specific keys.
func (r *Result) Payload() Payload {
	stats := map[string]any{
		"total_files":       len(r.OriginalFiles),
		"included_full":     len(r.IncludedFull),
		"included_summary":  len(r.IncludedSummary),
		"included_listed":   len(r.IncludedListed),
		"original_tokens":   r.OriginalTokens,
		"compressed_tokens": r.CompressedTokens,
		"compression_ratio": r.CompressionRatio,
	}
	for k, v := range r.Stats {
		stats[k] = v
	}

	full := make([]FilePayload, 0, len(r.IncludedFull))
	for _, sf := range r.IncludedFull {
		full = append(full, filePayload(sf, true))
	}

	summary := make([]FilePayload, 0, len(r.IncludedSummary))
	for _, sf := range r.IncludedSummary {
		summary = append(summary, filePayload(sf, false))
	}

	listed := make([]string, 0, len(r.IncludedListed))
	for _, sf := range r.IncludedListed {
		listed = append(listed, sf.File.File.Path)
	}

	return Payload{
		Strategy: r.Strategy,
		Stats:    stats,
		Files: PayloadFiles{
			Full:    full,
			Summary: summary,
			Listed:  listed,
		},
	}
}

func filePayload(sf ScoredFile, includePatch bool) FilePayload {
	p := FilePayload{
		Path:            sf.File.File.Path,
		Status:          sf.File.File.Status,
		Additions:       sf.File.File.Additions,
		Deletions:       sf.File.File.Deletions,
		Language:        sf.File.Language,
		ImportanceScore: round2(sf.ImportanceScore),
		IsCritical:      sf.IsCritical,
	}
	if includePatch {
		patchText := sf.File.Patch
		p.Patch = &patchText
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

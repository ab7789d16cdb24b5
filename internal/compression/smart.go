package compression

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/diffpress/internal/lang"
	"github.com/fyrsmithlabs/diffpress/internal/patch"
)

// Token-cost constants for the summary and listed tiers. A summary covers
// the filename and change stats, an extra description for critical files,
// and roughly ten tokens per extracted signature, capped per file. A
// listing is the bare path.
const (
	summaryBaseTokens      = 50
	summaryCriticalTokens  = 100
	summarySignatureTokens = 10
	summaryMaxTokens       = 200
	listedTokens           = 20

	// Deleting a critical file is highly visible to reviewers.
	criticalDeletionBonus = 30
)

// smartStrategy prioritizes files by review importance and degrades them
// through three tiers (full diff, summary, filename-only) under the
// configured token budget.
type smartStrategy struct {
	config    Config
	counter   TokenCounter
	languages LanguageAnalyzer
	log       *zap.Logger
}

func newSmartStrategy(cfg Config, deps Deps) (Strategy, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &smartStrategy{
		config:    cfg,
		counter:   deps.Counter,
		languages: deps.Languages,
		log:       log,
	}, nil
}

// Compress runs the end-to-end pipeline: prepare, score, sort, allocate,
// aggregate. A nil or empty file list yields an empty Result; deciding
// that an empty result means "nothing to review" is the caller's job.
func (s *smartStrategy) Compress(ctx context.Context, key ReviewKey, files []FileChange) (*Result, error) {
	prepared := s.prepare(files)
	priorities := s.languages.Analyze(ctx, key, files)

	scored := s.score(prepared, priorities)

	// Stable sort keeps the original list order on ties, so identical
	// inputs always produce identical tier assignments.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ImportanceScore > scored[j].ImportanceScore
	})

	full, summary, listed := s.allocate(scored)

	originalTokens := 0
	for _, sf := range scored {
		originalTokens += sf.File.Tokens
	}
	compressedTokens := s.compressedTokens(full, summary, listed)

	ratio := 1.0
	if originalTokens > 0 {
		ratio = float64(compressedTokens) / float64(originalTokens)
	}

	return &Result{
		OriginalFiles:    prepared,
		OriginalTokens:   originalTokens,
		IncludedFull:     full,
		IncludedSummary:  summary,
		IncludedListed:   listed,
		CompressedTokens: compressedTokens,
		CompressionRatio: ratio,
		Strategy:         "smart",
		Stats:            s.stats(scored, full, summary, listed),
	}, nil
}

// prepare filters out binary and generated files and derives language,
// rewritten patch, and token count for the survivors. Critical files keep
// their deletion hunks (via the context expander); everyone else has
// deletion-only hunks stripped.
func (s *smartStrategy) prepare(files []FileChange) []PreparedFile {
	prepared := make([]PreparedFile, 0, len(files))

	for _, file := range files {
		if file.IsBinary || lang.IsGenerated(file.Path) {
			continue
		}
		if file.Patch == "" {
			s.log.Warn("file has no patch text, treating as empty diff",
				zap.String("path", file.Path),
				zap.String("status", file.Status))
		}

		patchText := file.Patch
		if lang.IsCritical(file.Path) {
			patchText = patch.ExpandContext(patchText, s.config.PreserveContextLines, s.config.PreserveContextLines)
		} else {
			patchText = patch.RemoveDeletionOnlyHunks(patchText)
		}

		prepared = append(prepared, PreparedFile{
			File:     file,
			Language: lang.Detect(file.Path),
			Patch:    patchText,
			Tokens:   s.counter.Count(patchText),
		})
	}

	return prepared
}

// score computes each file's importance. Critical-pattern match, language
// priority, and change size add up; test and doc penalties then scale the
// sum down multiplicatively (test takes priority when both match); a
// removed critical file gets an extra uncapped bonus on top. The final
// score is deliberately not clamped.
func (s *smartStrategy) score(files []PreparedFile, priorities map[string]float64) []ScoredFile {
	scored := make([]ScoredFile, 0, len(files))

	for _, file := range files {
		sf := ScoredFile{File: file, Tier: TierUnset}
		score := 0.0

		sf.IsCritical = lang.IsCritical(file.File.Path)
		sf.IsTest = lang.IsTest(file.File.Path)
		sf.IsDoc = lang.IsDoc(file.File.Path)

		if sf.IsCritical {
			sf.CriticalBonus = s.config.CriticalPatternBonus
			score += sf.CriticalBonus
		}

		priority, ok := priorities[file.Language]
		if !ok {
			priority = 50
		}
		sf.LanguageBonus = priority * s.config.LanguageBonusMultiplier
		score += sf.LanguageBonus

		additionsScore := math.Min(float64(file.File.Additions)*s.config.AdditionsWeight, 20)
		deletionsScore := math.Min(float64(file.File.Deletions)*s.config.DeletionsWeight, 10)
		sf.SizeBonus = additionsScore + deletionsScore
		score += sf.SizeBonus

		switch {
		case sf.IsTest:
			score *= s.config.TestFilePenalty
			sf.TypePenalty = -(1 - s.config.TestFilePenalty)
		case sf.IsDoc:
			score *= s.config.DocFilePenalty
			sf.TypePenalty = -(1 - s.config.DocFilePenalty)
		}

		if file.File.IsDeleted() && sf.IsCritical {
			score += criticalDeletionBonus
		}

		sf.ImportanceScore = score
		scored = append(scored, sf)
	}

	return scored
}

// allocate walks the score-descending list three times, one pass per
// tier. The full and summary passes are strict greedy prefixes: the first
// file that would exceed the tier budget ends the pass, even if a later
// file would individually fit. The listed pass force-appends once its
// budget runs out so that no file is silently dropped.
func (s *smartStrategy) allocate(scored []ScoredFile) (full, summary, listed []ScoredFile) {
	fullBudget := int(float64(s.config.MaxTokens) * s.config.FullDiffTokenBudget)
	summaryBudget := int(float64(s.config.MaxTokens) * s.config.SummaryTokenBudget)
	listedBudget := int(float64(s.config.MaxTokens) * s.config.ListedTokenBudget)

	fullUsed, summaryUsed, listedUsed := 0, 0, 0

	for i := range scored {
		if fullUsed+scored[i].File.Tokens > fullBudget {
			break
		}
		scored[i].Tier = TierFull
		full = append(full, scored[i])
		fullUsed += scored[i].File.Tokens
	}

	for i := range scored {
		if scored[i].Tier != TierUnset {
			continue
		}
		cost := s.estimateSummaryTokens(scored[i])
		if summaryUsed+cost > summaryBudget {
			break
		}
		scored[i].Tier = TierSummary
		summary = append(summary, scored[i])
		summaryUsed += cost
	}

	for i := range scored {
		if scored[i].Tier != TierUnset {
			continue
		}
		scored[i].Tier = TierListed
		listed = append(listed, scored[i])
		if listedUsed+listedTokens <= listedBudget {
			listedUsed += listedTokens
		}
	}

	return full, summary, listed
}

// estimateSummaryTokens prices a file's summary: path and stats, a brief
// description when critical, and the extracted function signatures.
func (s *smartStrategy) estimateSummaryTokens(sf ScoredFile) int {
	cost := summaryBaseTokens
	if sf.IsCritical {
		cost += summaryCriticalTokens
	}

	signatures := patch.ExtractFunctionSignatures(sf.File.Patch, sf.File.Language)
	cost += len(signatures) * summarySignatureTokens

	if cost > summaryMaxTokens {
		return summaryMaxTokens
	}
	return cost
}

func (s *smartStrategy) compressedTokens(full, summary, listed []ScoredFile) int {
	total := 0
	for _, sf := range full {
		total += sf.File.Tokens
	}
	for _, sf := range summary {
		total += s.estimateSummaryTokens(sf)
	}
	total += len(listed) * listedTokens
	return total
}

func (s *smartStrategy) stats(scored, full, summary, listed []ScoredFile) map[string]any {
	totalAdditions, totalDeletions := 0, 0
	criticalFiles := 0
	languages := make(map[string]int)

	for _, sf := range scored {
		totalAdditions += sf.File.File.Additions
		totalDeletions += sf.File.File.Deletions
		if sf.IsCritical {
			criticalFiles++
		}
		languages[sf.File.Language]++
	}

	stats := map[string]any{
		"total_files":     len(scored),
		"total_additions": totalAdditions,
		"total_deletions": totalDeletions,

		"included_full":    len(full),
		"included_summary": len(summary),
		"included_listed":  len(listed),

		"critical_files":      criticalFiles,
		"critical_in_full":    countCritical(full),
		"critical_in_summary": countCritical(summary),

		"languages": languages,
	}

	// Score distribution is undefined over zero files; the keys are
	// omitted rather than fabricated.
	if len(scored) > 0 {
		minScore, maxScore, sum := scored[0].ImportanceScore, scored[0].ImportanceScore, 0.0
		for _, sf := range scored {
			sum += sf.ImportanceScore
			minScore = math.Min(minScore, sf.ImportanceScore)
			maxScore = math.Max(maxScore, sf.ImportanceScore)
		}
		stats["avg_importance_score"] = sum / float64(len(scored))
		stats["max_importance_score"] = maxScore
		stats["min_importance_score"] = minScore
	}

	return stats
}

func countCritical(files []ScoredFile) int {
	n := 0
	for _, sf := range files {
		if sf.IsCritical {
			n++
		}
	}
	return n
}

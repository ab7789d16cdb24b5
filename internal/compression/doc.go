// Package compression fits a pull request's changed files into a fixed
// LLM token budget with a deterministic, explainable priority policy.
//
// The smart strategy scores every file by review importance (critical
// path patterns, language relevance, change size, with test/doc
// discounts), sorts descending, and greedily packs files into three
// degradation tiers: full diff, summary, and filename-only. Files that
// overflow even the listing budget are still listed, so no change is
// silently dropped.
package compression

// Package patch rewrites and inspects unified-diff patch text.
package patch

import (
	"regexp"
	"strings"
)

// signaturePatterns extracts function or method names from patch lines,
// one regexp per supported language. Lines may carry a leading "+" from
// the diff. Languages without an entry yield no signatures.
var signaturePatterns = map[string]*regexp.Regexp{
	"python":     regexp.MustCompile(`^\+?def\s+(\w+)\s*\(`),
	"javascript": regexp.MustCompile(`^\+?function\s+(\w+)\s*\(|^\+?const\s+(\w+)\s*=\s*\(`),
	"typescript": regexp.MustCompile(`^\+?function\s+(\w+)\s*\(|^\+?const\s+(\w+)\s*=\s*\(`),
	"java":       regexp.MustCompile(`^\+?\s*(?:public|private|protected)?\s*\w+\s+(\w+)\s*\(`),
}

// RemoveDeletionOnlyHunks drops hunks that contain no addition lines.
// Hunks are delimited by "@@" header lines; preamble lines before the
// first hunk (file headers and the like) always pass through unchanged.
// Pure-deletion hunks cost tokens without adding review value.
func RemoveDeletionOnlyHunks(patchText string) string {
	lines := strings.Split(patchText, "\n")
	var result []string
	var hunk []string
	inHunk := false
	hasAdditions := false

	flush := func() {
		if inHunk && hasAdditions {
			result = append(result, hunk...)
		}
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "@@"):
			flush()
			hunk = []string{line}
			inHunk = true
			hasAdditions = false
		case inHunk:
			hunk = append(hunk, line)
			if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
				hasAdditions = true
			}
		default:
			result = append(result, line)
		}
	}
	flush()

	return strings.Join(result, "\n")
}

// ExpandContext widens the context window around changed lines.
//
// The contract allows a fetch-based implementation backed by the full
// source file; until that is wired in, the patch is returned unmodified
// so that critical files keep their deletion hunks intact.
func ExpandContext(patchText string, linesBefore, linesAfter int) string {
	return patchText
}

// ExtractFunctionSignatures collects function/method names referenced in
// the patch for the given language, in first-seen order. Duplicates are
// preserved; unsupported languages yield nil.
func ExtractFunctionSignatures(patchText, language string) []string {
	re, ok := signaturePatterns[language]
	if !ok {
		return nil
	}

	var signatures []string
	for _, line := range strings.Split(patchText, "\n") {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, group := range m[1:] {
			if group != "" {
				signatures = append(signatures, group)
				break
			}
		}
	}
	return signatures
}

package lang

import "strings"

// criticalPatterns flag paths whose changes deserve reviewer attention
// regardless of size. Matched case-insensitively.
var criticalPatterns = []string{
	// Security & Auth
	"auth", "security", "crypto", "password", "token",
	"session", "jwt", "oauth", "permission", "acl",

	// Financial
	"payment", "billing", "invoice", "transaction",
	"checkout", "cart", "order",

	// Data
	"migration", "schema", "model", "database",

	// API
	"api/", "/api/", "routes/", "endpoint", "controller",
	"graphql", "rest",

	// Infrastructure
	"middleware", "interceptor", "filter",
	"config/production", "config/prod",
}

var testPatterns = []string{
	"test_", "_test.", "test/", "/test/",
	"tests/", "/tests/", "spec/", "/spec/",
	"__tests__/", "*.test.", "*.spec.",
}

var docPatterns = []string{
	"README", "CHANGELOG", "CONTRIBUTING",
	"LICENSE", "docs/", "/docs/",
	".md", ".rst", ".txt",
}

var generatedPatterns = []string{
	"package-lock.json", "yarn.lock", "Gemfile.lock",
	"Pipfile.lock", "poetry.lock",
	"node_modules/", "vendor/", "dist/", "build/",
	".min.js", ".min.css",
}

// IsCritical reports whether the path matches a critical pattern.
// Comparison is case-insensitive; the remaining classifiers match raw
// case. A path may satisfy several classifiers at once.
func IsCritical(path string) bool {
	return containsAny(strings.ToLower(path), criticalPatterns)
}

// IsTest reports whether the path looks like a test file.
func IsTest(path string) bool {
	return containsAny(path, testPatterns)
}

// IsDoc reports whether the path looks like documentation.
func IsDoc(path string) bool {
	return containsAny(path, docPatterns)
}

// IsGenerated reports whether the path is generated or vendored content
// that should never be reviewed.
func IsGenerated(path string) bool {
	return containsAny(path, generatedPatterns)
}

func containsAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

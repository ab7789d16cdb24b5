// Package lang maps file paths to language tags and review-relevant
// classifications (critical, test, doc, generated).
package lang

import "strings"

// extensions maps path suffixes to language tags. Longest-suffix wins so
// that ".min.js" style entries in other tables stay unambiguous.
var extensions = map[string]string{
	// Compiled languages
	".py":    "python",
	".java":  "java",
	".c":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".h":     "c",
	".hpp":   "cpp",
	".go":    "go",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",

	// Scripting languages
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".rb":   "ruby",
	".php":  "php",
	".pl":   "perl",
	".sh":   "shell",
	".bash": "shell",

	// Web
	".html": "html",
	".htm":  "html",
	".css":  "css",
	".scss": "scss",
	".sass": "sass",
	".vue":  "vue",

	// Data/Config
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".xml":  "xml",
	".toml": "toml",
	".ini":  "ini",

	// Documentation
	".md":  "markdown",
	".rst": "restructuredtext",
	".txt": "text",

	// Other
	".sql":     "sql",
	".graphql": "graphql",
}

// Unknown is returned by Detect when no suffix matches.
const Unknown = "unknown"

// Detect returns the language tag for a file path, matching the longest
// known suffix. Paths with no recognized suffix return Unknown.
func Detect(path string) string {
	best := ""
	lang := Unknown
	for ext, l := range extensions {
		if strings.HasSuffix(path, ext) && len(ext) > len(best) {
			best = ext
			lang = l
		}
	}
	return lang
}

package compression

// Tier indicates how much of a file's change survives compression.
type Tier string

const (
	// TierFull keeps the complete patch.
	TierFull Tier = "full"
	// TierSummary keeps stats and extracted signatures, no patch body.
	TierSummary Tier = "summary"
	// TierListed keeps the path only.
	TierListed Tier = "listed"
	// TierUnset marks a file not yet allocated.
	TierUnset Tier = ""
)

// File statuses as reported by the source-control file listing.
const (
	StatusAdded    = "added"
	StatusModified = "modified"
	StatusRemoved  = "removed"
	StatusRenamed  = "renamed"
)

// FileChange is one file touched by a pull request, exactly as delivered
// by the file-listing collaborator. It is never mutated by the engine;
// derived fields live on PreparedFile.
type FileChange struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch"`
	IsBinary  bool   `json:"is_binary"`
}

// IsDeleted reports whether the file was removed by the PR.
func (f FileChange) IsDeleted() bool { return f.Status == StatusRemoved }

// PreparedFile carries a FileChange plus the fields derived during the
// prepare phase: detected language, the possibly rewritten patch, and its
// token count.
type PreparedFile struct {
	File     FileChange
	Language string
	Patch    string
	Tokens   int
}

// ScoredFile is a prepared file with its importance score, the per-term
// breakdown kept for observability, its classification flags, and the
// tier assigned during allocation. The tier is written exactly once.
type ScoredFile struct {
	File PreparedFile

	ImportanceScore float64

	// Score breakdown
	CriticalBonus float64
	LanguageBonus float64
	SizeBonus     float64
	TypePenalty   float64

	// Classification (multi-label)
	IsCritical bool
	IsTest     bool
	IsDoc      bool

	Tier Tier
}

// ReviewKey identifies one compression run's PR snapshot. It has no
// semantic meaning inside the engine beyond cache-key uniqueness.
type ReviewKey struct {
	Repo     string
	PRNumber int
	HeadSHA  string
}

// Result is the output of one compression run. The three tier slices
// partition the prepared files; it is read-only after construction.
type Result struct {
	OriginalFiles  []PreparedFile
	OriginalTokens int

	IncludedFull    []ScoredFile
	IncludedSummary []ScoredFile
	IncludedListed  []ScoredFile

	CompressedTokens int
	CompressionRatio float64
	Strategy         string

	Stats map[string]any
}

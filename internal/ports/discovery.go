package ports

import "repotabs/internal/domain"

// Discoverer finds repositories under workspace roots using marker-file
// heuristics. Pure function of filesystem state; filesystem errors are
// treated as "no marker found".
type Discoverer interface {
	// Discover returns the repository paths found under roots. When
	// scanSubdirectories is true, immediate subdirectories of each root
	// are classified individually; otherwise each root is one candidate.
	Discover(roots []string, scanSubdirectories bool) []string

	// IsRepository reports whether path still satisfies the repository
	// predicate (used when pruning stale tabs)
	IsRepository(path string) bool

	// Classify assigns the icon for a repository path, first matching
	// rule wins
	Classify(path string) domain.TabIcon
}

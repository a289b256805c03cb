package ports

// MarkerStore persists the last-seen modification marker between runs.
// It is the only state that survives a run.
type MarkerStore interface {
	// Load returns the stored marker, or "" when none is available.
	// Corrupt or unreadable state degrades to "" (always-fetch),
	// never to an error.
	Load() (string, error)

	// Store atomically replaces the marker.
	Store(marker string) error
}

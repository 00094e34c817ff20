package cache

import "time"

// Key identifies a distinct servable response. Two keys are equal only when
// all three fields match exactly; there is no fuzzy matching across
// resolutions.
type Key struct {
	UserID     int64
	Resolution int
	Color      string
}

// Entry is a fully processed response held by the memory tier. Entries are
// immutable once published; replacement is a whole-entry swap.
type Entry struct {
	// Buffer holds the processed PNG bytes.
	Buffer []byte

	// ETag is a weak validator derived from a content hash of Buffer.
	ETag string

	// ModTime backs the Last-Modified header and the If-Modified-Since
	// comparison.
	ModTime time.Time

	// LastRefresh is the time of the most recent successful (re)population
	// and is the staleness baseline for stale-while-revalidate.
	LastRefresh time.Time

	// Resolution and Color record the parameters that produced Buffer.
	Resolution int
	Color      string
}

// Stale reports whether the entry should be refreshed. Staleness never
// invalidates the entry; the stale bytes keep being served while a refresh
// runs in the background.
func (e *Entry) Stale(now time.Time, staleAfter time.Duration) bool {
	return now.Sub(e.LastRefresh) > staleAfter
}

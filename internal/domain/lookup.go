package domain

import (
	"context"
	"time"
)

// Lookup is a journal entry describing one handled proxy request.
// It is written after the response is decided and never feeds back into one.
type Lookup struct {
	Route      string    `json:"route"`
	Query      string    `json:"query"`
	Status     int       `json:"status"`
	Outcome    string    `json:"outcome"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// LookupRepository defines the interface for the lookup journal.
// The domain owns the interface; postgres and no-op implementations live in repository/.
type LookupRepository interface {
	// SaveLookup persists a single journal entry
	SaveLookup(ctx context.Context, l Lookup) error

	// GetRecentLookups returns entries recorded between from and to, newest first
	GetRecentLookups(ctx context.Context, from, to time.Time) ([]Lookup, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}

package ports

import (
	"context"
	"time"

	"habitink/internal/domain"
)

// HabitSource fetches habit state from the remote tracking database.
type HabitSource interface {
	// ProbeChanged issues a minimal metadata query and reports whether
	// anything changed since lastMarker, returning the fresh marker.
	// It never transfers row payloads.
	ProbeChanged(ctx context.Context, lastMarker string) (changed bool, marker string, err error)

	// FetchHabits retrieves habit definitions from the metadata
	// database, including deactivated ones.
	FetchHabits(ctx context.Context) ([]domain.Habit, error)

	// FetchDay retrieves the record for one calendar date. A date with
	// no row yields an empty record, not an error.
	FetchDay(ctx context.Context, day time.Time) (domain.DailyRecord, error)

	// FetchRange retrieves all records in [from, to], oldest first.
	// Missing dates are simply absent from the result.
	FetchRange(ctx context.Context, from, to time.Time) ([]domain.DailyRecord, error)
}

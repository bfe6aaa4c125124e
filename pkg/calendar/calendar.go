package calendar

import (
	"context"
	"time"
)

// Source is a read-only calendar. Implementations fetch events overlapping
// the [from, to] window from a remote system.
type Source interface {
	GetEvents(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
}

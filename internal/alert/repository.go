package alert

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no alert matches the id and owner.
var ErrNotFound = errors.New("alert not found")

// Repository provides operations on the alerts table.
type Repository interface {
	Create(ctx context.Context, a *Alert) error
	List(ctx context.Context, userID string, filter ListFilter) ([]Alert, error)
	Acknowledge(ctx context.Context, id, userID string) error
	// CountUnacknowledged counts open alerts; an empty severity matches any.
	CountUnacknowledged(ctx context.Context, userID, severity string) (int, error)
}

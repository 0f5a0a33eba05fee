package detection

import (
	"context"
	"time"
)

// Repository provides operations on the detections table. Detections are
// immutable, so there is no update or delete.
type Repository interface {
	Create(ctx context.Context, d *Detection) error
	List(ctx context.Context, userID string, filter Filter) ([]Detection, error)
	// Count counts detections owned by userID; an empty detectionType matches any.
	Count(ctx context.Context, userID, detectionType string) (int, error)
	// Since returns at most limit points at or after cutoff, newest first.
	Since(ctx context.Context, userID string, cutoff time.Time, limit int) ([]Point, error)
}

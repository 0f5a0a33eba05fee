package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadsentinel/roadsentinel/internal/store"
)

const detectionColumns = `detection_id, camera_id, camera_name, detection_type, confidence,
	lat, lng, location, severity, occurred_at, user_id`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// NewID generates a detection id.
func NewID() string {
	return store.NewID("det", 8)
}

// Create inserts a new detection. ID and Timestamp are filled in when empty.
func (r *PostgresRepository) Create(ctx context.Context, d *Detection) error {
	if d.ID == "" {
		d.ID = NewID()
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO detections (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, detectionColumns)

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.CameraID, d.CameraName, d.Type, d.Confidence,
		d.Lat, d.Lng, d.Location, d.Severity, d.Timestamp, d.UserID,
	)
	if err != nil {
		return fmt.Errorf("inserting detection: %w", err)
	}
	return nil
}

// List returns detections owned by userID matching the filter, sorted newest
// first and then paginated.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter Filter) ([]Detection, error) {
	if filter.Limit < 1 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	scope := store.Owner(userID)
	if filter.Type != nil {
		scope.Eq("detection_type", *filter.Type)
	}
	if filter.Severity != nil {
		scope.Eq("severity", *filter.Severity)
	}
	if filter.CameraID != nil {
		scope.Eq("camera_id", *filter.CameraID)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM detections
		%s
		ORDER BY occurred_at DESC, detection_id DESC
		LIMIT %s OFFSET %s`,
		detectionColumns, scope.Where(), scope.Arg(filter.Limit), scope.Arg(filter.Skip))

	rows, err := r.pool.Query(ctx, query, scope.Args()...)
	if err != nil {
		return nil, fmt.Errorf("listing detections: %w", err)
	}
	defer rows.Close()

	detections := []Detection{}
	for rows.Next() {
		var d Detection
		if err := rows.Scan(&d.ID, &d.CameraID, &d.CameraName, &d.Type, &d.Confidence,
			&d.Lat, &d.Lng, &d.Location, &d.Severity, &d.Timestamp, &d.UserID); err != nil {
			return nil, fmt.Errorf("scanning detection row: %w", err)
		}
		detections = append(detections, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating detection rows: %w", err)
	}

	return detections, nil
}

// Count counts detections owned by userID, optionally of one type.
func (r *PostgresRepository) Count(ctx context.Context, userID, detectionType string) (int, error) {
	scope := store.Owner(userID)
	if detectionType != "" {
		scope.Eq("detection_type", detectionType)
	}

	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM detections "+scope.Where(), scope.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting detections: %w", err)
	}
	return count, nil
}

// Since returns the type and timestamp of detections at or after cutoff.
func (r *PostgresRepository) Since(ctx context.Context, userID string, cutoff time.Time, limit int) ([]Point, error) {
	scope := store.Owner(userID).Gte("occurred_at", cutoff)

	query := fmt.Sprintf(`
		SELECT detection_type, occurred_at FROM detections
		%s
		ORDER BY occurred_at DESC
		LIMIT %s`, scope.Where(), scope.Arg(limit))

	rows, err := r.pool.Query(ctx, query, scope.Args()...)
	if err != nil {
		return nil, fmt.Errorf("querying detection timeline: %w", err)
	}
	defer rows.Close()

	points := []Point{}
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Type, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning timeline row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeline rows: %w", err)
	}

	return points, nil
}

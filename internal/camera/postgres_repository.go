package camera

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadsentinel/roadsentinel/internal/store"
)

const cameraColumns = `camera_id, user_id, name, source_url, location, lat, lng, is_active, created_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// NewID generates a camera id.
func NewID() string {
	return store.NewID("cam", 8)
}

// List returns up to ListLimit cameras owned by userID, in no particular order.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Camera, error) {
	scope := store.Owner(userID)
	query := fmt.Sprintf(`SELECT %s FROM cameras %s LIMIT %s`, cameraColumns, scope.Where(), scope.Arg(ListLimit))

	rows, err := r.pool.Query(ctx, query, scope.Args()...)
	if err != nil {
		return nil, fmt.Errorf("listing cameras: %w", err)
	}
	defer rows.Close()

	cameras := []Camera{}
	for rows.Next() {
		var c Camera
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.SourceURL, &c.Location,
			&c.Lat, &c.Lng, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning camera row: %w", err)
		}
		cameras = append(cameras, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating camera rows: %w", err)
	}

	return cameras, nil
}

// Create inserts a new camera. ID and CreatedAt are filled in when empty.
func (r *PostgresRepository) Create(ctx context.Context, c *Camera) error {
	prepare(c)

	query := fmt.Sprintf(`
		INSERT INTO cameras (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, cameraColumns)

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.SourceURL, c.Location,
		c.Lat, c.Lng, c.IsActive, c.CreatedAt,
	)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("inserting camera: %w", err)
	}

	return nil
}

// CreateIfAbsent inserts c unless a camera with the same id already exists,
// regardless of owner. Reports whether a row was inserted.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, c *Camera) (bool, error) {
	prepare(c)

	query := fmt.Sprintf(`
		INSERT INTO cameras (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (camera_id) DO NOTHING`, cameraColumns)

	result, err := r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.SourceURL, c.Location,
		c.Lat, c.Lng, c.IsActive, c.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("inserting camera: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Update replaces the mutable fields of the camera matching id and userID.
func (r *PostgresRepository) Update(ctx context.Context, id, userID string, fields Fields) (*Camera, error) {
	scope := store.Owner(userID).Eq("camera_id", id)

	query := fmt.Sprintf(`
		UPDATE cameras
		SET name = %s, source_url = %s, location = %s, lat = %s, lng = %s, is_active = %s
		%s
		RETURNING %s`,
		scope.Arg(fields.Name), scope.Arg(fields.SourceURL), scope.Arg(fields.Location),
		scope.Arg(fields.Lat), scope.Arg(fields.Lng), scope.Arg(fields.IsActive),
		scope.Where(), cameraColumns)

	return r.scanOne(ctx, query, scope.Args()...)
}

// Delete hard-deletes the camera matching id and userID. Detections that
// reference it are left in place.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	scope := store.Owner(userID).Eq("camera_id", id)

	result, err := r.pool.Exec(ctx, "DELETE FROM cameras "+scope.Where(), scope.Args()...)
	if err != nil {
		return fmt.Errorf("deleting camera: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Get retrieves a camera by id across all owners. Only detection creation
// uses it, to snapshot the camera name and coordinates.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Camera, error) {
	query := fmt.Sprintf(`SELECT %s FROM cameras WHERE camera_id = $1`, cameraColumns)
	return r.scanOne(ctx, query, id)
}

// CountActive returns the number of active cameras owned by userID.
func (r *PostgresRepository) CountActive(ctx context.Context, userID string) (int, error) {
	scope := store.Owner(userID).Eq("is_active", true)

	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM cameras "+scope.Where(), scope.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting active cameras: %w", err)
	}
	return count, nil
}

// scanOne scans a single Camera row from a query. Returns ErrNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Camera, error) {
	var c Camera
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.UserID, &c.Name, &c.SourceURL, &c.Location,
		&c.Lat, &c.Lng, &c.IsActive, &c.CreatedAt,
	)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning camera row: %w", err)
	}
	return &c, nil
}

func prepare(c *Camera) {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}

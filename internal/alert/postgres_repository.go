package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadsentinel/roadsentinel/internal/store"
)

const alertColumns = `alert_id, detection_id, alert_type, message, severity, acknowledged, user_id, occurred_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new alert. ID and Timestamp are filled in when empty.
func (r *PostgresRepository) Create(ctx context.Context, a *Alert) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO alerts (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, alertColumns)

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.DetectionID, a.Type, a.Message, a.Severity, a.Acknowledged, a.UserID, a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return nil
}

// List returns the newest alerts owned by userID, optionally filtered by acknowledgement.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter ListFilter) ([]Alert, error) {
	if filter.Limit < 1 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}

	scope := store.Owner(userID)
	if filter.Acknowledged != nil {
		scope.Eq("acknowledged", *filter.Acknowledged)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM alerts
		%s
		ORDER BY occurred_at DESC, alert_id DESC
		LIMIT %s`, alertColumns, scope.Where(), scope.Arg(filter.Limit))

	rows, err := r.pool.Query(ctx, query, scope.Args()...)
	if err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	defer rows.Close()

	alerts := []Alert{}
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.DetectionID, &a.Type, &a.Message, &a.Severity,
			&a.Acknowledged, &a.UserID, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alert rows: %w", err)
	}

	return alerts, nil
}

// Acknowledge marks the alert as acknowledged. Acknowledging an already
// acknowledged alert succeeds; only a missing or foreign alert is ErrNotFound.
func (r *PostgresRepository) Acknowledge(ctx context.Context, id, userID string) error {
	scope := store.Owner(userID).Eq("alert_id", id)

	result, err := r.pool.Exec(ctx, "UPDATE alerts SET acknowledged = TRUE "+scope.Where(), scope.Args()...)
	if err != nil {
		return fmt.Errorf("acknowledging alert: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnacknowledged counts open alerts owned by userID.
func (r *PostgresRepository) CountUnacknowledged(ctx context.Context, userID, severity string) (int, error) {
	scope := store.Owner(userID).Eq("acknowledged", false)
	if severity != "" {
		scope.Eq("severity", severity)
	}

	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM alerts "+scope.Where(), scope.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting alerts: %w", err)
	}
	return count, nil
}

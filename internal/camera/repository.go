package camera

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no camera matches the id (and owner, where scoped).
var ErrNotFound = errors.New("camera not found")

// ErrDuplicateID is returned when a generated camera id collides with an existing row.
var ErrDuplicateID = errors.New("camera id already exists")

// Repository provides operations on the cameras table. Every method taking a
// userID only touches rows owned by that user.
type Repository interface {
	List(ctx context.Context, userID string) ([]Camera, error)
	Create(ctx context.Context, c *Camera) error
	CreateIfAbsent(ctx context.Context, c *Camera) (bool, error)
	Update(ctx context.Context, id, userID string, fields Fields) (*Camera, error)
	Delete(ctx context.Context, id, userID string) error
	Get(ctx context.Context, id string) (*Camera, error)
	CountActive(ctx context.Context, userID string) (int, error)
}

package camera

import "time"

// Camera represents a row in the cameras table.
type Camera struct {
	ID        string
	UserID    string
	Name      string
	SourceURL string
	Location  string
	Lat       *float64
	Lng       *float64
	IsActive  bool
	CreatedAt time.Time
}

// Fields holds the mutable camera fields. Update replaces all of them.
type Fields struct {
	Name      string
	SourceURL string
	Location  string
	Lat       *float64
	Lng       *float64
	IsActive  bool
}

// ListLimit caps the number of cameras returned for one user.
const ListLimit = 100

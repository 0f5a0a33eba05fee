package alert

import "time"

// Alert represents a row in the alerts table.
type Alert struct {
	ID           string
	DetectionID  *string
	Type         string
	Message      string
	Severity     string
	Acknowledged bool
	UserID       string
	Timestamp    time.Time
}

// ListFilter holds optional filters for listing alerts.
type ListFilter struct {
	Acknowledged *bool
	Limit        int // default 50, max 500
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

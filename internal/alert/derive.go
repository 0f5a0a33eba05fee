package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/roadsentinel/roadsentinel/internal/store"
)

// Raises reports whether a detection of the given severity produces an alert.
func Raises(severity string) bool {
	return severity == "high" || severity == "critical"
}

// Message renders the alert text for a detection, e.g.
// "CRITICAL pothole detected on CAM-01 (confidence: 92%)".
func Message(severity, detectionType, cameraName string, confidence float64) string {
	return fmt.Sprintf("%s %s detected on %s (confidence: %.0f%%)",
		strings.ToUpper(severity), detectionType, cameraName, confidence*100)
}

// Source describes the detection an alert is derived from.
type Source struct {
	DetectionID string
	Type        string
	Severity    string
	CameraName  string
	Confidence  float64
	UserID      string
	Timestamp   time.Time
}

// FromDetection builds the unacknowledged alert for src. Callers check Raises first.
func FromDetection(src Source) *Alert {
	detectionID := src.DetectionID
	return &Alert{
		ID:          NewID(),
		DetectionID: &detectionID,
		Type:        src.Type,
		Message:     Message(src.Severity, src.Type, src.CameraName, src.Confidence),
		Severity:    src.Severity,
		UserID:      src.UserID,
		Timestamp:   src.Timestamp,
	}
}

// NewID generates an alert id.
func NewID() string {
	return store.NewID("alert", 8)
}

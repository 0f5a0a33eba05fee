package detection

import "time"

// Known detection types. Other values are stored as given but are not
// counted by Stats or Timeline.
const (
	TypePothole   = "pothole"
	TypeBillboard = "billboard"
	TypeRailing   = "railing"
	TypeBarrier   = "barrier"
)

// OtherLabel is the metric label for unrecognized types and severities.
const OtherLabel = "other"

const (
	DefaultSeverity     = "medium"
	UnknownCamera       = "Unknown"
	DefaultLimit        = 50
	MaxLimit            = 500
	DefaultTimelineDays = 7
	MaxTimelineDays     = 36500
	// TimelineRowCap bounds the rows read for one timeline; older rows
	// beyond it are silently left out.
	TimelineRowCap = 5000
)

// Detection represents a row in the detections table. CameraName, Lat, Lng and
// Location are copied from the camera at creation and never refreshed.
type Detection struct {
	ID         string
	CameraID   string
	CameraName string
	Type       string
	Confidence float64
	Lat        *float64
	Lng        *float64
	Location   string
	Severity   string
	Timestamp  time.Time
	UserID     string
}

// Input holds the caller-supplied fields of a new detection.
type Input struct {
	CameraID   string
	Type       string
	Confidence float64
	Lat        *float64
	Lng        *float64
	Location   string
	Severity   string
}

// Filter holds optional filters and pagination for listing detections.
type Filter struct {
	Type     *string
	Severity *string
	CameraID *string
	Limit    int // default 50, max 500
	Skip     int
}

// Point is the projection of a detection used to build a timeline.
type Point struct {
	Type      string
	Timestamp time.Time
}

// Stats holds per-user aggregate counts.
type Stats struct {
	Total          int
	Potholes       int
	Billboards     int
	Railings       int
	Barriers       int
	ActiveCameras  int
	CriticalAlerts int
}

// Bucket holds per-type detection counts for one UTC calendar day.
type Bucket struct {
	Date      string
	Pothole   int
	Billboard int
	Railing   int
	Barrier   int
}

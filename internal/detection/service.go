package detection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roadsentinel/roadsentinel/internal/alert"
	"github.com/roadsentinel/roadsentinel/internal/camera"
	"github.com/roadsentinel/roadsentinel/internal/metrics"
)

// ErrAlertNotCreated is returned when a detection was stored but its derived
// alert could not be. The detection is not rolled back.
var ErrAlertNotCreated = errors.New("detection stored but alert creation failed")

// CameraStore is the subset of camera.Repository the service depends on.
type CameraStore interface {
	Get(ctx context.Context, id string) (*camera.Camera, error)
	CountActive(ctx context.Context, userID string) (int, error)
}

// AlertStore is the subset of alert.Repository the service depends on.
type AlertStore interface {
	Create(ctx context.Context, a *alert.Alert) error
	CountUnacknowledged(ctx context.Context, userID, severity string) (int, error)
}

// Service creates detections, derives alerts from them, and aggregates them.
// Multi-step operations are not transactional.
type Service struct {
	detections Repository
	cameras    CameraStore
	alerts     AlertStore
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new detection Service.
func NewService(detections Repository, cameras CameraStore, alerts AlertStore, opts ...Option) *Service {
	s := &Service{
		detections: detections,
		cameras:    cameras,
		alerts:     alerts,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the user's detections matching filter.
func (s *Service) List(ctx context.Context, userID string, filter Filter) ([]Detection, error) {
	return s.detections.List(ctx, userID, filter)
}

// Create stores a detection for userID and, when its severity is high or
// critical, one alert referencing it. The camera is looked up across all
// owners; its name and coordinates fill whatever the input leaves empty.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*Detection, error) {
	cam, err := s.cameras.Get(ctx, in.CameraID)
	if err != nil {
		if !errors.Is(err, camera.ErrNotFound) {
			return nil, fmt.Errorf("looking up camera: %w", err)
		}
		cam = nil
	}

	d := &Detection{
		ID:         NewID(),
		CameraID:   in.CameraID,
		CameraName: UnknownCamera,
		Type:       in.Type,
		Confidence: in.Confidence,
		Lat:        in.Lat,
		Lng:        in.Lng,
		Location:   in.Location,
		Severity:   in.Severity,
		Timestamp:  s.now(),
		UserID:     userID,
	}
	if d.Severity == "" {
		d.Severity = DefaultSeverity
	}
	applyCamera(d, cam)

	if err := s.detections.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("creating detection: %w", err)
	}
	typeLabel, severityLabel := metricLabels(d.Type, d.Severity)
	metrics.DetectionsCreated.WithLabelValues(typeLabel, severityLabel).Inc()

	if !alert.Raises(d.Severity) {
		return d, nil
	}

	a := alert.FromDetection(alert.Source{
		DetectionID: d.ID,
		Type:        d.Type,
		Severity:    d.Severity,
		CameraName:  d.CameraName,
		Confidence:  d.Confidence,
		UserID:      userID,
		Timestamp:   s.now(),
	})
	if err := s.alerts.Create(ctx, a); err != nil {
		slog.Error("failed to create alert for detection", "error", err, "detectionId", d.ID)
		return d, fmt.Errorf("%w: %w", ErrAlertNotCreated, err)
	}
	metrics.AlertsCreated.WithLabelValues(typeLabel, severityLabel).Inc()

	return d, nil
}

// Stats counts the user's detections per known type, active cameras, and
// open critical alerts. Each count is a separate query.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	var st Stats
	counts := []struct {
		detectionType string
		dst           *int
	}{
		{"", &st.Total},
		{TypePothole, &st.Potholes},
		{TypeBillboard, &st.Billboards},
		{TypeRailing, &st.Railings},
		{TypeBarrier, &st.Barriers},
	}
	for _, c := range counts {
		n, err := s.detections.Count(ctx, userID, c.detectionType)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	active, err := s.cameras.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.ActiveCameras = active

	critical, err := s.alerts.CountUnacknowledged(ctx, userID, "critical")
	if err != nil {
		return nil, err
	}
	st.CriticalAlerts = critical

	return &st, nil
}

// Timeline buckets the user's detections from the last days days by UTC date.
func (s *Service) Timeline(ctx context.Context, userID string, days int) ([]Bucket, error) {
	cutoff := s.now().AddDate(0, 0, -days)

	points, err := s.detections.Since(ctx, userID, cutoff, TimelineRowCap)
	if err != nil {
		return nil, err
	}
	return Bucketize(points), nil
}

// metricLabels maps client-supplied type and severity onto a fixed label set
// so that arbitrary values cannot create new series.
func metricLabels(detectionType, severity string) (string, string) {
	switch detectionType {
	case TypePothole, TypeBillboard, TypeRailing, TypeBarrier:
	default:
		detectionType = OtherLabel
	}
	switch severity {
	case "low", "medium", "high", "critical":
	default:
		severity = OtherLabel
	}
	return detectionType, severity
}

// applyCamera snapshots the camera's name and fills coordinates and location
// the input left empty. Zero coordinates count as empty.
func applyCamera(d *Detection, cam *camera.Camera) {
	if d.Lat != nil && *d.Lat == 0 {
		d.Lat = nil
	}
	if d.Lng != nil && *d.Lng == 0 {
		d.Lng = nil
	}
	if cam == nil {
		return
	}

	d.CameraName = cam.Name
	if d.Lat == nil {
		d.Lat = cam.Lat
	}
	if d.Lng == nil {
		d.Lng = cam.Lng
	}
	if d.Location == "" {
		d.Location = cam.Location
	}
}

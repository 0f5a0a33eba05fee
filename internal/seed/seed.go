// Package seed populates a user's account with demo cameras, detections and
// alerts.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/roadsentinel/roadsentinel/internal/alert"
	"github.com/roadsentinel/roadsentinel/internal/camera"
	"github.com/roadsentinel/roadsentinel/internal/detection"
)

// DetectionCount is the number of detections written per Seed call.
const DetectionCount = 30

// MaxAge bounds how far in the past seeded detections are placed.
const MaxAge = 168 * time.Hour

type site struct {
	location string
	lat, lng float64
}

var sites = []site{
	{"Highway NH-48 KM 52", 28.4595, 77.0266},
	{"Ring Road Sector 14", 28.4700, 77.0400},
	{"MG Road Intersection", 28.4800, 77.0500},
	{"Expressway Exit 7", 28.4900, 77.0600},
}

var (
	types      = []string{detection.TypePothole, detection.TypeBillboard, detection.TypeRailing, detection.TypeBarrier}
	severities = []string{"low", "medium", "high", "critical"}
)

// CameraStore is the subset of camera.Repository the seeder depends on.
type CameraStore interface {
	CreateIfAbsent(ctx context.Context, c *camera.Camera) (bool, error)
}

// DetectionStore is the subset of detection.Repository the seeder depends on.
type DetectionStore interface {
	Create(ctx context.Context, d *detection.Detection) error
}

// AlertStore is the subset of alert.Repository the seeder depends on.
type AlertStore interface {
	Create(ctx context.Context, a *alert.Alert) error
}

// Result summarizes one Seed call.
type Result struct {
	CamerasCreated int
	Detections     int
	Alerts         int
}

// Service writes demo data.
type Service struct {
	cameras    CameraStore
	detections DetectionStore
	alerts     AlertStore
	rng        *rand.Rand
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the randomness source.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rng = r
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new seed Service.
func NewService(cameras CameraStore, detections DetectionStore, alerts AlertStore, opts ...Option) *Service {
	s := &Service{
		cameras:    cameras,
		detections: detections,
		alerts:     alerts,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cameras returns the fixed demo cameras owned by userID.
func Cameras(userID string, createdAt time.Time) []camera.Camera {
	cams := make([]camera.Camera, 0, len(sites))
	for i, st := range sites {
		lat, lng := st.lat, st.lng
		cams = append(cams, camera.Camera{
			ID:        fmt.Sprintf("cam_demo_%d", i+1),
			UserID:    userID,
			Name:      fmt.Sprintf("CAM-%02d", i+1),
			Location:  st.location,
			Lat:       &lat,
			Lng:       &lng,
			IsActive:  true,
			CreatedAt: createdAt,
		})
	}
	return cams
}

// Seed creates the demo cameras that do not exist yet, then writes
// DetectionCount random detections for userID and an alert for each high or
// critical one. Camera ids are global, so a camera already seeded for another
// user is left with its owner.
func (s *Service) Seed(ctx context.Context, userID string) (*Result, error) {
	now := s.now()
	var res Result

	cams := Cameras(userID, now)
	for i := range cams {
		created, err := s.cameras.CreateIfAbsent(ctx, &cams[i])
		if err != nil {
			return &res, fmt.Errorf("seeding camera %s: %w", cams[i].ID, err)
		}
		if created {
			res.CamerasCreated++
		}
	}

	for range DetectionCount {
		cam := cams[s.rng.IntN(len(cams))]
		d := &detection.Detection{
			ID:         detection.NewID(),
			CameraID:   cam.ID,
			CameraName: cam.Name,
			Type:       types[s.rng.IntN(len(types))],
			Confidence: math.Round(s.uniform(0.65, 0.99)*100) / 100,
			Lat:        jitter(*cam.Lat, s.uniform(-0.01, 0.01)),
			Lng:        jitter(*cam.Lng, s.uniform(-0.01, 0.01)),
			Location:   cam.Location,
			Severity:   severities[s.rng.IntN(len(severities))],
			Timestamp:  now.Add(-time.Duration(s.rng.IntN(int(MaxAge/time.Hour)+1)) * time.Hour),
			UserID:     userID,
		}
		if err := s.detections.Create(ctx, d); err != nil {
			return &res, fmt.Errorf("seeding detection: %w", err)
		}
		res.Detections++

		if !alert.Raises(d.Severity) {
			continue
		}
		a := alert.FromDetection(alert.Source{
			DetectionID: d.ID,
			Type:        d.Type,
			Severity:    d.Severity,
			CameraName:  d.CameraName,
			Confidence:  d.Confidence,
			UserID:      userID,
			Timestamp:   d.Timestamp,
		})
		a.Acknowledged = s.rng.IntN(2) == 1
		if err := s.alerts.Create(ctx, a); err != nil {
			return &res, fmt.Errorf("seeding alert: %w", err)
		}
		res.Alerts++
	}

	return &res, nil
}

func (s *Service) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func jitter(base, delta float64) *float64 {
	v := base + delta
	return &v
}

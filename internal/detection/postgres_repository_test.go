package detection_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadsentinel/roadsentinel/internal/detection"
	"github.com/roadsentinel/roadsentinel/internal/store/storetest"
)

func setupRepo(t *testing.T) detection.Repository {
	t.Helper()
	pool := storetest.Pool(t, "detections")
	return detection.NewRepository(pool)
}

func strPtr(s string) *string { return &s }

func seedDetection(t *testing.T, repo detection.Repository, userID, detType, severity string, ts time.Time) *detection.Detection {
	t.Helper()
	d := &detection.Detection{
		CameraID:   "cam_1",
		CameraName: "CAM-01",
		Type:       detType,
		Confidence: 0.8,
		Severity:   severity,
		Timestamp:  ts,
		UserID:     userID,
	}
	require.NoError(t, repo.Create(context.Background(), d))
	return d
}

func TestRepoList_SortThenPaginate(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	var ids []string
	for i := 0; i < 5; i++ {
		d := seedDetection(t, repo, "user_a", "pothole", "low", now.Add(time.Duration(-i)*time.Minute))
		ids = append(ids, d.ID)
	}

	page, err := repo.List(context.Background(), "user_a", detection.Filter{Limit: 2, Skip: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)
}

func TestRepoList_FiltersAndOwner(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC()

	seedDetection(t, repo, "user_a", "pothole", "high", now)
	seedDetection(t, repo, "user_a", "barrier", "high", now)
	seedDetection(t, repo, "user_a", "pothole", "low", now)
	seedDetection(t, repo, "user_b", "pothole", "high", now)

	got, err := repo.List(context.Background(), "user_a", detection.Filter{
		Type:     strPtr("pothole"),
		Severity: strPtr("high"),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "user_a", got[0].UserID)

	none, err := repo.List(context.Background(), "user_a", detection.Filter{CameraID: strPtr("cam_other")})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepoCount(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC()

	seedDetection(t, repo, "user_a", "pothole", "high", now)
	seedDetection(t, repo, "user_a", "pothole", "low", now)
	seedDetection(t, repo, "user_a", "railing", "low", now)
	seedDetection(t, repo, "user_b", "pothole", "low", now)

	total, err := repo.Count(context.Background(), "user_a", "")
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	potholes, err := repo.Count(context.Background(), "user_a", "pothole")
	require.NoError(t, err)
	assert.Equal(t, 2, potholes)

	listed, err := repo.List(context.Background(), "user_a", detection.Filter{Type: strPtr("pothole"), Limit: detection.MaxLimit})
	require.NoError(t, err)
	assert.Len(t, listed, potholes)
}

func TestRepoSince_ExcludesOlderRows(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC()

	seedDetection(t, repo, "user_a", "pothole", "low", now.Add(-time.Hour))
	seedDetection(t, repo, "user_a", "barrier", "low", now.Add(-10*24*time.Hour))

	points, err := repo.Since(context.Background(), "user_a", now.Add(-7*24*time.Hour), detection.TimelineRowCap)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "pothole", points[0].Type)
}

package detection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadsentinel/roadsentinel/internal/detection"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBucketize_Empty(t *testing.T) {
	buckets := detection.Bucketize(nil)

	assert.NotNil(t, buckets)
	assert.Empty(t, buckets)
}

func TestBucketize_GroupsByUTCDateAscending(t *testing.T) {
	points := []detection.Point{
		{Type: "pothole", Timestamp: at("2026-10-14T08:00:00Z")},
		{Type: "barrier", Timestamp: at("2026-10-12T23:59:59Z")},
		{Type: "pothole", Timestamp: at("2026-10-14T01:00:00Z")},
		{Type: "billboard", Timestamp: at("2026-10-13T12:00:00Z")},
		{Type: "railing", Timestamp: at("2026-10-13T12:30:00Z")},
	}

	buckets := detection.Bucketize(points)

	require.Len(t, buckets, 3)
	assert.Equal(t, detection.Bucket{Date: "2026-10-12", Barrier: 1}, buckets[0])
	assert.Equal(t, detection.Bucket{Date: "2026-10-13", Billboard: 1, Railing: 1}, buckets[1])
	assert.Equal(t, detection.Bucket{Date: "2026-10-14", Pothole: 2}, buckets[2])
}

func TestBucketize_NormalizesToUTC(t *testing.T) {
	// 2026-10-14T01:30 in UTC+05:30 is still 2026-10-13 in UTC.
	loc := time.FixedZone("IST", 5*3600+1800)
	points := []detection.Point{
		{Type: "pothole", Timestamp: time.Date(2026, 10, 14, 1, 30, 0, 0, loc)},
	}

	buckets := detection.Bucketize(points)

	require.Len(t, buckets, 1)
	assert.Equal(t, "2026-10-13", buckets[0].Date)
}

func TestBucketize_UnknownTypesNotCounted(t *testing.T) {
	points := []detection.Point{
		{Type: "graffiti", Timestamp: at("2026-10-10T10:00:00Z")},
		{Type: "Pothole", Timestamp: at("2026-10-10T11:00:00Z")},
	}

	buckets := detection.Bucketize(points)

	require.Len(t, buckets, 1)
	assert.Equal(t, detection.Bucket{Date: "2026-10-10"}, buckets[0])
}

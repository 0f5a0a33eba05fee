package detection

import (
	"sort"
	"time"
)

// Bucketize groups points by UTC calendar date and counts the four known
// types. A day containing only unknown types still yields a zeroed bucket.
// Buckets are returned sorted by date ascending.
func Bucketize(points []Point) []Bucket {
	byDate := make(map[string]*Bucket)
	for _, p := range points {
		date := p.Timestamp.UTC().Format(time.DateOnly)
		b, ok := byDate[date]
		if !ok {
			b = &Bucket{Date: date}
			byDate[date] = b
		}
		switch p.Type {
		case TypePothole:
			b.Pothole++
		case TypeBillboard:
			b.Billboard++
		case TypeRailing:
			b.Railing++
		case TypeBarrier:
			b.Barrier++
		}
	}

	buckets := make([]Bucket, 0, len(byDate))
	for _, b := range byDate {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})
	return buckets
}

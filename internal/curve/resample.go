package curve

import (
	"math"

	"gymforge/internal/events"
)

// Resample redistributes points evenly by cumulative arc length and
// returns exactly n points, each with x, y, and time linearly
// interpolated between its bounding originals. Coordinates and times are
// floored to whole units. Inputs with fewer than two points are returned
// unchanged.
func Resample(points []events.TrajectoryPoint, n int) []events.TrajectoryPoint {
	if len(points) <= 1 || n <= 0 {
		return points
	}

	total := 0.0
	cumulative := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		dx := float64(points[i].X - points[i-1].X)
		dy := float64(points[i].Y - points[i-1].Y)
		total += math.Hypot(dx, dy)
		cumulative[i] = total
	}

	resampled := make([]events.TrajectoryPoint, 0, n)
	for i := 0; i < n; i++ {
		target := float64(i) / float64(n-1) * total

		idx := 1
		for idx < len(cumulative) && cumulative[idx] < target {
			idx++
		}
		if idx >= len(points) {
			idx = len(points) - 1
		}

		segStart := cumulative[idx-1]
		segEnd := cumulative[idx]
		t := 0.0
		if segEnd > segStart {
			t = (target - segStart) / (segEnd - segStart)
		}

		p0 := points[idx-1]
		p1 := points[idx]
		resampled = append(resampled, events.TrajectoryPoint{
			X:    int(math.Floor(float64(p0.X) + float64(p1.X-p0.X)*t)),
			Y:    int(math.Floor(float64(p0.Y) + float64(p1.Y-p0.Y)*t)),
			Time: int64(math.Floor(float64(p0.Time) + float64(p1.Time-p0.Time)*t)),
		})
	}

	return resampled
}

package curve

import (
	"math"
	"testing"

	"gymforge/internal/events"
)

func TestResampleReturnsExactCount(t *testing.T) {
	points := []events.TrajectoryPoint{
		{Time: 0, X: 0, Y: 0},
		{Time: 10, X: 10, Y: 0},
		{Time: 20, X: 10, Y: 5},
		{Time: 90, X: 40, Y: 5},
		{Time: 100, X: 40, Y: 40},
	}
	for _, n := range []int{2, 8, 32, 64} {
		out := Resample(points, n)
		if len(out) != n {
			t.Fatalf("Resample(..., %d) returned %d points", n, len(out))
		}
		first, last := out[0], out[n-1]
		if first.X != 0 || first.Y != 0 {
			t.Fatalf("first point moved: %#v", first)
		}
		if last.X != 40 || last.Y != 40 {
			t.Fatalf("last point moved: %#v", last)
		}
	}
}

func TestResampleSpacingIsUniformByArcLength(t *testing.T) {
	// Straight horizontal line: uniform arc length means uniform x.
	points := []events.TrajectoryPoint{
		{Time: 0, X: 0, Y: 0},
		{Time: 5, X: 1, Y: 0},
		{Time: 100, X: 100, Y: 0},
	}
	out := Resample(points, 11)
	for i, p := range out {
		want := i * 10
		// Coordinates are floored, so interpolation may land one pixel low.
		if p.X < want-1 || p.X > want {
			t.Fatalf("point %d at x=%d, want ~%d", i, p.X, want)
		}
	}
}

func TestResampleDegenerateInputs(t *testing.T) {
	single := []events.TrajectoryPoint{{Time: 3, X: 7, Y: 9}}
	out := Resample(single, 8)
	if len(out) != 1 || out[0] != single[0] {
		t.Fatalf("single point changed: %#v", out)
	}
	if got := Resample(nil, 8); len(got) != 0 {
		t.Fatalf("expected empty result for nil input, got %#v", got)
	}
}

func TestBSplineEndpointsClamped(t *testing.T) {
	control := []Vec2{{X: 0, Y: 0}, {X: 30, Y: 90}, {X: 70, Y: -20}, {X: 100, Y: 50}, {X: 150, Y: 50}}
	spline := NewBSpline(3)
	out := spline.Curve(control, 50)
	if len(out) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(out))
	}

	const tol = 1e-9
	if math.Abs(out[0].X-control[0].X) > tol || math.Abs(out[0].Y-control[0].Y) > tol {
		t.Fatalf("curve start %v not at first control point %v", out[0], control[0])
	}
	last := out[len(out)-1]
	end := control[len(control)-1]
	if math.Abs(last.X-end.X) > tol || math.Abs(last.Y-end.Y) > tol {
		t.Fatalf("curve end %v not at last control point %v", last, end)
	}
}

func TestBSplineDegreeCappedForShortStrokes(t *testing.T) {
	control := []Vec2{{X: 0, Y: 0}, {X: 10, Y: 10}}
	out := NewBSpline(10).Curve(control, 5)
	if len(out) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(out))
	}
	for _, p := range out {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("non-finite sample: %#v", p)
		}
	}
}

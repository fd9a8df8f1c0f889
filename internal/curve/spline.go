package curve

// Vec2 is a point on a B-spline curve.
type Vec2 struct {
	X float64
	Y float64
}

// BSpline evaluates B-spline curves of a fixed degree over a uniform
// clamped knot vector.
type BSpline struct {
	degree int
}

// NewBSpline constructs an evaluator. Degrees below one fall back to
// cubic.
func NewBSpline(degree int) *BSpline {
	if degree < 1 {
		degree = 3
	}
	return &BSpline{degree: degree}
}

// knots returns a uniform knot vector clamped at both ends: degree+1
// zeros, evenly spaced interior knots, degree+1 ones.
func (s *BSpline) knots(numPoints int) []float64 {
	numKnots := numPoints + s.degree + 1
	knots := make([]float64, 0, numKnots)
	for i := 0; i <= s.degree; i++ {
		knots = append(knots, 0)
	}
	middle := numKnots - 2*(s.degree+1)
	for i := 1; i <= middle; i++ {
		knots = append(knots, float64(i)/float64(middle+1))
	}
	for i := 0; i <= s.degree; i++ {
		knots = append(knots, 1)
	}
	return knots
}

// deBoor evaluates the curve at parameter t using an iterative De Boor
// triangle over an explicit coefficient array.
func (s *BSpline) deBoor(knots []float64, points []Vec2, t float64) Vec2 {
	n := len(points) - 1
	d := s.degree

	span := d
	for i := d; i < n; i++ {
		if t >= knots[i] && t < knots[i+1] {
			span = i
			break
		}
	}
	if t >= knots[n+1] {
		span = n
	}

	coeffs := make([]Vec2, d+1)
	copy(coeffs, points[span-d:span+1])

	for r := 1; r <= d; r++ {
		for j := d; j >= r; j-- {
			denom := knots[span+j-r+1] - knots[span-d+j]
			alpha := 0.0
			if denom != 0 {
				alpha = (t - knots[span-d+j]) / denom
			}
			coeffs[j] = Vec2{
				X: (1-alpha)*coeffs[j-1].X + alpha*coeffs[j].X,
				Y: (1-alpha)*coeffs[j-1].Y + alpha*coeffs[j].Y,
			}
		}
	}

	return coeffs[d]
}

// Curve evaluates the spline defined by the control points at samples
// evenly spaced parameter values. Fewer than two control points are
// returned unchanged. The degree is capped at len(points)-1 for the
// evaluation to stay well defined on short strokes.
func (s *BSpline) Curve(points []Vec2, samples int) []Vec2 {
	if len(points) < 2 || samples < 2 {
		return points
	}

	eval := s
	if s.degree > len(points)-1 {
		eval = &BSpline{degree: len(points) - 1}
	}

	knots := eval.knots(len(points))
	out := make([]Vec2, 0, samples)
	step := 1.0 / float64(samples-1)
	for i := 0; i < samples; i++ {
		t := float64(i) * step
		if t > 1 {
			t = 1
		}
		out = append(out, eval.deBoor(knots, points, t))
	}
	return out
}

package heightmap

import "sort"

// Keyframe is one control point of a Curve.
type Keyframe struct {
	Time       float64 `yaml:"time"`
	Value      float64 `yaml:"value"`
	InTangent  float64 `yaml:"in_tangent"`
	OutTangent float64 `yaml:"out_tangent"`
}

// Curve is a cubic Hermite spline through its keyframes, clamped to the first and last
// key outside their range.
//
// Evaluate remembers the last segment it used, which makes a Curve unsafe for concurrent
// use. Goroutines must each evaluate their own Clone.
type Curve struct {
	Keys []Keyframe `yaml:"keys"`

	segment int
}

// NewCurve returns a curve through keys, sorted by time.
func NewCurve(keys ...Keyframe) Curve {
	c := Curve{Keys: append([]Keyframe(nil), keys...)}
	sort.SliceStable(c.Keys, func(i, j int) bool { return c.Keys[i].Time < c.Keys[j].Time })
	return c
}

// LinearCurve maps [0,1] onto itself.
func LinearCurve() Curve {
	return NewCurve(
		Keyframe{Time: 0, Value: 0, InTangent: 1, OutTangent: 1},
		Keyframe{Time: 1, Value: 1, InTangent: 1, OutTangent: 1},
	)
}

// Clone returns an independent copy with its own lookup cache.
func (c *Curve) Clone() *Curve {
	return &Curve{Keys: append([]Keyframe(nil), c.Keys...)}
}

// Evaluate returns the curve value at t. A curve without keys evaluates to 0.
func (c *Curve) Evaluate(t float64) float64 {
	n := len(c.Keys)
	switch {
	case n == 0:
		return 0
	case n == 1 || t <= c.Keys[0].Time:
		return c.Keys[0].Value
	case t >= c.Keys[n-1].Time:
		return c.Keys[n-1].Value
	}

	i := c.segment
	if i >= n-1 || t < c.Keys[i].Time || t > c.Keys[i+1].Time {
		i = sort.Search(n, func(k int) bool { return c.Keys[k].Time > t }) - 1
		c.segment = i
	}

	k0, k1 := c.Keys[i], c.Keys[i+1]
	dt := k1.Time - k0.Time
	if dt == 0 {
		return k1.Value
	}
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

package geom

import "github.com/paulmach/orb"

// BoundContains reports whether outer fully contains inner.
func BoundContains(outer, inner orb.Bound) bool {
	return outer.Contains(inner.Min) && outer.Contains(inner.Max)
}

// BoundIntersects reports whether the two envelopes overlap.
func BoundIntersects(a, b orb.Bound) bool {
	return a.Min[0] <= b.Max[0] && b.Min[0] <= a.Max[0] &&
		a.Min[1] <= b.Max[1] && b.Min[1] <= a.Max[1]
}

// BoundArea returns the area of an envelope in coordinate units.
func BoundArea(b orb.Bound) float64 {
	return (b.Max[0] - b.Min[0]) * (b.Max[1] - b.Min[1])
}

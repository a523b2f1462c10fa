package spatial

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/Qup42/osm2rdf/geom"
)

// ErrDegenerate indicates a geometry on which the precise predicates
// cannot decide. Callers report such pairs but do not emit them.
var ErrDegenerate = errors.New("spatial: degenerate geometry")

func validMultiPolygon(mp orb.MultiPolygon) bool {
	if len(mp) == 0 {
		return false
	}
	for _, poly := range mp {
		if len(poly) == 0 {
			return false
		}
		for _, ring := range poly {
			if len(ring) < 4 {
				return false
			}
		}
	}
	return true
}

// ContainsPoint reports whether the multipolygon contains the point.
func ContainsPoint(mp orb.MultiPolygon, p orb.Point) (bool, error) {
	if !validMultiPolygon(mp) {
		return false, ErrDegenerate
	}
	return planar.MultiPolygonContains(mp, p), nil
}

// ContainsLine reports whether the multipolygon fully contains the line:
// every vertex inside and no edge crossing the boundary.
func ContainsLine(mp orb.MultiPolygon, ls orb.LineString) (bool, error) {
	if !validMultiPolygon(mp) || len(ls) == 0 {
		return false, ErrDegenerate
	}
	for _, p := range ls {
		if !planar.MultiPolygonContains(mp, p) {
			return false, nil
		}
	}
	return !lineCrossesBoundary(mp, ls), nil
}

// IntersectsLine reports whether the line touches the multipolygon: a
// vertex inside or an edge crossing the boundary.
func IntersectsLine(mp orb.MultiPolygon, ls orb.LineString) (bool, error) {
	if !validMultiPolygon(mp) || len(ls) == 0 {
		return false, ErrDegenerate
	}
	for _, p := range ls {
		if planar.MultiPolygonContains(mp, p) {
			return true, nil
		}
	}
	return lineCrossesBoundary(mp, ls), nil
}

// ContainsMultiPolygon reports whether outer fully contains inner.
func ContainsMultiPolygon(outer, inner orb.MultiPolygon) (bool, error) {
	if !validMultiPolygon(outer) || !validMultiPolygon(inner) {
		return false, ErrDegenerate
	}
	for _, poly := range inner {
		for _, ring := range poly {
			contained, err := ContainsLine(outer, orb.LineString(ring))
			if err != nil || !contained {
				return false, err
			}
		}
	}
	return true, nil
}

// IntersectsMultiPolygon reports whether the two multipolygons share any
// point.
func IntersectsMultiPolygon(a, b orb.MultiPolygon) (bool, error) {
	if !validMultiPolygon(a) || !validMultiPolygon(b) {
		return false, ErrDegenerate
	}
	for _, poly := range b {
		for _, ring := range poly {
			hit, err := IntersectsLine(a, orb.LineString(ring))
			if err != nil {
				return false, err
			}
			if hit {
				return true, nil
			}
		}
	}
	// No boundary contact; a could still sit entirely inside b.
	return planar.MultiPolygonContains(b, a[0][0][0]), nil
}

func lineCrossesBoundary(mp orb.MultiPolygon, ls orb.LineString) bool {
	for i := 0; i+1 < len(ls); i++ {
		for _, poly := range mp {
			for _, ring := range poly {
				if !geom.BoundIntersects(ls.Bound(), ring.Bound()) {
					continue
				}
				for j := 0; j+1 < len(ring); j++ {
					if segmentsCross(ls[i], ls[i+1], ring[j], ring[j+1]) {
						return true
					}
				}
			}
		}
	}
	return false
}

// segmentsCross reports a proper crossing of segments ab and cd. Shared
// endpoints and collinear touches do not count: the vertex-in-polygon
// tests already decide those cases.
func segmentsCross(a, b, c, d orb.Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)
	return o1*o2 < 0 && o3*o4 < 0
}

func orientation(a, b, c orb.Point) float64 {
	v := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

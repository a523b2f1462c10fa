package geom

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestWKTPoint(t *testing.T) {
	got := WKTPoint(orb.Point{7.8494005, 47.9960901})
	if got != "POINT(7.849400500000 47.996090100000)" {
		t.Fatalf("unexpected WKT: %q", got)
	}
}

func TestWKTLineString(t *testing.T) {
	if got := WKTLineString(nil); got != "LINESTRING()" {
		t.Fatalf("unexpected WKT: %q", got)
	}
	got := WKTLineString(orb.LineString{{1, 2}, {3.5, -4}})
	want := "LINESTRING(1.000000000000 2.000000000000,3.500000000000 -4.000000000000)"
	if got != want {
		t.Fatalf("unexpected WKT: %q, want %q", got, want)
	}
}

func TestWKTMultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{
		orb.Polygon{
			orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		},
	}
	got := WKTMultiPolygon(mp)
	want := "MULTIPOLYGON(((0.000000000000 0.000000000000," +
		"1.000000000000 0.000000000000," +
		"1.000000000000 1.000000000000," +
		"0.000000000000 0.000000000000)))"
	if got != want {
		t.Fatalf("unexpected WKT: %q", got)
	}
}

func TestWKTMultiPolygonWithHole(t *testing.T) {
	mp := orb.MultiPolygon{
		orb.Polygon{
			orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
			orb.Ring{{1, 1}, {2, 1}, {2, 2}, {1, 1}},
		},
	}
	got := WKTMultiPolygon(mp)
	if !strings.Contains(got, "),(") {
		t.Fatalf("hole ring not separated: %q", got)
	}
	if !strings.HasPrefix(got, "MULTIPOLYGON(((") || !strings.HasSuffix(got, ")))") {
		t.Fatalf("unexpected framing: %q", got)
	}
}

// Every coordinate carries exactly 12 fractional digits.
func TestWKTFractionalDigits(t *testing.T) {
	outputs := []string{
		WKTPoint(orb.Point{12.2482632, 54.0901746}),
		WKTLineString(orb.LineString{{-1.5, 2}, {3, 4.25}}),
		WKTMultiPolygon(orb.MultiPolygon{{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}),
	}
	for _, out := range outputs {
		inner := out[strings.Index(out, "(")+1 : len(out)-1]
		inner = strings.NewReplacer("(", "", ")", "", ",", " ").Replace(inner)
		for _, coord := range strings.Fields(inner) {
			dot := strings.Index(coord, ".")
			if dot < 0 {
				t.Fatalf("coordinate without fraction: %q in %q", coord, out)
			}
			if got := len(coord) - dot - 1; got != 12 {
				t.Fatalf("coordinate %q has %d fractional digits in %q", coord, got, out)
			}
		}
	}
}

func TestBoundHelpers(t *testing.T) {
	outer := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}
	inner := orb.Bound{Min: orb.Point{2, 2}, Max: orb.Point{3, 3}}
	apart := orb.Bound{Min: orb.Point{20, 20}, Max: orb.Point{30, 30}}
	overlap := orb.Bound{Min: orb.Point{5, 5}, Max: orb.Point{15, 15}}

	if !BoundContains(outer, inner) {
		t.Fatal("outer should contain inner")
	}
	if BoundContains(inner, outer) {
		t.Fatal("inner should not contain outer")
	}
	if !BoundIntersects(outer, overlap) || !BoundIntersects(overlap, outer) {
		t.Fatal("overlapping bounds should intersect")
	}
	if BoundIntersects(outer, apart) {
		t.Fatal("disjoint bounds should not intersect")
	}
	if got := BoundArea(outer); got != 100 {
		t.Fatalf("BoundArea = %v, want 100", got)
	}
}

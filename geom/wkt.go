// Package geom provides WKT formatting and envelope helpers on top of the
// orb geometry types.
package geom

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// wktDigits is the fixed number of fractional digits per WKT coordinate.
// The fixed width keeps output lossless for the fixed-precision input.
const wktDigits = 12

func appendCoord(b *strings.Builder, p orb.Point) {
	b.WriteString(strconv.FormatFloat(p[0], 'f', wktDigits, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p[1], 'f', wktDigits, 64))
}

func appendPoints(b *strings.Builder, points []orb.Point) {
	for i, p := range points {
		if i > 0 {
			b.WriteByte(',')
		}
		appendCoord(b, p)
	}
}

// WKTPoint formats p as a WKT POINT, longitude first.
func WKTPoint(p orb.Point) string {
	var b strings.Builder
	b.WriteString("POINT(")
	appendCoord(&b, p)
	b.WriteByte(')')
	return b.String()
}

// WKTLineString formats ls as a WKT LINESTRING. An empty line yields
// "LINESTRING()".
func WKTLineString(ls orb.LineString) string {
	var b strings.Builder
	b.WriteString("LINESTRING(")
	appendPoints(&b, ls)
	b.WriteByte(')')
	return b.String()
}

// WKTMultiPolygon formats mp as a WKT MULTIPOLYGON.
func WKTMultiPolygon(mp orb.MultiPolygon) string {
	var b strings.Builder
	b.WriteString("MULTIPOLYGON(")
	for i, poly := range mp {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for j, ring := range poly {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('(')
			appendPoints(&b, []orb.Point(ring))
			b.WriteByte(')')
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

package osm

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Qup42/osm2rdf/geom"
)

// memberWay is a buffered member way during multipolygon assembly.
type memberWay struct {
	id      int64
	nodeIDs []int64
	points  orb.LineString
	inner   bool
}

// assembleRelationArea stitches the member ways of a multipolygon
// relation into an Area. The caller only assembles relations whose member
// ways were all present in the input with every node location resolved; a
// ring that cannot be closed from those ways fails the assembly.
func assembleRelationArea(relID int64, tags TagList, members []memberWay) (Area, error) {
	var outers, inners []memberWay
	for _, m := range members {
		if m.inner {
			inners = append(inners, m)
		} else {
			outers = append(outers, m)
		}
	}
	outerRings, nodeIDs, err := stitchRings(outers)
	if err != nil {
		return Area{}, fmt.Errorf("osm: relation %d: %w", relID, err)
	}
	if len(outerRings) == 0 {
		return Area{}, fmt.Errorf("osm: relation %d: no outer ring", relID)
	}
	innerRings, innerNodeIDs, err := stitchRings(inners)
	if err != nil {
		return Area{}, fmt.Errorf("osm: relation %d: %w", relID, err)
	}
	nodeIDs = append(nodeIDs, innerNodeIDs...)

	mp := make(orb.MultiPolygon, 0, len(outerRings))
	for _, ring := range outerRings {
		mp = append(mp, orb.Polygon{ring})
	}
	for _, inner := range innerRings {
		assigned := 0
		for i, poly := range mp {
			if geom.BoundContains(poly[0].Bound(), inner.Bound()) {
				assigned = i
				break
			}
		}
		mp[assigned] = append(mp[assigned], inner)
	}
	return NewRelationArea(relID, mp, nodeIDs, tags), nil
}

// stitchRings joins way segments into closed rings by matching endpoint
// node ids.
func stitchRings(ways []memberWay) ([]orb.Ring, []int64, error) {
	used := make([]bool, len(ways))
	var rings []orb.Ring
	var nodeIDs []int64

	remaining := len(ways)
	for remaining > 0 {
		start := -1
		for i := range ways {
			if !used[i] {
				start = i
				break
			}
		}
		used[start] = true
		remaining--

		ids := append([]int64(nil), ways[start].nodeIDs...)
		points := append(orb.LineString(nil), ways[start].points...)

		for !ringClosed(ids) {
			extended := false
			for i := range ways {
				if used[i] {
					continue
				}
				w := ways[i]
				if len(w.nodeIDs) == 0 {
					used[i] = true
					remaining--
					continue
				}
				switch ids[len(ids)-1] {
				case w.nodeIDs[0]:
					ids = append(ids, w.nodeIDs[1:]...)
					points = append(points, w.points[1:]...)
				case w.nodeIDs[len(w.nodeIDs)-1]:
					for j := len(w.nodeIDs) - 2; j >= 0; j-- {
						ids = append(ids, w.nodeIDs[j])
						points = append(points, w.points[j])
					}
				default:
					continue
				}
				used[i] = true
				remaining--
				extended = true
				break
			}
			if !extended {
				return nil, nil, fmt.Errorf("open ring at node %d", ids[len(ids)-1])
			}
		}
		rings = append(rings, orb.Ring(points))
		nodeIDs = append(nodeIDs, ids...)
	}
	return rings, nodeIDs, nil
}

func ringClosed(ids []int64) bool {
	return len(ids) >= 4 && ids[0] == ids[len(ids)-1]
}

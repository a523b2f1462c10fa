// Package osm turns a streamed OSM source into RDF triples: the entity
// model, the entity-to-triple mapper, the two-pass handler and the area
// containment engine live here.
package osm

import (
	"fmt"

	"github.com/paulmach/orb"
	posm "github.com/paulmach/osm"

	"github.com/Qup42/osm2rdf/geom"
)

// Tag is one key=value pair of an entity.
type Tag struct {
	Key   string
	Value string
}

// TagList is an ordered key to value mapping. Duplicate keys within one
// entity are rejected.
type TagList []Tag

// NewTagList converts source tags, preserving their order.
func NewTagList(tags posm.Tags) (TagList, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	list := make(TagList, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := seen[t.Key]; ok {
			return nil, fmt.Errorf("osm: duplicate tag key %q", t.Key)
		}
		seen[t.Key] = struct{}{}
		list = append(list, Tag{Key: t.Key, Value: t.Value})
	}
	return list, nil
}

// Find returns the value for key, or "".
func (l TagList) Find(key string) string {
	for _, t := range l {
		if t.Key == key {
			return t.Value
		}
	}
	return ""
}

// Node is a point entity.
type Node struct {
	ID   int64
	Loc  orb.Point
	Tags TagList
}

// Envelope returns the node's envelope, degenerate to its location.
func (n Node) Envelope() orb.Bound { return orb.Bound{Min: n.Loc, Max: n.Loc} }

// Way is a polyline entity. NodeIDs and Geom run in parallel except for
// unresolvable references, which are dropped from Geom.
type Way struct {
	ID      int64
	NodeIDs []int64
	Geom    orb.LineString
	Tags    TagList
}

// Closed reports whether the way forms a ring: first and last node id
// equal and at least 4 references.
func (w Way) Closed() bool {
	return len(w.NodeIDs) >= 4 && w.NodeIDs[0] == w.NodeIDs[len(w.NodeIDs)-1]
}

// Envelope returns the way's envelope.
func (w Way) Envelope() orb.Bound { return w.Geom.Bound() }

// MemberKind is the kind of a relation member.
type MemberKind string

const (
	MemberNode     MemberKind = "node"
	MemberWay      MemberKind = "way"
	MemberRelation MemberKind = "relation"
)

// Member is one entry of a relation.
type Member struct {
	Kind MemberKind
	Ref  int64
	Role string
}

// Relation is a tagged member list.
type Relation struct {
	ID      int64
	Tags    TagList
	Members []Member
}

// Area is a polygon or multipolygon derived from a closed way or a
// multipolygon relation. The id interleaves both sources: 2*id for ways,
// 2*id+1 for relations. Downstream consumers assume this encoding.
type Area struct {
	ID      int64
	ObjID   int64
	Geom    orb.MultiPolygon
	NodeIDs []int64
	Tags    TagList

	envelope     orb.Bound
	envelopeArea float64
}

// NewWayArea derives an area from a closed way.
func NewWayArea(w Way) (Area, error) {
	if !w.Closed() {
		return Area{}, fmt.Errorf("osm: way %d is not closed", w.ID)
	}
	mp := orb.MultiPolygon{orb.Polygon{orb.Ring(w.Geom)}}
	return newArea(2*w.ID, w.ID, mp, w.NodeIDs, w.Tags), nil
}

// NewRelationArea derives an area from an assembled multipolygon relation.
func NewRelationArea(relID int64, mp orb.MultiPolygon, nodeIDs []int64, tags TagList) Area {
	return newArea(2*relID+1, relID, mp, nodeIDs, tags)
}

func newArea(id, objID int64, mp orb.MultiPolygon, nodeIDs []int64, tags TagList) Area {
	bound := mp.Bound()
	return Area{
		ID:           id,
		ObjID:        objID,
		Geom:         mp,
		NodeIDs:      nodeIDs,
		Tags:         tags,
		envelope:     bound,
		envelopeArea: geom.BoundArea(bound),
	}
}

// FromWay reports whether the area derives from a way.
func (a Area) FromWay() bool { return a.ID%2 == 0 }

// Envelope returns the area's envelope.
func (a Area) Envelope() orb.Bound { return a.envelope }

// EnvelopeArea returns the envelope's area in coordinate units.
func (a Area) EnvelopeArea() float64 { return a.envelopeArea }

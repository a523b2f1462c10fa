package osm

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Qup42/osm2rdf/geom"
	"github.com/Qup42/osm2rdf/rdf"
	"github.com/Qup42/osm2rdf/util"
)

// Mapper turns entities into their deterministic triple sequence: identity
// and type first, tags in insertion order, enriched triples for recognized
// keys, geometry, and for relations one blank-node group per member.
type Mapper struct {
	writer *rdf.Writer
}

// NewMapper returns a mapper emitting through w.
func NewMapper(w *rdf.Writer) *Mapper { return &Mapper{writer: w} }

func nodeIRI(id int64) rdf.IRI {
	return rdf.NewIRI(rdf.PrefixOSMNode, strconv.FormatInt(id, 10))
}

func wayIRI(id int64) rdf.IRI {
	return rdf.NewIRI(rdf.PrefixOSMWay, strconv.FormatInt(id, 10))
}

func relationIRI(id int64) rdf.IRI {
	return rdf.NewIRI(rdf.PrefixOSMRel, strconv.FormatInt(id, 10))
}

// areaIRI returns the source IRI of an area: areas carry no identity of
// their own in the output.
func areaIRI(a Area) rdf.IRI {
	if a.FromWay() {
		return wayIRI(a.ObjID)
	}
	return relationIRI(a.ObjID)
}

func wktLiteral(wkt string) rdf.Literal {
	return rdf.NewTypedLiteral(wkt, rdf.NewIRI(rdf.PrefixGeo, "wktLiteral"))
}

// DumpNode emits the triples of one node.
func (m *Mapper) DumpNode(n Node) error {
	m.writer.SetPart(util.PartNodes)
	subj := nodeIRI(n.ID)
	if err := m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixRDF, "type"), rdf.NewIRI(rdf.PrefixOSM, "node")); err != nil {
		return err
	}
	if err := m.dumpTags(subj, n.Tags); err != nil {
		return err
	}
	return m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixGeo, "hasGeometry"), wktLiteral(geom.WKTPoint(n.Loc)))
}

// DumpWay emits the triples of one way. A way without resolvable node
// references still yields its (empty) LINESTRING.
func (m *Mapper) DumpWay(w Way) error {
	m.writer.SetPart(util.PartWays)
	subj := wayIRI(w.ID)
	if err := m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixRDF, "type"), rdf.NewIRI(rdf.PrefixOSM, "way")); err != nil {
		return err
	}
	if err := m.dumpTags(subj, w.Tags); err != nil {
		return err
	}
	return m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixGeo, "hasGeometry"), wktLiteral(geom.WKTLineString(w.Geom)))
}

// DumpRelation emits the triples of one relation. Relations carry no
// geometry; each member becomes a blank-node group.
func (m *Mapper) DumpRelation(r Relation) error {
	m.writer.SetPart(util.PartRelations)
	subj := relationIRI(r.ID)
	if err := m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixRDF, "type"), rdf.NewIRI(rdf.PrefixOSM, "relation")); err != nil {
		return err
	}
	if err := m.dumpTags(subj, r.Tags); err != nil {
		return err
	}
	for _, member := range r.Members {
		var ref rdf.IRI
		switch member.Kind {
		case MemberNode:
			ref = nodeIRI(member.Ref)
		case MemberWay:
			ref = wayIRI(member.Ref)
		case MemberRelation:
			ref = relationIRI(member.Ref)
		default:
			continue
		}
		b := m.writer.NextBlankNode()
		if err := m.writer.WriteTriple(b, rdf.NewIRI(rdf.PrefixOSM, "id"), ref); err != nil {
			return err
		}
		if err := m.writer.WriteTriple(b, rdf.NewIRI(rdf.PrefixOSM, "role"), rdf.NewLiteral(member.Role)); err != nil {
			return err
		}
		if err := m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixOSM, "member"), b); err != nil {
			return err
		}
	}
	return nil
}

// DumpArea emits the triples of one area under its source IRI.
func (m *Mapper) DumpArea(a Area) error {
	m.writer.SetPart(util.PartAreas)
	subj := areaIRI(a)
	if err := m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixRDF, "type"), rdf.NewIRI(rdf.PrefixOSM, "area")); err != nil {
		return err
	}
	if err := m.dumpTags(subj, a.Tags); err != nil {
		return err
	}
	return m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixGeo, "hasGeometry"), wktLiteral(geom.WKTMultiPolygon(a.Geom)))
}

func (m *Mapper) dumpTags(subj rdf.IRI, tags TagList) error {
	for _, t := range tags {
		err := m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixOSMTag, t.Key), rdf.NewLiteral(t.Value))
		if err != nil {
			return err
		}
	}
	for _, t := range tags {
		if err := m.dumpEnrichedTag(subj, t); err != nil {
			return err
		}
	}
	return nil
}

// dumpEnrichedTag adds the osm: triples for recognized keys.
func (m *Mapper) dumpEnrichedTag(subj rdf.IRI, t Tag) error {
	switch t.Key {
	case "wikidata":
		// Take the first id; multi-value entries are not modelled.
		value := t.Value
		if i := strings.IndexAny(value, " \t;"); i >= 0 {
			value = value[:i]
		}
		return m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixOSM, "wikidata"), rdf.NewIRI(rdf.PrefixWD, value))
	case "wikipedia":
		target := "https://www.wikipedia.org/wiki/" + url.PathEscape(t.Value)
		if i := strings.Index(t.Value, ":"); i > 0 {
			lang, title := t.Value[:i], t.Value[i+1:]
			target = "https://" + lang + ".wikipedia.org/wiki/" + url.PathEscape(title)
		}
		return m.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixOSM, "wikipedia"), rdf.FullIRI(target))
	}
	return nil
}

package rdf

// Well-known prefixes registered by default.
const (
	PrefixRDF     = "rdf"
	PrefixXSD     = "xsd"
	PrefixWD      = "wd"
	PrefixGeo     = "geo"
	PrefixOGC     = "ogc"
	PrefixOSM     = "osm"
	PrefixOSMNode = "osmnode"
	PrefixOSMWay  = "osmway"
	PrefixOSMRel  = "osmrel"
	PrefixOSMTag  = "osmt"
)

// DefaultPrefixes returns the namespace expansions every writer starts with.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		PrefixRDF:     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		PrefixXSD:     "http://www.w3.org/2001/XMLSchema#",
		PrefixWD:      "http://www.wikidata.org/entity/",
		PrefixGeo:     "http://www.opengis.net/ont/geosparql#",
		PrefixOGC:     "http://www.opengis.net/rdf#",
		PrefixOSM:     "https://www.openstreetmap.org/",
		PrefixOSMNode: "https://www.openstreetmap.org/node/",
		PrefixOSMWay:  "https://www.openstreetmap.org/way/",
		PrefixOSMRel:  "https://www.openstreetmap.org/relation/",
		PrefixOSMTag:  "https://www.openstreetmap.org/wiki/Key:",
	}
}

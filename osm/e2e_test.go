package osm

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Qup42/osm2rdf/config"
	"github.com/Qup42/osm2rdf/rdf"
	"github.com/Qup42/osm2rdf/util"
)

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.osm")
	content := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<osm version=\"0.6\" generator=\"CGImap 0.0.2\">\n" + body + "</osm>\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func convert(t *testing.T, cfg *config.Config, format rdf.Format) (data, status string) {
	t.Helper()
	var out, stat bytes.Buffer
	cfg.StatusWriter = &stat

	writer := rdf.NewWriter(format, util.NewOutputTo(&out))
	if err := writer.WriteHeader(); err != nil {
		t.Fatalf("write header: %v", err)
	}
	src, err := NewFileSource(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	defer src.Close()

	h := NewHandler(cfg, writer, zap.NewNop())
	if err := h.Run(context.Background(), src); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return out.String(), stat.String()
}

func TestE2ESingleNode(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeInput(t, `<node id="298884269" lat="54.0901746" lon="12.2482632" user="SvenHRO" uid="46882" visible="true" version="1" changeset="676636" timestamp="2008-09-21T21:37:45Z"/>`)
	data, status := convert(t, cfg, rdf.FormatQLever)
	assertContains(t, status,
		"areas seen:0 dumped: 0 geometry: 0\n",
		"nodes seen:1 dumped: 0 geometry: 0\n",
		"relations seen:0 dumped: 0 geometry: 0\n",
		"ways seen:0 dumped: 0 geometry: 0\n",
	)
	assertContains(t, data,
		"@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .\n",
		"@prefix wd: <http://www.wikidata.org/entity/> .\n",
		"@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .\n",
	)
	if strings.Contains(data, "osmnode:298884269") {
		t.Fatalf("untagged node must not be dumped:\n%s", data)
	}
}

func TestE2ESingleNodeWithTags(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeInput(t, `<node id="240092010" lat="47.9960901" lon="7.8494005" visible="true" version="1">
  <tag k="alt_name" v="Freiburg i. Br."/>
  <tag k="name" v="Freiburg im Breisgau"/>
  <tag k="name:ja" v="フライブルク"/>
  <tag k="short_name" v="Freiburg"/>
  <tag k="wikidata" v="Q2833"/>
  <tag k="wikipedia" v="de:Freiburg im Breisgau"/>
</node>
`)
	data, status := convert(t, cfg, rdf.FormatQLever)
	assertContains(t, status, "nodes seen:1 dumped: 1 geometry: 1\n")
	assertContains(t, data,
		"osmnode:240092010 rdf:type osm:node .\n",
		"osmnode:240092010 geo:hasGeometry \"POINT(7.849400500000 47.996090100000)\"^^geo:wktLiteral .\n",
		"osmnode:240092010 osmt:alt_name \"Freiburg i. Br.\" .\n",
		"osmnode:240092010 osmt:name \"Freiburg im Breisgau\" .\n",
		"osmnode:240092010 osmt:name:ja \"フライブルク\" .\n",
		"osmnode:240092010 osmt:short_name \"Freiburg\" .\n",
		"osmnode:240092010 osmt:wikidata \"Q2833\" .\n",
		"osmnode:240092010 osm:wikidata wd:Q2833 .\n",
		"osmnode:240092010 osmt:wikipedia \"de:Freiburg im Breisgau\" .\n",
		"osmnode:240092010 osm:wikipedia <https://de.wikipedia.org/wiki/Freiburg%20im%20Breisgau> .\n",
	)
}

func TestE2ESingleWayWithoutNodes(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeInput(t, `<way id="98284318" visible="true" version="10">
  <tag k="addr:city" v="Freiburg im Breisgau"/>
  <tag k="addr:housenumber" v="51"/>
  <tag k="building" v="university"/>
</way>
`)
	data, status := convert(t, cfg, rdf.FormatQLever)
	assertContains(t, status,
		"nodes seen:0 dumped: 0 geometry: 0\n",
		"ways seen:1 dumped: 1 geometry: 1\n",
	)
	assertContains(t, data,
		"osmway:98284318 rdf:type osm:way .\n",
		"osmway:98284318 osmt:addr:city \"Freiburg im Breisgau\" .\n",
		"osmway:98284318 osmt:addr:housenumber \"51\" .\n",
		"osmway:98284318 geo:hasGeometry \"LINESTRING()\"^^geo:wktLiteral .\n",
	)
}

func TestE2EOSMWikiExample(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeInput(t, ` <node id="298884269" lat="54.0901746" lon="12.2482632" visible="true" version="1"/>
 <node id="261728686" lat="54.0906309" lon="12.2441924" visible="true" version="1"/>
 <node id="1831881213" version="1" lat="54.0900666" lon="12.2539381" visible="true">
  <tag k="name" v="Neu Broderstorf"/>
  <tag k="traffic_sign" v="city_limit"/>
 </node>
 <node id="298884272" lat="54.0901447" lon="12.2516513" visible="true" version="1"/>
 <way id="26659127" visible="true" version="5">
  <nd ref="298884269"/>
  <nd ref="261728686"/>
  <nd ref="298884272"/>
  <tag k="highway" v="unclassified"/>
  <tag k="name" v="Pastower Straße"/>
 </way>
 <relation id="56688" visible="true" version="28">
  <member type="node" ref="298884269" role=""/>
  <member type="node" ref="261728686" role=""/>
  <member type="way" ref="26659127" role=""/>
  <member type="node" ref="1831881213" role=""/>
  <tag k="name" v="Küstenbus Linie 123"/>
  <tag k="network" v="VVW"/>
  <tag k="operator" v="Regionalverkehr Küste"/>
  <tag k="ref" v="123"/>
  <tag k="route" v="bus"/>
  <tag k="type" v="route"/>
 </relation>
`)
	data, status := convert(t, cfg, rdf.FormatTTL)
	assertContains(t, status,
		"areas seen:0 dumped: 0 geometry: 0\n",
		"nodes seen:4 dumped: 1 geometry: 1\n",
		"relations seen:1 dumped: 1 geometry: 0\n",
		"ways seen:1 dumped: 1 geometry: 1\n",
	)
	assertContains(t, data,
		"osmnode:1831881213 osmt:traffic_sign \"city_limit\" .\n",
		"osmway:26659127 osmt:name \"Pastower Straße\" .\n",
		"osmway:26659127 geo:hasGeometry \"LINESTRING(12.24",
		"osmrel:56688 rdf:type osm:relation .\n",
		"_:2 osm:id osmway:26659127 .\n",
	)
}

func TestE2EClosedWayBecomesArea(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeInput(t, ` <node id="101" lat="2.0" lon="2.0"/>
 <node id="102" lat="2.0" lon="4.0"/>
 <node id="103" lat="4.0" lon="4.0"/>
 <node id="104" lat="4.0" lon="2.0"/>
 <node id="901" lat="3.0" lon="3.0">
  <tag k="entrance" v="yes"/>
 </node>
 <way id="98284318" visible="true" version="1">
  <nd ref="101"/>
  <nd ref="102"/>
  <nd ref="103"/>
  <nd ref="104"/>
  <nd ref="101"/>
  <tag k="building" v="university"/>
 </way>
`)
	data, status := convert(t, cfg, rdf.FormatQLever)
	assertContains(t, status,
		"areas seen:1 dumped: 1 geometry: 1\n",
		"nodes seen:5 dumped: 1 geometry: 1\n",
		"ways seen:1 dumped: 1 geometry: 1\n",
		"Contains relations for 1 nodes in 1 areas ...\n",
		"                           1 checks performed\n",
		"                           contains: 1 yes: 1\n",
	)
	assertContains(t, data,
		"osmway:98284318 geo:hasGeometry \"LINESTRING(2",
		"osmway:98284318 geo:hasGeometry \"MULTIPOLYGON(((2",
		"osmway:98284318 ogc:intersects osmnode:901 .\n",
		"osmway:98284318 ogc:contains osmnode:901 .\n",
	)
}

func TestE2EMultipolygonRelation(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeInput(t, ` <node id="1" lat="0.0" lon="0.0"/>
 <node id="2" lat="0.0" lon="10.0"/>
 <node id="3" lat="10.0" lon="10.0"/>
 <node id="4" lat="10.0" lon="0.0"/>
 <node id="901" lat="5.0" lon="5.0">
  <tag k="amenity" v="fountain"/>
 </node>
 <way id="11" visible="true" version="1">
  <nd ref="1"/>
  <nd ref="2"/>
  <nd ref="3"/>
 </way>
 <way id="12" visible="true" version="1">
  <nd ref="3"/>
  <nd ref="4"/>
  <nd ref="1"/>
 </way>
 <relation id="56688" visible="true" version="1">
  <member type="way" ref="11" role="outer"/>
  <member type="way" ref="12" role="outer"/>
  <tag k="type" v="multipolygon"/>
  <tag k="landuse" v="park"/>
 </relation>
`)
	data, status := convert(t, cfg, rdf.FormatQLever)
	assertContains(t, status,
		"areas seen:1 dumped: 1 geometry: 1\n",
		"relations seen:1 dumped: 1 geometry: 0\n",
	)
	assertContains(t, data,
		"osmrel:56688 rdf:type osm:area .\n",
		"osmrel:56688 geo:hasGeometry \"MULTIPOLYGON(((",
		"osmrel:56688 ogc:intersects osmnode:901 .\n",
		"osmrel:56688 ogc:contains osmnode:901 .\n",
		"osmrel:56688 rdf:type osm:relation .\n",
	)
}

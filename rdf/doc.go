// Package rdf provides the RDF model and serialization layer of osm2rdf.
//
// It focuses on byte-exact, low-allocation output with a small surface area:
//   - Terms: IRI, BlankNode and Literal values that can appear in a triple.
//   - Grammar: character-level encoders for the W3C N-Triples and Turtle
//     productions (IRIREF, STRING_LITERAL_QUOTE, UCHAR, PERCENT, PN_PREFIX,
//     PN_LOCAL). They are the only place syntax rules live; everything above
//     composes them.
//   - Writer: a stateful emitter that renders triples for one of the
//     supported formats (N-Triples, Turtle, or the Turtle dialect accepted
//     by the QLever triple store) into an output sink.
//
// The writer emits one triple per line, terminated by " .\n". Object lists
// and predicate lists are intentionally not produced: keeping emission
// stateless between triples allows concurrent producers to share one writer.
//
// Example:
//
//	out := util.NewOutput("", util.MergeModeNone, false)
//	w := rdf.NewWriter(rdf.FormatTTL, out)
//	if err := w.Open(); err != nil {
//	    // handle error
//	}
//	if err := w.WriteHeader(); err != nil {
//	    // handle error
//	}
//	err := w.WriteTriple(
//	    rdf.NewIRI(rdf.PrefixOSMNode, "240092010"),
//	    rdf.NewIRI(rdf.PrefixRDF, "type"),
//	    rdf.NewIRI(rdf.PrefixOSM, "node"),
//	)
package rdf

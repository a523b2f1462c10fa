package rdf

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/Qup42/osm2rdf/util"
)

// Sink is the byte sink a Writer emits into.
type Sink interface {
	Open() error
	WriteString(part util.Part, s string) error
	Flush() error
	Close() error
}

// Writer renders triples for one output format into a sink.
//
// The prefix registry is open until WriteHeader; afterwards it is read-only
// so triples can be written from multiple goroutines. Emission itself is
// serialized internally, one triple per line.
type Writer struct {
	mu        sync.Mutex
	format    Format
	prefixes  map[string]string
	closed    bool
	part      util.Part
	sink      Sink
	blankNode uint64
}

// NewWriter returns a writer for the given format with the default prefix
// registry.
func NewWriter(format Format, sink Sink) *Writer {
	return &Writer{
		format:   format,
		prefixes: DefaultPrefixes(),
		part:     util.PartPrefixes,
		sink:     sink,
	}
}

// Open opens the underlying sink.
func (w *Writer) Open() error { return w.sink.Open() }

// AddPrefix registers a namespace expansion. Registration after
// WriteHeader fails with ErrRegistryClosed.
func (w *Writer) AddPrefix(prefix, iri string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrRegistryClosed
	}
	if _, err := encodePNPrefix(prefix); err != nil {
		return err
	}
	w.prefixes[prefix] = iri
	return nil
}

// WriteHeader closes the prefix registry and, for the Turtle formats,
// emits one "@prefix p: <iri> ." line per registered prefix. N-Triples
// emits no header.
func (w *Writer) WriteHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.format == FormatNT {
		return nil
	}
	names := make([]string, 0, len(w.prefixes))
	for name := range w.prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		line := "@prefix " + name + ": <" + encodeIRIRef(w.prefixes[name]) + "> .\n"
		if err := w.sink.WriteString(util.PartPrefixes, line); err != nil {
			return err
		}
	}
	return nil
}

// SetPart routes subsequent triples to the given output section.
func (w *Writer) SetPart(part util.Part) {
	w.mu.Lock()
	w.part = part
	w.mu.Unlock()
}

// NextBlankNode returns a fresh blank node. Labels are decimal counters
// starting at 0.
func (w *Writer) NextBlankNode() BlankNode {
	w.mu.Lock()
	id := w.blankNode
	w.blankNode++
	w.mu.Unlock()
	return BlankNode{ID: strconv.FormatUint(id, 10)}
}

// WriteTriple renders and emits one triple. On a grammar or encoding error
// the triple is not emitted and the error is returned.
func (w *Writer) WriteTriple(s, p, o Term) error {
	if s.Kind() == TermLiteral {
		return fmt.Errorf("rdf: literal subject")
	}
	if p.Kind() != TermIRI {
		return fmt.Errorf("rdf: non-IRI predicate")
	}
	subj, err := w.renderTerm(s)
	if err != nil {
		return err
	}
	pred, err := w.renderTerm(p)
	if err != nil {
		return err
	}
	obj, err := w.renderTerm(o)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sink.WriteString(w.part, subj+" "+pred+" "+obj+" .\n")
}

// Close flushes and closes the sink.
func (w *Writer) Close() error {
	if err := w.sink.Flush(); err != nil {
		return err
	}
	return w.sink.Close()
}

func (w *Writer) renderTerm(t Term) (string, error) {
	switch value := t.(type) {
	case IRI:
		return w.renderIRI(value)
	case BlankNode:
		return value.String(), nil
	case Literal:
		return w.renderLiteral(value)
	default:
		return "", fmt.Errorf("rdf: unsupported term %T", t)
	}
}

func (w *Writer) renderIRI(iri IRI) (string, error) {
	if !utf8.ValidString(iri.Local) {
		return "", ErrMalformedUTF8
	}
	if iri.Prefix == "" {
		return "<" + encodeIRIRef(iri.Local) + ">", nil
	}
	expansion, ok := w.prefixes[iri.Prefix]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrefix, iri.Prefix)
	}
	if w.format == FormatNT {
		return iriref(expansion, iri.Local), nil
	}
	name, err := prefixedName(iri.Prefix, iri.Local)
	if err == nil {
		return name, nil
	}
	var grammarErr *GrammarError
	if errors.As(err, &grammarErr) {
		// Local part not expressible as a prefixed name; fall back to
		// the expanded IRIREF, which can encode anything.
		return iriref(expansion, iri.Local), nil
	}
	return "", err
}

func (w *Writer) renderLiteral(lit Literal) (string, error) {
	if !utf8.ValidString(lit.Value) {
		return "", ErrMalformedUTF8
	}
	s := stringLiteralQuote(lit.Value)
	if lit.Lang != "" {
		return s + "@" + lit.Lang, nil
	}
	if lit.Datatype != nil {
		dt, err := w.renderIRI(*lit.Datatype)
		if err != nil {
			return "", err
		}
		return s + "^^" + dt, nil
	}
	return s, nil
}

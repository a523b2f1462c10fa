package rdf

import "strings"

// Format identifies the supported output serializations.
type Format string

const (
	// FormatNT is N-Triples: IRIs always expanded, no @prefix header.
	FormatNT Format = "nt"
	// FormatTTL is Turtle: @prefix header, prefixed names where valid.
	FormatTTL Format = "ttl"
	// FormatQLever is the Turtle dialect accepted by the QLever triple
	// store. Grammar productions are identical to Turtle; shorthands that
	// would require reader lookahead are never emitted.
	FormatQLever Format = "qlever"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "nt", "ntriples":
		return FormatNT, true
	case "ttl", "turtle":
		return FormatTTL, true
	case "qlever":
		return FormatQLever, true
	default:
		return "", false
	}
}

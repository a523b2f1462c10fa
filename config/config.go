// Package config holds the explicit configuration value passed into the
// source and handler constructors. There is deliberately no global
// instance: parallel invocations (and tests) each carry their own value.
package config

import (
	"io"
	"os"

	"github.com/Qup42/osm2rdf/util"
)

// Config configures one conversion run.
type Config struct {
	// Input is the path of the OSM file (.pbf, .osm, .osm.xml).
	Input string
	// Output is the output path; empty writes to stdout.
	Output string
	// OutputFormat selects the serialization: nt, ttl or qlever.
	OutputFormat string
	// OutputCompress gzips the output.
	OutputCompress bool
	// MergeMode selects how per-kind output sections reach the final file.
	MergeMode util.MergeMode

	// NumThreads is the worker count for the containment dump. Values
	// below 1 mean serial processing.
	NumThreads int

	// StoreLocationsOnDisk keeps the node location table in a temporary
	// on-disk store instead of memory.
	StoreLocationsOnDisk bool

	// AddUntaggedNodes dumps nodes without tags (type and geometry only).
	AddUntaggedNodes bool
	// AddUntaggedWays dumps ways without tags.
	AddUntaggedWays bool
	// AddUntaggedRelations dumps relations without tags.
	AddUntaggedRelations bool
	// AddUntaggedAreas dumps areas whose source carries no tags.
	AddUntaggedAreas bool

	// StatusWriter receives the counter and containment reports.
	StatusWriter io.Writer
}

// Default returns a configuration with the defaults the CLI starts from.
func Default() *Config {
	return &Config{
		OutputFormat: "qlever",
		NumThreads:   1,
		StatusWriter: os.Stderr,
	}
}

// Status returns the status sink, falling back to stderr.
func (c *Config) Status() io.Writer {
	if c.StatusWriter == nil {
		return os.Stderr
	}
	return c.StatusWriter
}

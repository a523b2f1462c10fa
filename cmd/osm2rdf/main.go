// Command osm2rdf converts OpenStreetMap data into RDF triples in
// N-Triples, Turtle or QLever-Turtle syntax, including the spatial
// relations between areas, ways and nodes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Qup42/osm2rdf/config"
	"github.com/Qup42/osm2rdf/osm"
	"github.com/Qup42/osm2rdf/rdf"
	"github.com/Qup42/osm2rdf/util"
)

var (
	cfg       = config.Default()
	mergeMode string
	locations string
)

var rootCmd = &cobra.Command{
	Use:          "osm2rdf <input>",
	Short:        "Convert OSM data to RDF triples",
	Long:         "osm2rdf converts OSM nodes, ways, relations and derived areas\ninto RDF triples (nt, ttl or qlever) and computes the spatial\ncontainment and intersection relations between them.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Input = args[0]
		return run(cmd.Context())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.Output, "output", "o", "", "output path (default stdout)")
	flags.StringVarP(&cfg.OutputFormat, "output-format", "f", cfg.OutputFormat, "output format: nt, ttl or qlever")
	flags.BoolVar(&cfg.OutputCompress, "compress", false, "gzip the output")
	flags.StringVar(&mergeMode, "merge-mode", "none", "output assembly: none, concatenate or merge")
	flags.IntVarP(&cfg.NumThreads, "threads", "t", cfg.NumThreads, "worker count for the containment dump")
	flags.StringVar(&locations, "store-locations", "mem", "node location store: mem or disk")
	flags.BoolVar(&cfg.AddUntaggedNodes, "add-untagged-nodes", false, "dump nodes without tags")
	flags.BoolVar(&cfg.AddUntaggedWays, "add-untagged-ways", false, "dump ways without tags")
	flags.BoolVar(&cfg.AddUntaggedRelations, "add-untagged-relations", false, "dump relations without tags")
	flags.BoolVar(&cfg.AddUntaggedAreas, "add-untagged-areas", false, "dump areas without tags")
}

func run(ctx context.Context) error {
	format, ok := rdf.ParseFormat(cfg.OutputFormat)
	if !ok {
		return fmt.Errorf("unknown output format: %s", cfg.OutputFormat)
	}
	mode, ok := util.ParseMergeMode(mergeMode)
	if !ok {
		return fmt.Errorf("unknown merge mode: %s", mergeMode)
	}
	cfg.MergeMode = mode
	switch locations {
	case "mem", "disk":
		cfg.StoreLocationsOnDisk = locations == "disk"
	default:
		return fmt.Errorf("unknown location store: %s", locations)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	out := util.NewOutput(cfg.Output, cfg.MergeMode, cfg.OutputCompress)
	writer := rdf.NewWriter(format, out)
	if err := writer.Open(); err != nil {
		return err
	}
	if err := writer.WriteHeader(); err != nil {
		return err
	}

	src, err := osm.NewFileSource(cfg, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	handler := osm.NewHandler(cfg, writer, logger)
	if err := handler.Run(ctx, src); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

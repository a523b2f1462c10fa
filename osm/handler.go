package osm

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Qup42/osm2rdf/config"
	"github.com/Qup42/osm2rdf/rdf"
)

// kindStats counts one entity kind: received, dumped with at least one
// triple, and dumped with a geometry triple.
type kindStats struct {
	seen     atomic.Uint64
	dumped   atomic.Uint64
	geometry atomic.Uint64
}

// Handler consumes a Source in two passes: the area pass feeds the
// containment engine, the entity pass emits nodes, ways and relations and
// queues containment work. Finish dumps the spatial relations and reports
// the counters.
type Handler struct {
	cfg    *config.Config
	writer *rdf.Writer
	mapper *Mapper
	engine *GeometryHandler
	log    *zap.Logger

	nodes     kindStats
	ways      kindStats
	relations kindStats
	areas     kindStats
}

// NewHandler wires a handler to a writer.
func NewHandler(cfg *config.Config, writer *rdf.Writer, log *zap.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		writer: writer,
		mapper: NewMapper(writer),
		engine: NewGeometryHandler(cfg, writer, log),
		log:    log,
	}
}

// Run drives the full conversion: area pass, freeze, entity pass, spatial
// dump and counter report.
func (h *Handler) Run(ctx context.Context, src Source) error {
	h.log.Info("area pass")
	if err := src.Areas(ctx, h); err != nil {
		return err
	}
	h.engine.Prepare()
	h.log.Info("entity pass")
	if err := src.Entities(ctx, h); err != nil {
		return err
	}
	return h.Finish()
}

// OnArea emits an area's triples, feeds the containment engine and
// updates the counters.
func (h *Handler) OnArea(a Area) error {
	h.areas.seen.Add(1)
	if len(a.Tags) > 0 || h.cfg.AddUntaggedAreas {
		if err := h.mapper.DumpArea(a); err != nil {
			return err
		}
		h.areas.dumped.Add(1)
		h.areas.geometry.Add(1)
	}
	h.engine.AddArea(a)
	return nil
}

// OnNode emits a node's triples and queues it for containment. Untagged
// nodes are skipped entirely unless configured otherwise.
func (h *Handler) OnNode(n Node) error {
	h.nodes.seen.Add(1)
	if len(n.Tags) == 0 && !h.cfg.AddUntaggedNodes {
		return nil
	}
	if err := h.mapper.DumpNode(n); err != nil {
		return err
	}
	h.nodes.dumped.Add(1)
	h.nodes.geometry.Add(1)
	h.engine.QueueNode(n)
	return nil
}

// OnWay emits a way's triples and queues it for containment when at least
// two of its distinct nodes are members of some area.
func (h *Handler) OnWay(w Way) error {
	h.ways.seen.Add(1)
	if len(w.Tags) == 0 && !h.cfg.AddUntaggedWays {
		return nil
	}
	if err := h.mapper.DumpWay(w); err != nil {
		return err
	}
	h.ways.dumped.Add(1)
	h.ways.geometry.Add(1)
	if h.engine.WayMemberNodes(w) >= 2 {
		h.engine.QueueWay(w)
	}
	return nil
}

// OnRelation emits a relation's triples. Relations carry no geometry.
func (h *Handler) OnRelation(r Relation) error {
	h.relations.seen.Add(1)
	if len(r.Tags) == 0 && !h.cfg.AddUntaggedRelations {
		return nil
	}
	if err := h.mapper.DumpRelation(r); err != nil {
		return err
	}
	h.relations.dumped.Add(1)
	return nil
}

// Finish dumps the spatial relations and reports the counters.
func (h *Handler) Finish() error {
	if err := h.engine.DumpNodeRelations(); err != nil {
		return err
	}
	if err := h.engine.DumpWayRelations(); err != nil {
		return err
	}
	h.reportStats()
	return nil
}

// Engine exposes the containment engine, mainly for tests.
func (h *Handler) Engine() *GeometryHandler { return h.engine }

func (h *Handler) reportStats() {
	status := h.cfg.Status()
	report := func(kind string, s *kindStats) {
		fmt.Fprintf(status, "%s seen:%d dumped: %d geometry: %d\n",
			kind, s.seen.Load(), s.dumped.Load(), s.geometry.Load())
	}
	report("areas", &h.areas)
	report("nodes", &h.nodes)
	report("relations", &h.relations)
	report("ways", &h.ways)
}

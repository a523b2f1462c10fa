package osm

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Qup42/osm2rdf/config"
	"github.com/Qup42/osm2rdf/geom"
	"github.com/Qup42/osm2rdf/rdf"
	"github.com/Qup42/osm2rdf/spatial"
	"github.com/Qup42/osm2rdf/util"
)

// GeometryHandler computes the spatial relations between areas and the
// other entities. Areas are inserted during the first pass; Prepare
// freezes them into a containment DAG and the node table; the dump
// methods then walk the frozen structures and emit ogc: triples.
type GeometryHandler struct {
	cfg    *config.Config
	writer *rdf.Writer
	log    *zap.Logger

	areas     []Area
	sorted    []*Area // ascending envelope area after Prepare
	areaByID  map[int64]*Area
	dag       *spatial.DirectedGraph
	nodeAreas map[int64]map[int64]struct{}

	queuedNodes []Node
	queuedWays  []Way
	frozen      bool
}

// NewGeometryHandler returns an empty engine.
func NewGeometryHandler(cfg *config.Config, writer *rdf.Writer, log *zap.Logger) *GeometryHandler {
	return &GeometryHandler{
		cfg:       cfg,
		writer:    writer,
		log:       log,
		areaByID:  make(map[int64]*Area),
		dag:       spatial.NewDirectedGraph(),
		nodeAreas: make(map[int64]map[int64]struct{}),
	}
}

// AddArea inserts an area and records its member nodes. Only valid before
// Prepare.
func (h *GeometryHandler) AddArea(a Area) {
	h.areas = append(h.areas, a)
	for _, nid := range a.NodeIDs {
		set, ok := h.nodeAreas[nid]
		if !ok {
			set = make(map[int64]struct{})
			h.nodeAreas[nid] = set
		}
		set[a.ID] = struct{}{}
	}
}

// Prepare freezes the area set: the containment DAG is built largest
// envelope first so containers exist before their containees, storing only
// immediate containment.
func (h *GeometryHandler) Prepare() {
	byDescendingEnvelope := make([]*Area, 0, len(h.areas))
	for i := range h.areas {
		byDescendingEnvelope = append(byDescendingEnvelope, &h.areas[i])
	}
	sort.Slice(byDescendingEnvelope, func(i, j int) bool {
		a, b := byDescendingEnvelope[i], byDescendingEnvelope[j]
		if a.EnvelopeArea() != b.EnvelopeArea() {
			return a.EnvelopeArea() > b.EnvelopeArea()
		}
		return a.ID < b.ID
	})

	for _, a := range byDescendingEnvelope {
		h.dag.AddVertex(a.ID)
		for _, parent := range h.directContainers(a) {
			h.dag.AddEdge(parent, a.ID)
		}
		h.areaByID[a.ID] = a
	}

	h.sorted = make([]*Area, len(byDescendingEnvelope))
	for i, a := range byDescendingEnvelope {
		h.sorted[len(h.sorted)-1-i] = a
	}
	h.frozen = true
}

// directContainers returns the already-inserted areas that contain a and
// are not themselves containers of another container of a.
func (h *GeometryHandler) directContainers(a *Area) []int64 {
	containers := make(map[int64]struct{})
	for id, c := range h.areaByID {
		if !geom.BoundContains(c.Envelope(), a.Envelope()) {
			continue
		}
		contains, err := spatial.ContainsMultiPolygon(c.Geom, a.Geom)
		if err != nil {
			h.log.Warn("degenerate geometry in containment test",
				zap.Int64("container", c.ID), zap.Int64("area", a.ID), zap.Error(err))
			continue
		}
		if contains {
			containers[id] = struct{}{}
		}
	}
	// Prune transitive edges: a container of a container is not direct.
	for id := range containers {
		for _, anc := range h.dag.Ancestors(id) {
			delete(containers, anc)
		}
	}
	parents := make([]int64, 0, len(containers))
	for id := range containers {
		parents = append(parents, id)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })
	return parents
}

// QueueNode enqueues a dumped node for containment evaluation.
func (h *GeometryHandler) QueueNode(n Node) { h.queuedNodes = append(h.queuedNodes, n) }

// QueueWay enqueues a dumped way for containment evaluation.
func (h *GeometryHandler) QueueWay(w Way) { h.queuedWays = append(h.queuedWays, w) }

// WayMemberNodes counts the distinct node ids of w that are members of
// any area.
func (h *GeometryHandler) WayMemberNodes(w Way) int {
	seen := make(map[int64]struct{})
	for _, nid := range w.NodeIDs {
		if _, dup := seen[nid]; dup {
			continue
		}
		if _, ok := h.nodeAreas[nid]; ok {
			seen[nid] = struct{}{}
		}
	}
	return len(seen)
}

func (h *GeometryHandler) sharesNode(w Way, areaID int64) bool {
	for _, nid := range w.NodeIDs {
		if set, ok := h.nodeAreas[nid]; ok {
			if _, hit := set[areaID]; hit {
				return true
			}
		}
	}
	return false
}

// runParallel applies fn to every index using the configured worker
// count. Serial processing stops at the first error; with several workers
// the first error wins and the remaining work is still drained.
func (h *GeometryHandler) runParallel(count int, fn func(i int) error) error {
	threads := h.cfg.NumThreads
	if threads <= 1 {
		for i := 0; i < count; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	var (
		wg       sync.WaitGroup
		firstErr error
		errOnce  sync.Once
	)
	work := make(chan int)
	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if err := fn(i); err != nil {
					errOnce.Do(func() { firstErr = err })
				}
			}
		}()
	}
	for i := 0; i < count; i++ {
		work <- i
	}
	close(work)
	wg.Wait()
	return firstErr
}

func (h *GeometryHandler) emitNodeRelation(a *Area, n Node) error {
	subj := areaIRI(*a)
	obj := nodeIRI(n.ID)
	if err := h.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixOGC, "intersects"), obj); err != nil {
		return err
	}
	return h.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixOGC, "contains"), obj)
}

func (h *GeometryHandler) emitWayRelation(a *Area, w Way, contains, intersects bool) error {
	subj := areaIRI(*a)
	obj := wayIRI(w.ID)
	if intersects {
		if err := h.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixOGC, "intersects_area"), obj); err != nil {
			return err
		}
	}
	if contains {
		if err := h.writer.WriteTriple(subj, rdf.NewIRI(rdf.PrefixOGC, "contains_area"), obj); err != nil {
			return err
		}
	}
	return nil
}

// DumpNodeRelations walks the queued nodes against the frozen areas,
// smallest envelope first. A positive precise test marks every DAG
// ancestor contained without a further test.
func (h *GeometryHandler) DumpNodeRelations() error {
	status := h.cfg.Status()
	if len(h.queuedNodes) == 0 {
		fmt.Fprintf(status, "Skipping contains relation for nodes ... no nodes\n")
		return nil
	}
	fmt.Fprintf(status, "Contains relations for %d nodes in %d areas ...\n",
		len(h.queuedNodes), len(h.sorted))
	h.writer.SetPart(util.PartSpatial)

	var looked, skippedDAG, checks, containsChecks, containsYes atomic.Uint64
	err := h.runParallel(len(h.queuedNodes), func(i int) error {
		n := h.queuedNodes[i]
		skip := make(map[int64]struct{})
		for _, a := range h.sorted {
			looked.Add(1)
			if _, ok := skip[a.ID]; ok {
				skippedDAG.Add(1)
				if err := h.emitNodeRelation(a, n); err != nil {
					return err
				}
				continue
			}
			if !a.Envelope().Contains(n.Loc) {
				continue
			}
			checks.Add(1)
			containsChecks.Add(1)
			contains, err := spatial.ContainsPoint(a.Geom, n.Loc)
			if err != nil {
				h.log.Warn("degenerate geometry, node relation not emitted",
					zap.Int64("area", a.ID), zap.Int64("node", n.ID), zap.Error(err))
				continue
			}
			if !contains {
				continue
			}
			containsYes.Add(1)
			if err := h.emitNodeRelation(a, n); err != nil {
				return err
			}
			for _, anc := range h.dag.Ancestors(a.ID) {
				skip[anc] = struct{}{}
			}
		}
		return nil
	})
	fmt.Fprintf(status, "... done with looking at %d areas, %d skipped by DAG\n",
		looked.Load(), skippedDAG.Load())
	fmt.Fprintf(status, "                           %d checks performed\n", checks.Load())
	fmt.Fprintf(status, "                           contains: %d yes: %d\n",
		containsChecks.Load(), containsYes.Load())
	return err
}

// DumpWayRelations walks the queued ways against the frozen areas. A
// candidate whose envelope contains the way's envelope takes the contains
// path, consulting the node table instead of an explicit intersect test; a
// candidate with mere envelope overlap takes the intersect path.
func (h *GeometryHandler) DumpWayRelations() error {
	status := h.cfg.Status()
	if len(h.queuedWays) == 0 {
		fmt.Fprintf(status, "Skipping contains relation for ways ... no ways\n")
		return nil
	}
	fmt.Fprintf(status, "Contains relations for %d ways in %d areas ...\n",
		len(h.queuedWays), len(h.sorted))
	h.writer.SetPart(util.PartSpatial)

	var (
		looked, intersectChecks, intersectSkippedDAG, skippedNodeInfo atomic.Uint64
		intersectYes, containsChecks, containsSkippedDAG             atomic.Uint64
		containsEnvelope, containsYes                                atomic.Uint64
	)
	err := h.runParallel(len(h.queuedWays), func(i int) error {
		w := h.queuedWays[i]
		env := w.Envelope()
		skip := make(map[int64]struct{})
		for _, a := range h.sorted {
			if a.FromWay() && a.ObjID == w.ID {
				continue
			}
			looked.Add(1)
			if _, ok := skip[a.ID]; ok {
				intersectSkippedDAG.Add(1)
				containsSkippedDAG.Add(1)
				if err := h.emitWayRelation(a, w, true, true); err != nil {
					return err
				}
				continue
			}
			if !geom.BoundIntersects(a.Envelope(), env) {
				continue
			}
			if geom.BoundContains(a.Envelope(), env) {
				// Containment candidate. The node table decides the
				// boundary question: a shared member node means the way
				// touches the area, so no intersect test runs either way.
				skippedNodeInfo.Add(1)
				shares := h.sharesNode(w, a.ID)
				if shares {
					if err := h.emitWayRelation(a, w, false, true); err != nil {
						return err
					}
				}
				containsChecks.Add(1)
				containsEnvelope.Add(1)
				contains, err := spatial.ContainsLine(a.Geom, w.Geom)
				if err != nil {
					h.log.Warn("degenerate geometry, way relation not emitted",
						zap.Int64("area", a.ID), zap.Int64("way", w.ID), zap.Error(err))
					continue
				}
				if !contains {
					continue
				}
				containsYes.Add(1)
				if err := h.emitWayRelation(a, w, true, !shares); err != nil {
					return err
				}
				for _, anc := range h.dag.Ancestors(a.ID) {
					skip[anc] = struct{}{}
				}
				continue
			}
			intersectChecks.Add(1)
			intersects, err := spatial.IntersectsLine(a.Geom, w.Geom)
			if err != nil {
				h.log.Warn("degenerate geometry, way relation not emitted",
					zap.Int64("area", a.ID), zap.Int64("way", w.ID), zap.Error(err))
				continue
			}
			if intersects {
				intersectYes.Add(1)
				if err := h.emitWayRelation(a, w, false, true); err != nil {
					return err
				}
			}
		}
		return nil
	})
	fmt.Fprintf(status, "... done with looking at %d areas\n", looked.Load())
	fmt.Fprintf(status, "                           %d intersection checks performed, %d skipped by DAG, %d skipped by NodeInfo\n",
		intersectChecks.Load(), intersectSkippedDAG.Load(), skippedNodeInfo.Load())
	fmt.Fprintf(status, "                           intersect: %d yes: %d\n",
		intersectChecks.Load(), intersectYes.Load())
	fmt.Fprintf(status, "                           %d contains checks performed, %d skipped by DAG\n",
		containsChecks.Load(), containsSkippedDAG.Load())
	fmt.Fprintf(status, "                           contains: %d contains envelope: %d yes: %d\n",
		containsChecks.Load(), containsEnvelope.Load(), containsYes.Load())
	return err
}

// DAG exposes the frozen containment graph.
func (h *GeometryHandler) DAG() *spatial.DirectedGraph { return h.dag }

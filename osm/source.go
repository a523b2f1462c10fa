package osm

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb"
	posm "github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"

	"github.com/Qup42/osm2rdf/config"
)

// EntityHandler receives the streamed entities.
type EntityHandler interface {
	OnNode(Node) error
	OnWay(Way) error
	OnRelation(Relation) error
	OnArea(Area) error
}

// Source streams the assembled areas, then the raw entities. Areas must
// run first: it also fills the node location table the entity pass
// resolves way geometries from.
type Source interface {
	Areas(ctx context.Context, h EntityHandler) error
	Entities(ctx context.Context, h EntityHandler) error
	Close() error
}

// mpRelation is a multipolygon relation collected during the first scan.
type mpRelation struct {
	id      int64
	tags    TagList
	members []mpMember
}

type mpMember struct {
	ref   int64
	inner bool
}

// FileSource reads an OSM file (PBF or XML) in multiple scans: one for
// multipolygon relations, one for locations and areas, one for the
// entities themselves.
type FileSource struct {
	cfg  *config.Config
	log  *zap.Logger
	locs LocationStore

	mpRelations []mpRelation
	neededWays  map[int64]struct{}
	bufferedWay map[int64]memberWay
	prepared    bool
}

// NewFileSource returns a source for cfg.Input.
func NewFileSource(cfg *config.Config, log *zap.Logger) (*FileSource, error) {
	locs := NewMemoryLocationStore()
	if cfg.StoreLocationsOnDisk {
		var err error
		locs, err = NewDiskLocationStore()
		if err != nil {
			return nil, err
		}
	}
	return &FileSource{
		cfg:         cfg,
		log:         log,
		locs:        locs,
		neededWays:  make(map[int64]struct{}),
		bufferedWay: make(map[int64]memberWay),
	}, nil
}

// Close releases the location store.
func (s *FileSource) Close() error { return s.locs.Close() }

func (s *FileSource) scan(ctx context.Context, fn func(posm.Object) error) error {
	f, err := os.Open(s.cfg.Input)
	if err != nil {
		return fmt.Errorf("osm: %w", err)
	}
	defer f.Close()

	var scanner posm.Scanner
	if strings.HasSuffix(s.cfg.Input, ".pbf") {
		procs := s.cfg.NumThreads
		if procs < 1 {
			procs = 1
		}
		scanner = osmpbf.New(ctx, f, procs)
	} else {
		scanner = osmxml.New(ctx, f)
	}
	defer scanner.Close()

	for scanner.Scan() {
		if err := fn(scanner.Object()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("osm: %w", err)
	}
	return nil
}

// isMultiPolygon reports whether a relation assembles into an area.
func isMultiPolygon(tags posm.Tags) bool {
	for _, t := range tags {
		if t.Key == "type" {
			return t.Value == "multipolygon" || t.Value == "boundary"
		}
	}
	return false
}

// Areas streams every assembled area into h.OnArea: closed ways as they
// are read, multipolygon relations once their member ways are buffered.
func (s *FileSource) Areas(ctx context.Context, h EntityHandler) error {
	// First scan: find multipolygon relations and the ways they need.
	err := s.scan(ctx, func(o posm.Object) error {
		rel, ok := o.(*posm.Relation)
		if !ok || !isMultiPolygon(rel.Tags) {
			return nil
		}
		tags, err := NewTagList(rel.Tags)
		if err != nil {
			return err
		}
		def := mpRelation{id: int64(rel.ID), tags: tags}
		for _, m := range rel.Members {
			if m.Type != posm.TypeWay {
				continue
			}
			def.members = append(def.members, mpMember{ref: m.Ref, inner: m.Role == "inner"})
			s.neededWays[m.Ref] = struct{}{}
		}
		s.mpRelations = append(s.mpRelations, def)
		return nil
	})
	if err != nil {
		return err
	}

	// Second scan: node locations, way areas, member way buffering.
	err = s.scan(ctx, func(o posm.Object) error {
		switch obj := o.(type) {
		case *posm.Node:
			return s.locs.Put(int64(obj.ID), orb.Point{obj.Lon, obj.Lat})
		case *posm.Way:
			w, err := s.convertWay(obj)
			if err != nil {
				return err
			}
			if _, needed := s.neededWays[int64(obj.ID)]; needed {
				if len(w.Geom) == len(w.NodeIDs) {
					s.bufferedWay[w.ID] = memberWay{id: w.ID, nodeIDs: w.NodeIDs, points: w.Geom}
				}
			}
			if w.Closed() && len(w.Geom) == len(w.NodeIDs) {
				area, err := NewWayArea(w)
				if err != nil {
					return err
				}
				return h.OnArea(area)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, def := range s.mpRelations {
		members := make([]memberWay, 0, len(def.members))
		for _, m := range def.members {
			w, ok := s.bufferedWay[m.ref]
			if !ok {
				members = nil
				break
			}
			w.inner = m.inner
			members = append(members, w)
		}
		if members == nil {
			s.log.Warn("multipolygon member ways missing, skipping area",
				zap.Int64("relation", def.id))
			continue
		}
		area, err := assembleRelationArea(def.id, def.tags, members)
		if err != nil {
			s.log.Warn("multipolygon assembly failed, skipping area",
				zap.Int64("relation", def.id), zap.Error(err))
			continue
		}
		if err := h.OnArea(area); err != nil {
			return err
		}
	}
	s.prepared = true
	return nil
}

// Entities streams nodes, ways and relations into h. Areas must have run.
func (s *FileSource) Entities(ctx context.Context, h EntityHandler) error {
	if !s.prepared {
		return fmt.Errorf("osm: entity pass before area pass")
	}
	return s.scan(ctx, func(o posm.Object) error {
		switch obj := o.(type) {
		case *posm.Node:
			tags, err := NewTagList(obj.Tags)
			if err != nil {
				return err
			}
			return h.OnNode(Node{
				ID:   int64(obj.ID),
				Loc:  orb.Point{obj.Lon, obj.Lat},
				Tags: tags,
			})
		case *posm.Way:
			w, err := s.convertWay(obj)
			if err != nil {
				return err
			}
			return h.OnWay(w)
		case *posm.Relation:
			tags, err := NewTagList(obj.Tags)
			if err != nil {
				return err
			}
			rel := Relation{ID: int64(obj.ID), Tags: tags}
			for _, m := range obj.Members {
				rel.Members = append(rel.Members, Member{
					Kind: MemberKind(m.Type),
					Ref:  m.Ref,
					Role: m.Role,
				})
			}
			return h.OnRelation(rel)
		}
		return nil
	})
}

// convertWay resolves the way's node references through the location
// store. Unresolvable references stay in NodeIDs but are dropped from the
// geometry.
func (s *FileSource) convertWay(w *posm.Way) (Way, error) {
	tags, err := NewTagList(w.Tags)
	if err != nil {
		return Way{}, err
	}
	way := Way{ID: int64(w.ID), Tags: tags}
	for _, wn := range w.Nodes {
		way.NodeIDs = append(way.NodeIDs, int64(wn.ID))
		loc, ok, err := s.locs.Get(int64(wn.ID))
		if err != nil {
			return Way{}, err
		}
		if ok {
			way.Geom = append(way.Geom, loc)
		}
	}
	return way, nil
}

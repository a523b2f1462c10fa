package osm

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/syndtr/goleveldb/leveldb"
)

// LocationStore resolves node ids to coordinates between the input scans.
type LocationStore interface {
	Put(id int64, loc orb.Point) error
	Get(id int64) (orb.Point, bool, error)
	Close() error
}

type memLocationStore struct {
	locs map[int64]orb.Point
}

// NewMemoryLocationStore returns an in-memory location store.
func NewMemoryLocationStore() LocationStore {
	return &memLocationStore{locs: make(map[int64]orb.Point)}
}

func (s *memLocationStore) Put(id int64, loc orb.Point) error {
	s.locs[id] = loc
	return nil
}

func (s *memLocationStore) Get(id int64) (orb.Point, bool, error) {
	loc, ok := s.locs[id]
	return loc, ok, nil
}

func (s *memLocationStore) Close() error { return nil }

// levelLocationStore spills the node table to a temporary LevelDB, for
// inputs whose node count exceeds RAM.
type levelLocationStore struct {
	db  *leveldb.DB
	dir string
}

// NewDiskLocationStore returns a LevelDB-backed location store in a fresh
// temporary directory. Close removes it.
func NewDiskLocationStore() (LocationStore, error) {
	dir, err := os.MkdirTemp("", "osm2rdf-locations-")
	if err != nil {
		return nil, fmt.Errorf("osm: location store: %w", err)
	}
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("osm: location store: %w", err)
	}
	return &levelLocationStore{db: db, dir: dir}, nil
}

func locationKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func (s *levelLocationStore) Put(id int64, loc orb.Point) error {
	value := make([]byte, 16)
	binary.BigEndian.PutUint64(value, math.Float64bits(loc[0]))
	binary.BigEndian.PutUint64(value[8:], math.Float64bits(loc[1]))
	if err := s.db.Put(locationKey(id), value, nil); err != nil {
		return fmt.Errorf("osm: location store: %w", err)
	}
	return nil
}

func (s *levelLocationStore) Get(id int64) (orb.Point, bool, error) {
	value, err := s.db.Get(locationKey(id), nil)
	if err == leveldb.ErrNotFound {
		return orb.Point{}, false, nil
	}
	if err != nil {
		return orb.Point{}, false, fmt.Errorf("osm: location store: %w", err)
	}
	return orb.Point{
		math.Float64frombits(binary.BigEndian.Uint64(value)),
		math.Float64frombits(binary.BigEndian.Uint64(value[8:])),
	}, true, nil
}

func (s *levelLocationStore) Close() error {
	err := s.db.Close()
	os.RemoveAll(s.dir)
	return err
}

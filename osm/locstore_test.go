package osm

import (
	"testing"

	"github.com/paulmach/orb"
)

func testLocationStore(t *testing.T, store LocationStore) {
	t.Helper()
	defer store.Close()

	if err := store.Put(298884269, orb.Point{12.2482632, 54.0901746}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(-5, orb.Point{-1.25, 2.5}); err != nil {
		t.Fatalf("put: %v", err)
	}

	loc, ok, err := store.Get(298884269)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || loc != (orb.Point{12.2482632, 54.0901746}) {
		t.Fatalf("get = %v, %v", loc, ok)
	}
	loc, ok, err = store.Get(-5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || loc != (orb.Point{-1.25, 2.5}) {
		t.Fatalf("get = %v, %v", loc, ok)
	}
	_, ok, err = store.Get(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("missing id reported present")
	}
}

func TestMemoryLocationStore(t *testing.T) {
	testLocationStore(t, NewMemoryLocationStore())
}

func TestDiskLocationStore(t *testing.T) {
	store, err := NewDiskLocationStore()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	testLocationStore(t, store)
}

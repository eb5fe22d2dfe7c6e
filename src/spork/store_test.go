package spork

import (
	"io/ioutil"
	"os"
	"reflect"
	"testing"

	cm "github.com/fastnode/sporknet/src/common"
)

func newTestBadgerDir(t *testing.T) string {
	os.MkdirAll("test_data", os.ModeDir|0777)
	dir, err := ioutil.TempDir("test_data", "badger")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func testStore(t *testing.T, store Store) {
	a := newAuthority(t)

	if _, err := store.ReadSpork(SwiftTX); !cm.IsStore(err, cm.KeyNotFound) {
		t.Fatalf("ReadSpork should return KeyNotFound, not %v", err)
	}

	r1 := a.record(t, SwiftTX, 1, 1)
	r2 := a.record(t, SwiftTX, 2, 2)

	if err := store.WriteSpork(SwiftTX, r1); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteSpork(SwiftTX, r2); err != nil {
		t.Fatal(err)
	}

	r, err := store.ReadSpork(SwiftTX)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r, r2) {
		t.Fatalf("ReadSpork should return %v, not %v", r2, r)
	}

	if _, err := store.ReadSpork(MaxValue); !cm.IsStore(err, cm.KeyNotFound) {
		t.Fatalf("ReadSpork should return KeyNotFound, not %v", err)
	}
}

func TestInmemStore(t *testing.T) {
	store := NewInmemStore()
	testStore(t, store)

	store.Close()
	if _, err := store.ReadSpork(SwiftTX); !cm.IsStore(err, cm.Closed) {
		t.Fatalf("ReadSpork on a closed store should return Closed, not %v", err)
	}
}

func TestBadgerStore(t *testing.T) {
	dir := newTestBadgerDir(t)
	defer os.RemoveAll(dir)

	store, err := NewBadgerStore(dir, cm.NewTestEntry(t, cm.TestLogLevel))
	if err != nil {
		t.Fatal(err)
	}

	testStore(t, store)

	if store.StorePath() != dir {
		t.Fatalf("StorePath should be %s, not %s", dir, store.StorePath())
	}

	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestBadgerStoreReopen(t *testing.T) {
	dir := newTestBadgerDir(t)
	defer os.RemoveAll(dir)

	a := newAuthority(t)
	r := a.record(t, MaxValue, 2000, 2000)

	store, err := NewBadgerStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.WriteSpork(MaxValue, r); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = NewBadgerStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	loaded, err := store.ReadSpork(MaxValue)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, r) {
		t.Fatalf("reopened store should return %v, not %v", r, loaded)
	}
}

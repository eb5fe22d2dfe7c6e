package spork

import (
	"strconv"
	"sync"

	cm "github.com/fastnode/sporknet/src/common"
)

// InmemStore is a Store that forgets everything on restart. Records are kept in
// their wire form so that it behaves like the BadgerStore.
type InmemStore struct {
	sync.Mutex
	records map[ID][]byte
	closed  bool
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{
		records: make(map[ID][]byte),
	}
}

// ReadSpork implements the Store interface.
func (s *InmemStore) ReadSpork(id ID) (*Record, error) {
	s.Lock()
	defer s.Unlock()

	key := strconv.Itoa(int(id))

	if s.closed {
		return nil, cm.NewStoreErr(sporkPrefix, cm.Closed, key)
	}

	data, ok := s.records[id]
	if !ok {
		return nil, cm.NewStoreErr(sporkPrefix, cm.KeyNotFound, key)
	}

	r := new(Record)
	if err := r.Unmarshal(data); err != nil {
		return nil, cm.NewStoreErr(sporkPrefix, cm.Corrupted, key)
	}
	return r, nil
}

// WriteSpork implements the Store interface.
func (s *InmemStore) WriteSpork(id ID, r *Record) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	if s.closed {
		return cm.NewStoreErr(sporkPrefix, cm.Closed, strconv.Itoa(int(id)))
	}

	s.records[id] = data
	return nil
}

// StorePath implements the Store interface.
func (s *InmemStore) StorePath() string {
	return ""
}

// Close implements the Store interface.
func (s *InmemStore) Close() error {
	s.Lock()
	defer s.Unlock()
	s.closed = true
	return nil
}

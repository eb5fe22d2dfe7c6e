package spork

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger"
	cm "github.com/fastnode/sporknet/src/common"
	"github.com/sirupsen/logrus"
)

// BadgerStore persists Records in a badger database under keys of the form
// spork_<id>.
type BadgerStore struct {
	db   *badger.DB
	path string
}

// NewBadgerStore opens, or creates, the database at path. Writes are synced to
// disk before they return.
func NewBadgerStore(path string, logger *logrus.Entry) (*BadgerStore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	if logger != nil {
		opts.Logger = logger.WithField("prefix", "badger")
	}

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerStore{
		db:   handle,
		path: path,
	}, nil
}

// ReadSpork implements the Store interface.
func (s *BadgerStore) ReadSpork(id ID) (*Record, error) {
	key := sporkKey(id)

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, mapError(err, string(key))
	}

	r := new(Record)
	if err := r.Unmarshal(data); err != nil {
		return nil, cm.NewStoreErr(sporkPrefix, cm.Corrupted, string(key))
	}
	return r, nil
}

// WriteSpork implements the Store interface.
func (s *BadgerStore) WriteSpork(id ID, r *Record) error {
	val, err := r.Marshal()
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sporkKey(id), val)
	})
}

// StorePath implements the Store interface.
func (s *BadgerStore) StorePath() string {
	return s.path
}

// Close implements the Store interface.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func sporkKey(id ID) []byte {
	return []byte(fmt.Sprintf("%s_%d", sporkPrefix, id))
}

func mapError(err error, key string) error {
	if err == badger.ErrKeyNotFound {
		return cm.NewStoreErr(sporkPrefix, cm.KeyNotFound, key)
	}
	return err
}

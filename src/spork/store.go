package spork

// Store persists the active Record of each spork. Writes overwrite.
// ReadSpork returns a common.StoreErr of type KeyNotFound when nothing was
// written for id.
type Store interface {
	ReadSpork(id ID) (*Record, error)
	WriteSpork(id ID, r *Record) error
	StorePath() string
	Close() error
}

const sporkPrefix = "spork"

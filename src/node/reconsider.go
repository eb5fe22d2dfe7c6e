package node

import (
	"time"

	"github.com/fastnode/sporknet/src/spork"
)

// Reconsiderer is notified after every accepted spork. It lets the block
// validation layer revisit the blocks it rejected within the given window, now
// that the rules may have changed.
type Reconsiderer interface {
	Reconsider(r *spork.Record, window time.Duration)
}

// ReconsidererFunc adapts a function to the Reconsiderer interface.
type ReconsidererFunc func(r *spork.Record, window time.Duration)

// Reconsider implements the Reconsiderer interface.
func (f ReconsidererFunc) Reconsider(r *spork.Record, window time.Duration) {
	f(r, window)
}

type noopReconsiderer struct{}

func (noopReconsiderer) Reconsider(*spork.Record, time.Duration) {}

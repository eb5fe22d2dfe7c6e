package spork

import (
	"crypto/ecdsa"
	"sort"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	cm "github.com/fastnode/sporknet/src/common"
	"github.com/sirupsen/logrus"
)

// dateThreshold separates values that are logged as dates from plain numbers.
const dateThreshold = 1000000

// Manager holds the active Record of each spork and every Record ever accepted.
// It is safe for concurrent use.
type Manager struct {
	registry *Registry
	verifier *Verifier
	store    Store
	logger   *logrus.Entry

	sync.RWMutex
	active  map[ID]*Record
	history map[chainhash.Hash]*Record

	signerLock sync.RWMutex
	signer     *Signer

	// now is replaced in tests
	now func() time.Time
}

// NewManager returns an empty Manager. Call Load to restore persisted Records.
func NewManager(registry *Registry, verifier *Verifier, store Store, logger *logrus.Entry) *Manager {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &Manager{
		registry: registry,
		verifier: verifier,
		store:    store,
		logger:   logger,
		active:   make(map[ID]*Record),
		history:  make(map[chainhash.Hash]*Record),
		now:      time.Now,
	}
}

// Registry ...
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Verifier ...
func (m *Manager) Verifier() *Verifier {
	return m.verifier
}

// Load restores the persisted Record of every spork in the Registry. Those
// Records were verified before they were written, so they are not verified
// again. Read errors are logged and leave the spork on its default value. It
// returns the number of Records loaded.
func (m *Manager) Load() int {
	m.Lock()
	defer m.Unlock()

	loaded := 0
	for _, p := range m.registry.Params() {
		logger := m.logger.WithField("spork", p.Name)

		r, err := m.store.ReadSpork(p.ID)
		if err != nil {
			if cm.IsStore(err, cm.KeyNotFound) {
				logger.Debug("No persisted spork")
			} else {
				logger.WithError(err).Error("Reading spork")
			}
			continue
		}

		if r.ID != p.ID {
			logger.WithField("id", r.ID).Error("Persisted spork has the wrong id")
			continue
		}

		m.history[r.Hash()] = r
		m.active[r.ID] = r
		loaded++

		logger.WithFields(logrus.Fields{
			"value":       formatValue(r.Value),
			"time_signed": r.TimeSigned,
		}).Info("Loaded spork")
	}

	return loaded
}

// ProcessSpork runs a Record through the acceptance rules. The Record is
// copied before it is kept. Signature verification happens outside the lock;
// freshness is checked again under the lock, together with the write to the
// Store, so that two Records racing for the same spork cannot both win.
func (m *Manager) ProcessSpork(r *Record) Outcome {
	hash := r.Hash()

	logger := m.logger.WithFields(logrus.Fields{
		"spork":       m.registry.NameOf(r.ID),
		"id":          r.ID,
		"value":       r.Value,
		"time_signed": r.TimeSigned,
		"hash":        hash.String(),
	})

	m.RLock()
	outcome := m.check(hash, r)
	m.RUnlock()
	if outcome != Accepted {
		logger.WithField("outcome", outcome).Debug("Ignoring spork")
		return outcome
	}

	if !m.verifier.Verify(r) {
		logger.Warn("Invalid spork signature")
		return InvalidSignature
	}

	r = r.Copy()

	m.Lock()
	defer m.Unlock()

	if outcome := m.check(hash, r); outcome != Accepted {
		logger.WithField("outcome", outcome).Debug("Ignoring spork")
		return outcome
	}

	m.history[hash] = r
	m.active[r.ID] = r

	if err := m.store.WriteSpork(r.ID, r); err != nil {
		logger.WithError(err).Error("Writing spork")
	}

	logger.Info("New spork")

	return Accepted
}

func (m *Manager) check(hash chainhash.Hash, r *Record) Outcome {
	if _, ok := m.history[hash]; ok {
		return Known
	}
	if !m.registry.Known(r.ID) {
		return UnknownSpork
	}
	if cur, ok := m.active[r.ID]; ok && cur.TimeSigned >= r.TimeSigned {
		return Stale
	}
	return Accepted
}

// SetSigner installs the master key. A key that does not match the authority
// key is refused and the previous signer, if any, is kept.
func (m *Manager) SetSigner(key *ecdsa.PrivateKey) error {
	signer, err := NewSigner(key, m.verifier)
	if err != nil {
		m.logger.WithError(err).Error("Installing master key")
		return err
	}

	m.signerLock.Lock()
	m.signer = signer
	m.signerLock.Unlock()

	m.logger.Info("Master key installed")
	return nil
}

// HasSigner reports whether a master key is installed.
func (m *Manager) HasSigner() bool {
	m.signerLock.RLock()
	defer m.signerLock.RUnlock()
	return m.signer != nil
}

// Update signs a new Record for id, timestamped now, and submits it like any
// other Record. The Record is returned along with the Outcome, which is Stale
// if a Record for id was already signed within the same second.
func (m *Manager) Update(id ID, value int64) (*Record, Outcome, error) {
	m.signerLock.RLock()
	signer := m.signer
	m.signerLock.RUnlock()

	if signer == nil {
		return nil, 0, ErrNoSigner
	}

	r := NewRecord(id, value, m.now().Unix())
	if err := signer.Sign(r); err != nil {
		return nil, 0, err
	}

	return r, m.ProcessSpork(r), nil
}

// Value returns the active value of a spork, its default if no Record was
// accepted, or Unset.
func (m *Manager) Value(id ID) int64 {
	m.RLock()
	r, ok := m.active[id]
	m.RUnlock()

	if ok {
		return r.Value
	}
	if def, ok := m.registry.DefaultOf(id); ok {
		return def
	}
	return Unset
}

// IsActive reports whether the value of a spork is a time before now.
func (m *Manager) IsActive(id ID, now time.Time) bool {
	v := m.Value(id)
	return v != Unset && v < now.Unix()
}

// Get returns a copy of the active Record of a spork.
func (m *Manager) Get(id ID) (*Record, bool) {
	m.RLock()
	defer m.RUnlock()

	r, ok := m.active[id]
	if !ok {
		return nil, false
	}
	return r.Copy(), true
}

// Active returns copies of the active Records, ordered by ID.
func (m *Manager) Active() []*Record {
	m.RLock()
	res := make([]*Record, 0, len(m.active))
	for _, r := range m.active {
		res = append(res, r.Copy())
	}
	m.RUnlock()

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Known reports whether a Record with the given fingerprint was accepted.
func (m *Manager) Known(hash chainhash.Hash) bool {
	m.RLock()
	defer m.RUnlock()
	_, ok := m.history[hash]
	return ok
}

// HistoryLen returns the number of Records ever accepted.
func (m *Manager) HistoryLen() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.history)
}

func formatValue(v int64) interface{} {
	if v > dateThreshold {
		return time.Unix(v, 0).UTC().Format(time.RFC1123)
	}
	return v
}

// Close closes the Store.
func (m *Manager) Close() error {
	return m.store.Close()
}

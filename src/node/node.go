package node

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fastnode/sporknet/src/config"
	"github.com/fastnode/sporknet/src/net"
	"github.com/fastnode/sporknet/src/peers"
	"github.com/fastnode/sporknet/src/spork"
	"github.com/sirupsen/logrus"
)

// invalidSignatureScore is the misbehaviour score of a forged spork. It bans
// the sender at the default threshold.
const invalidSignatureScore = 100

var (
	errBanned = errors.New("banned")
	errBusy   = errors.New("busy")
)

// Node exchanges spork records with its peers. It feeds every record it
// receives to the spork Manager, relays the accepted ones, and penalises the
// peers that send forged ones.
type Node struct {
	state

	conf   *config.Config
	logger *logrus.Entry

	manager *spork.Manager

	peerLock sync.RWMutex
	peers    *peers.PeerSet
	scores   *peers.ScoreBoard

	trans net.Transport
	netCh <-chan net.RPC

	reconsiderer Reconsiderer
	metrics      *Metrics

	// relayLock orders relayWg.Add against the Wait in Shutdown
	relayLock    sync.Mutex
	relayWg      sync.WaitGroup
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex

	start time.Time
}

// NewNode is a factory method that returns a Node instance. The node's own
// address is removed from the PeerSet.
func NewNode(conf *config.Config,
	manager *spork.Manager,
	peerSet *peers.PeerSet,
	trans net.Transport,
) *Node {
	_, others := peers.ExcludePeer(peerSet.Peers, trans.AdvertiseAddr())

	node := Node{
		conf:         conf,
		logger:       conf.Logger().WithField("this_addr", trans.AdvertiseAddr()),
		manager:      manager,
		peers:        peers.NewPeerSet(others),
		scores:       peers.NewScoreBoard(conf.BanThreshold, conf.BanTime),
		trans:        trans,
		netCh:        trans.Consumer(),
		reconsiderer: noopReconsiderer{},
		metrics:      NewMetrics(manager),
		shutdownCh:   make(chan struct{}),
	}

	return &node
}

// Init loads the persisted sporks.
func (n *Node) Init() error {
	loaded := n.manager.Load()

	n.logger.WithFields(logrus.Fields{
		"loaded": loaded,
		"peers":  n.peerSet().Len(),
	}).Debug("Init")

	n.setState(Syncing)
	n.start = time.Now()

	return nil
}

// RunAsync calls Run as a separate thread
func (n *Node) RunAsync() {
	n.logger.Debug("runasync")
	go n.Run()
}

// Run listens for, and processes, incoming RPCs until the node is shut down. When SyncOnStart is
// set, it first requests the sporks of every peer.
func (n *Node) Run() {
	go n.trans.Listen()

	go n.doBackgroundWork()

	if n.conf.SyncOnStart {
		accepted := n.SyncSporks()
		n.logger.WithField("accepted", accepted).Debug("Initial spork sync")
	}

	n.casState(Syncing, Running)

	<-n.shutdownCh
}

func (n *Node) doBackgroundWork() {
	for {
		select {
		case rpc := <-n.netCh:
			if !n.goFunc(func() { n.processRPC(rpc) }) {
				n.metrics.dropped.Inc()
				n.logger.Warn("Too many concurrent RPCs, dropping one")
				rpc.Respond(nil, errBusy)
			}
		case <-n.shutdownCh:
			return
		}
	}
}

// SetReconsiderer installs the hook called after every accepted spork.
func (n *Node) SetReconsiderer(r Reconsiderer) {
	if r == nil {
		r = noopReconsiderer{}
	}
	n.reconsiderer = r
}

// SetMasterKey installs the key used to publish sporks. It fails, and leaves
// the node unable to publish, when the key does not match the spork authority.
func (n *Node) SetMasterKey(key *ecdsa.PrivateKey) error {
	return n.manager.SetSigner(key)
}

// UpdateSpork signs a new value for a spork, accepts it locally and relays it
// to all peers.
func (n *Node) UpdateSpork(id spork.ID, value int64) (*spork.Record, error) {
	r, outcome, err := n.manager.Update(id, value)
	if err != nil {
		n.logger.WithError(err).Error("Updating spork")
		return nil, err
	}

	n.afterProcess(r, outcome, "")

	if outcome != spork.Accepted {
		return nil, fmt.Errorf("spork %s not accepted: %s", n.manager.Registry().NameOf(id), outcome)
	}

	return r, nil
}

// SyncSporks requests the sporks of every peer and processes them. It returns
// the number of records accepted.
func (n *Node) SyncSporks() int {
	var (
		wg       sync.WaitGroup
		accepted int32
	)

	for _, p := range n.targets("") {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			atomic.AddInt32(&accepted, int32(n.syncFrom(target)))
		}(p.NetAddr)
	}

	wg.Wait()

	return int(accepted)
}

func (n *Node) syncFrom(target string) int {
	resp, err := n.requestGetSporks(target)
	if err != nil {
		n.metrics.syncErrors.Inc()
		n.logger.WithError(err).WithField("peer", target).Error("requestGetSporks()")
		return 0
	}

	n.logger.WithFields(logrus.Fields{
		"from":   resp.FromAddr,
		"sporks": len(resp.Sporks),
	}).Debug("GetSporksResponse")

	accepted := 0
	for _, data := range resp.Sporks {
		if n.scores.IsBanned(target) {
			break
		}

		r := new(spork.Record)
		if err := r.Unmarshal(data); err != nil {
			n.logger.WithError(err).WithField("peer", target).Error("Decoding spork")
			continue
		}

		if n.handleSpork(r, target) == spork.Accepted {
			accepted++
		}
	}

	return accepted
}

// handleSpork runs a record received from a peer through the Manager.
func (n *Node) handleSpork(r *spork.Record, from string) spork.Outcome {
	outcome := n.manager.ProcessSpork(r)
	n.afterProcess(r, outcome, from)
	return outcome
}

// afterProcess applies the side effects of an outcome. It must not be called
// with the Manager locked.
func (n *Node) afterProcess(r *spork.Record, outcome spork.Outcome, from string) {
	n.metrics.observe(outcome)

	switch outcome {
	case spork.Accepted:
		n.relay(r, from)
		if n.conf.ReconsiderWindow > 0 {
			n.reconsiderer.Reconsider(r.Copy(), n.conf.ReconsiderWindow)
		}
	case spork.InvalidSignature:
		n.misbehaving(from, invalidSignatureScore)
	}
}

func (n *Node) misbehaving(addr string, howmuch int) {
	if addr == "" {
		return
	}

	logger := n.logger.WithFields(logrus.Fields{
		"peer":  addr,
		"score": howmuch,
	})

	if n.scores.Misbehaving(addr, howmuch) {
		n.metrics.bans.Inc()
		logger.Warn("Banned peer")
		return
	}

	logger.Debug("Misbehaving peer")
}

// relay pushes a record to every peer except the one it came from. It returns
// without waiting for the peers. Nothing is sent once Shutdown has started.
func (n *Node) relay(r *spork.Record, except string) {
	data, err := r.Marshal()
	if err != nil {
		n.logger.WithError(err).Error("Encoding spork")
		return
	}

	n.relayLock.Lock()
	defer n.relayLock.Unlock()

	if n.getState() == Shutdown {
		return
	}

	for _, p := range n.targets(except) {
		n.relayWg.Add(1)
		go func(target string) {
			defer n.relayWg.Done()

			if _, err := n.requestSpork(target, data); err != nil {
				n.metrics.relayErrors.Inc()
				n.logger.WithError(err).WithField("peer", target).Debug("requestSpork()")
				return
			}

			n.metrics.relays.Inc()
		}(p.NetAddr)
	}
}

// targets returns the peers that are not banned, except one.
func (n *Node) targets(except string) []*peers.Peer {
	res := []*peers.Peer{}
	for _, p := range n.peerSet().Peers {
		if p.NetAddr == except || n.scores.IsBanned(p.NetAddr) {
			continue
		}
		res = append(res, p)
	}
	return res
}

func (n *Node) peerSet() *peers.PeerSet {
	n.peerLock.RLock()
	defer n.peerLock.RUnlock()
	return n.peers
}

// AddPeer adds a peer to relay sporks to.
func (n *Node) AddPeer(peer *peers.Peer) {
	if peer.NetAddr == n.trans.AdvertiseAddr() {
		return
	}

	n.peerLock.Lock()
	n.peers = n.peers.WithNewPeer(peer)
	n.peerLock.Unlock()
}

// Shutdown shuts down the node
func (n *Node) Shutdown() {
	n.shutdownLock.Lock()
	defer n.shutdownLock.Unlock()

	if n.getState() != Shutdown {
		n.logger.Debug("Shutdown")

		// Exit any non-shutdown state immediately
		n.setState(Shutdown)

		// Stop and wait for concurrent operations
		close(n.shutdownCh)

		n.waitRoutines()

		n.relayLock.Lock()
		n.relayWg.Wait()
		n.relayLock.Unlock()

		// transport and store should only be closed once all concurrent
		// operations are finished
		n.trans.Close()

		if err := n.manager.Close(); err != nil {
			n.logger.WithError(err).Error("Closing spork store")
		}
	}
}

// Manager returns the spork Manager of the node.
func (n *Node) Manager() *spork.Manager {
	return n.manager
}

// Metrics returns the metrics of the node.
func (n *Node) Metrics() *Metrics {
	return n.metrics
}

// GetState returns the state of the node.
func (n *Node) GetState() State {
	return n.getState()
}

// GetPeers returns the peers
func (n *Node) GetPeers() []*peers.Peer {
	return n.peerSet().Peers
}

// IsBanned reports whether a peer is banned.
func (n *Node) IsBanned(addr string) bool {
	return n.scores.IsBanned(addr)
}

// GetStats returns stats
func (n *Node) GetStats() map[string]string {
	uptime := time.Duration(0)
	if !n.start.IsZero() {
		uptime = time.Since(n.start)
	}

	return map[string]string{
		"active_sporks": strconv.Itoa(len(n.manager.Active())),
		"history":       strconv.Itoa(n.manager.HistoryLen()),
		"num_peers":     strconv.Itoa(n.peerSet().Len()),
		"banned_peers":  strconv.Itoa(n.scores.Banned()),
		"signer":        strconv.FormatBool(n.manager.HasSigner()),
		"state":         n.getState().String(),
		"moniker":       n.conf.Moniker,
		"addr":          n.trans.AdvertiseAddr(),
		"uptime":        uptime.Truncate(time.Second).String(),
	}
}

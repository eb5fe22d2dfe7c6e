package peers

import (
	"bytes"
	"encoding/json"
)

// PeerSet is an immutable set of Peers indexed by address.
type PeerSet struct {
	Peers  []*Peer          `json:"peers"`
	ByAddr map[string]*Peer `json:"-"`
}

// NewPeerSet creates a new PeerSet from a list of Peers. Duplicate addresses
// are dropped.
func NewPeerSet(peers []*Peer) *PeerSet {
	peerSet := &PeerSet{
		Peers:  make([]*Peer, 0, len(peers)),
		ByAddr: make(map[string]*Peer),
	}

	for _, peer := range peers {
		if _, ok := peerSet.ByAddr[peer.NetAddr]; ok {
			continue
		}
		peerSet.ByAddr[peer.NetAddr] = peer
		peerSet.Peers = append(peerSet.Peers, peer)
	}

	return peerSet
}

// WithNewPeer returns a new PeerSet with a list of peers including the new one.
func (peerSet *PeerSet) WithNewPeer(peer *Peer) *PeerSet {
	peers := make([]*Peer, len(peerSet.Peers), len(peerSet.Peers)+1)
	copy(peers, peerSet.Peers)
	return NewPeerSet(append(peers, peer))
}

// WithRemovedPeer returns a new PeerSet with a list of peers excluding the
// provided one
func (peerSet *PeerSet) WithRemovedPeer(addr string) *PeerSet {
	_, others := ExcludePeer(peerSet.Peers, addr)
	return NewPeerSet(others)
}

// Addrs returns the addresses of the Peers in order.
func (peerSet *PeerSet) Addrs() []string {
	res := make([]string, 0, len(peerSet.Peers))
	for _, peer := range peerSet.Peers {
		res = append(res, peer.NetAddr)
	}
	return res
}

// Contains reports whether a Peer with the given address is in the set.
func (peerSet *PeerSet) Contains(addr string) bool {
	_, ok := peerSet.ByAddr[addr]
	return ok
}

// Len returns the number of Peers in the PeerSet
func (peerSet *PeerSet) Len() int {
	return len(peerSet.Peers)
}

// Marshal marshals the peerset
func (peerSet *PeerSet) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(peerSet.Peers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

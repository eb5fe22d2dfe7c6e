package peers

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONPeerSet(t *testing.T) {
	dir, err := ioutil.TempDir("", "sporknet")
	if err != nil {
		t.Fatalf("err: %v ", err)
	}
	defer os.RemoveAll(dir)

	store := NewJSONPeerSet(dir)

	// Try a read, should get nothing
	peerSet, err := store.PeerSet()
	if err == nil {
		t.Fatalf("store.PeerSet() should generate an error")
	}
	if peerSet != nil {
		t.Fatalf("peerSet: %v", peerSet)
	}

	peers := []*Peer{}
	for i := 0; i < 3; i++ {
		peers = append(peers, NewPeer(fmt.Sprintf("addr%d", i), fmt.Sprintf("peer%d", i)))
	}

	if err := store.Write(peers); err != nil {
		t.Fatalf("err: %v", err)
	}

	peerSet, err = store.PeerSet()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if peerSet.Len() != 3 {
		t.Fatalf("peers: %v", peerSet.Peers)
	}

	for i := 0; i < 3; i++ {
		if peerSet.Peers[i].NetAddr != peers[i].NetAddr {
			t.Fatalf("peers[%d] NetAddr should be %s, not %s", i,
				peers[i].NetAddr, peerSet.Peers[i].NetAddr)
		}
		if peerSet.Peers[i].Moniker != peers[i].Moniker {
			t.Fatalf("peers[%d] Moniker should be %s, not %s", i,
				peers[i].Moniker, peerSet.Peers[i].Moniker)
		}
	}
}

func TestJSONPeerSetEmpty(t *testing.T) {
	dir, err := ioutil.TempDir("", "sporknet")
	if err != nil {
		t.Fatalf("err: %v ", err)
	}
	defer os.RemoveAll(dir)

	if err := ioutil.WriteFile(filepath.Join(dir, jsonPeerSetPath), []byte("\n"), 0644); err != nil {
		t.Fatal(err)
	}

	peerSet, err := NewJSONPeerSet(dir).PeerSet()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if peerSet.Len() != 0 {
		t.Fatalf("peerSet should be empty, not %v", peerSet.Peers)
	}
}

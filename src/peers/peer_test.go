package peers

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeerSet(t *testing.T) {
	ps := NewPeerSet([]*Peer{
		NewPeer("addr0", "alice"),
		NewPeer("addr1", "bob"),
		NewPeer("addr0", "duplicate"),
	})

	assert.Equal(t, 2, ps.Len())
	assert.Equal(t, []string{"addr0", "addr1"}, ps.Addrs())
	assert.Equal(t, "alice", ps.ByAddr["addr0"].Moniker)

	more := ps.WithNewPeer(NewPeer("addr2", "charlie"))
	assert.Equal(t, 2, ps.Len())
	assert.Equal(t, []string{"addr0", "addr1", "addr2"}, more.Addrs())

	less := more.WithRemovedPeer("addr1")
	assert.Equal(t, []string{"addr0", "addr2"}, less.Addrs())
	assert.False(t, less.Contains("addr1"))
	assert.True(t, more.Contains("addr1"))
}

func TestExcludePeer(t *testing.T) {
	peers := []*Peer{NewPeer("a", ""), NewPeer("b", ""), NewPeer("c", "")}

	index, others := ExcludePeer(peers, "b")
	if index != 1 {
		t.Fatalf("index should be 1, not %d", index)
	}
	if !reflect.DeepEqual(others, []*Peer{peers[0], peers[2]}) {
		t.Fatalf("others: %v", others)
	}

	index, others = ExcludePeer(peers, "z")
	if index != -1 || len(others) != 3 {
		t.Fatalf("excluding an unknown peer should be a no-op")
	}
}

func TestScoreBoard(t *testing.T) {
	sb := NewScoreBoard(100, time.Hour)

	now := time.Unix(1000, 0)
	sb.now = func() time.Time { return now }

	assert.False(t, sb.Misbehaving("a", 20))
	assert.Equal(t, 20, sb.Score("a"))
	assert.False(t, sb.IsBanned("a"))

	assert.True(t, sb.Misbehaving("a", 80))
	assert.True(t, sb.IsBanned("a"))
	assert.Equal(t, 1, sb.Banned())

	// already banned
	assert.False(t, sb.Misbehaving("a", 100))

	assert.False(t, sb.IsBanned("b"))
	assert.True(t, sb.Misbehaving("b", 100))
	assert.Equal(t, 2, sb.Banned())

	now = now.Add(time.Hour)
	assert.False(t, sb.IsBanned("a"))
	assert.Equal(t, 0, sb.Score("a"))
	assert.Equal(t, 0, sb.Banned())
}

func TestScoreBoardDefaults(t *testing.T) {
	sb := NewScoreBoard(0, 0)
	assert.Equal(t, DefaultBanThreshold, sb.threshold)
	assert.Equal(t, DefaultBanTime, sb.banTime)

	assert.False(t, sb.Misbehaving("a", DefaultBanThreshold-1))
	assert.True(t, sb.Misbehaving("a", 1))
}

package peers

import (
	"sync"
	"time"
)

const (
	// DefaultBanThreshold is the misbehaviour score at which a peer is banned.
	DefaultBanThreshold = 100
	// DefaultBanTime is how long a peer stays banned.
	DefaultBanTime = 24 * time.Hour
)

// ScoreBoard accumulates misbehaviour scores per peer address and bans the
// peers whose score reaches the threshold. A banned peer starts again from a
// zero score when its ban expires.
type ScoreBoard struct {
	sync.Mutex
	threshold int
	banTime   time.Duration
	scores    map[string]int
	banned    map[string]time.Time

	// now is replaced in tests
	now func() time.Time
}

// NewScoreBoard returns an empty ScoreBoard. A threshold or ban time of zero or
// less selects the default.
func NewScoreBoard(threshold int, banTime time.Duration) *ScoreBoard {
	if threshold <= 0 {
		threshold = DefaultBanThreshold
	}
	if banTime <= 0 {
		banTime = DefaultBanTime
	}
	return &ScoreBoard{
		threshold: threshold,
		banTime:   banTime,
		scores:    make(map[string]int),
		banned:    make(map[string]time.Time),
		now:       time.Now,
	}
}

// Misbehaving adds howmuch to the score of addr and reports whether this banned
// the peer.
func (s *ScoreBoard) Misbehaving(addr string, howmuch int) bool {
	s.Lock()
	defer s.Unlock()

	if s.isBanned(addr) {
		return false
	}

	s.scores[addr] += howmuch
	if s.scores[addr] < s.threshold {
		return false
	}

	delete(s.scores, addr)
	s.banned[addr] = s.now().Add(s.banTime)
	return true
}

// IsBanned ...
func (s *ScoreBoard) IsBanned(addr string) bool {
	s.Lock()
	defer s.Unlock()
	return s.isBanned(addr)
}

func (s *ScoreBoard) isBanned(addr string) bool {
	until, ok := s.banned[addr]
	if !ok {
		return false
	}
	if s.now().Before(until) {
		return true
	}
	delete(s.banned, addr)
	return false
}

// Score returns the current score of addr.
func (s *ScoreBoard) Score(addr string) int {
	s.Lock()
	defer s.Unlock()
	return s.scores[addr]
}

// Banned returns the number of peers currently banned.
func (s *ScoreBoard) Banned() int {
	s.Lock()
	defer s.Unlock()

	count := 0
	for addr := range s.banned {
		if s.isBanned(addr) {
			count++
		}
	}
	return count
}

package session

import (
	"sort"
	"sync"
)

// LeaderboardEntry is one recorded arcade run. Name is the display name as
// submitted, frozen at submission time even if the player later leaves.
type LeaderboardEntry struct {
	Name        string `json:"playerName"`
	Score       int    `json:"score"`
	Time        int    `json:"time"` // elapsed seconds
	SubmittedAt int64  `json:"timestamp"`
}

// Leaderboard keeps the bounded top list of arcade runs: higher score first,
// ties broken by lower elapsed time. Insertion re-sorts and truncates; the
// collection never grows past its bound.
type Leaderboard struct {
	mu      sync.RWMutex
	entries []LeaderboardEntry
	size    int
}

// NewLeaderboard creates a leaderboard bounded to size entries.
func NewLeaderboard(size int) *Leaderboard {
	return &Leaderboard{
		entries: make([]LeaderboardEntry, 0, size+1),
		size:    size,
	}
}

// Submit records a run unconditionally (scores are client-authoritative,
// same trust model as movement) and returns the resulting top list.
func (lb *Leaderboard) Submit(entry LeaderboardEntry) []LeaderboardEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries = append(lb.entries, entry)
	sort.SliceStable(lb.entries, func(i, j int) bool {
		if lb.entries[i].Score != lb.entries[j].Score {
			return lb.entries[i].Score > lb.entries[j].Score
		}
		return lb.entries[i].Time < lb.entries[j].Time
	})
	if len(lb.entries) > lb.size {
		lb.entries = lb.entries[:lb.size]
	}

	return lb.copyLocked()
}

// Top returns the current top list. An empty leaderboard yields an empty
// slice, not nil, so it serializes as [] on the wire.
func (lb *Leaderboard) Top() []LeaderboardEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.copyLocked()
}

// Len returns the number of recorded runs.
func (lb *Leaderboard) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return len(lb.entries)
}

func (lb *Leaderboard) copyLocked() []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(lb.entries))
	copy(out, lb.entries)
	return out
}

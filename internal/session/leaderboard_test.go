package session

import (
	"fmt"
	"testing"
)

// TestLeaderboardOrdering tests score-desc, time-asc ordering
func TestLeaderboardOrdering(t *testing.T) {
	lb := NewLeaderboard(10)

	lb.Submit(LeaderboardEntry{Name: "A", Score: 5, Time: 10})
	lb.Submit(LeaderboardEntry{Name: "B", Score: 8, Time: 20})
	top := lb.Submit(LeaderboardEntry{Name: "C", Score: 8, Time: 15})

	want := []string{"B", "C", "A"}
	if len(top) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(top))
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Errorf("Rank %d: expected %s, got %s", i+1, name, top[i].Name)
		}
	}
}

// TestLeaderboardTieBreak tests that equal scores rank by elapsed time
func TestLeaderboardTieBreak(t *testing.T) {
	lb := NewLeaderboard(10)

	lb.Submit(LeaderboardEntry{Name: "slow", Score: 10, Time: 99})
	lb.Submit(LeaderboardEntry{Name: "fast", Score: 10, Time: 12})

	top := lb.Top()
	if top[0].Name != "fast" || top[1].Name != "slow" {
		t.Errorf("Tie should break by lower time: got %s, %s", top[0].Name, top[1].Name)
	}
}

// TestLeaderboardBoundExcludesWorst tests that an 11th worst entry is dropped
func TestLeaderboardBoundExcludesWorst(t *testing.T) {
	lb := NewLeaderboard(10)

	for i := 0; i < 10; i++ {
		lb.Submit(LeaderboardEntry{Name: fmt.Sprintf("p%d", i), Score: 100 - i, Time: 30})
	}
	top := lb.Submit(LeaderboardEntry{Name: "worst", Score: 1, Time: 30})

	if len(top) != 10 {
		t.Fatalf("Expected 10 entries, got %d", len(top))
	}
	for _, e := range top {
		if e.Name == "worst" {
			t.Error("Lowest score should not enter a full leaderboard")
		}
	}
}

// TestLeaderboardBoundEvictsTenth tests that a new best evicts the old 10th
func TestLeaderboardBoundEvictsTenth(t *testing.T) {
	lb := NewLeaderboard(10)

	for i := 0; i < 10; i++ {
		lb.Submit(LeaderboardEntry{Name: fmt.Sprintf("p%d", i), Score: 100 - i, Time: 30})
	}
	top := lb.Submit(LeaderboardEntry{Name: "best", Score: 999, Time: 30})

	if top[0].Name != "best" {
		t.Errorf("New best should rank first, got %s", top[0].Name)
	}
	for _, e := range top {
		if e.Name == "p9" {
			t.Error("Prior 10th place should have been evicted")
		}
	}
	if lb.Len() != 10 {
		t.Errorf("Leaderboard should stay bounded at 10, got %d", lb.Len())
	}
}

// TestLeaderboardEmpty tests that an empty board is an empty list, not nil
func TestLeaderboardEmpty(t *testing.T) {
	lb := NewLeaderboard(10)

	top := lb.Top()
	if top == nil {
		t.Error("Empty leaderboard should return an empty slice, not nil")
	}
	if len(top) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(top))
	}
}

// TestLeaderboardTopIsCopy tests that callers can't mutate internal state
func TestLeaderboardTopIsCopy(t *testing.T) {
	lb := NewLeaderboard(10)
	lb.Submit(LeaderboardEntry{Name: "A", Score: 1})

	top := lb.Top()
	top[0].Name = "mutated"

	if lb.Top()[0].Name != "A" {
		t.Error("Top should return a copy")
	}
}

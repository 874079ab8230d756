package domain

import (
	"sort"
	"testing"
)

func TestLeaderboardOrdering(t *testing.T) {
	entries := []LeaderboardEntry{
		{Username: "carol", Streak: 3, TotalPulls: 50, TotalXP: 9000},
		{Username: "alice", Streak: 5, TotalPulls: 10, TotalXP: 100},
		{Username: "bob", Streak: 5, TotalPulls: 20, TotalXP: 50},
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Less(entries[j]) })

	// tie on streak breaks on pulls: bob (20) above alice (10); carol's huge
	// pull count does not outrank a higher streak
	want := []string{"bob", "alice", "carol"}
	for i, name := range want {
		if entries[i].Username != name {
			t.Fatalf("position %d: got %s, want %s (order %v)", i, entries[i].Username, name, entries)
		}
	}
}

func TestLeaderboardOrderingXPTieBreak(t *testing.T) {
	a := LeaderboardEntry{Streak: 4, TotalPulls: 8, TotalXP: 700}
	b := LeaderboardEntry{Streak: 4, TotalPulls: 8, TotalXP: 300}

	if !a.Less(b) {
		t.Fatalf("equal streak and pulls should fall through to XP")
	}
	if b.Less(a) {
		t.Fatalf("ordering is not antisymmetric")
	}
}

package domain

import "testing"

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{10000, 11},
		{-5, 1},
	}

	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Fatalf("LevelForXP(%d) = %d; want %d", tc.xp, got, tc.want)
		}
	}
}

func TestPullXPStreakBonusIsCapped(t *testing.T) {
	if got := PullXP(0); got != PullBaseXP {
		t.Fatalf("PullXP(0) = %d; want %d", got, PullBaseXP)
	}
	if got := PullXP(5); got != PullBaseXP+5*StreakBonusXP {
		t.Fatalf("PullXP(5) = %d", got)
	}
	capped := PullXP(StreakBonusCap)
	if got := PullXP(365); got != capped {
		t.Fatalf("PullXP(365) = %d; want capped value %d", got, capped)
	}
}

func TestXPToNextLevel(t *testing.T) {
	// at 150 XP the user is level 2; level 3 needs 400
	if got := XPToNextLevel(150); got != 250 {
		t.Fatalf("XPToNextLevel(150) = %d; want 250", got)
	}
}

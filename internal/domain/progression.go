package domain

// XP awards. A pull grants the base amount plus a bonus per day of the
// resulting streak, capped so long streaks do not run away.
const (
	PullBaseXP      = 50
	StreakBonusXP   = 10
	StreakBonusCap  = 30
	levelCurveScale = 100
)

// PullXP returns the XP granted for a pull that results in the given current
// streak.
func PullXP(streak int) int64 {
	bonus := streak
	if bonus > StreakBonusCap {
		bonus = StreakBonusCap
	}
	return int64(PullBaseXP + bonus*StreakBonusXP)
}

// LevelForXP derives a level from cumulative XP. Reaching level n (n >= 2)
// requires 100*(n-1)^2 XP, so level 1 starts at 0 and the curve is quadratic.
func LevelForXP(xp int64) int {
	if xp < 0 {
		return 1
	}
	level := 1
	for xpForLevel(level+1) <= xp {
		level++
	}
	return level
}

// XPToNextLevel returns how much XP is missing until the next level.
func XPToNextLevel(xp int64) int64 {
	next := xpForLevel(LevelForXP(xp) + 1)
	return next - xp
}

func xpForLevel(level int) int64 {
	n := int64(level - 1)
	return levelCurveScale * n * n
}

package domain

// Achievement is a derived badge: recomputed from current stats against fixed
// thresholds, never stored.
type Achievement struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

// AchievementStats is the input for achievement evaluation.
type AchievementStats struct {
	LongestStreak  int
	TotalPulls     int
	TotalXP        int64
	CollectedCards int
	PackSize       int
}

type achievementRule struct {
	code        string
	title       string
	description string
	earned      func(AchievementStats) bool
}

var achievementRules = []achievementRule{
	{"first_pull", "First Steps", "Pull your first card", func(s AchievementStats) bool {
		return s.TotalPulls >= 1
	}},
	{"streak_7", "One Week Strong", "Reach a 7-day streak", func(s AchievementStats) bool {
		return s.LongestStreak >= 7
	}},
	{"streak_30", "Habit Formed", "Reach a 30-day streak", func(s AchievementStats) bool {
		return s.LongestStreak >= 30
	}},
	{"streak_100", "Centurion", "Reach a 100-day streak", func(s AchievementStats) bool {
		return s.LongestStreak >= 100
	}},
	{"pulls_50", "Collector", "Pull 50 cards", func(s AchievementStats) bool {
		return s.TotalPulls >= 50
	}},
	{"xp_5000", "Seasoned", "Earn 5000 XP", func(s AchievementStats) bool {
		return s.TotalXP >= 5000
	}},
	{"pack_complete", "Completionist", "Collect every card in a pack", func(s AchievementStats) bool {
		return s.PackSize > 0 && s.CollectedCards >= s.PackSize
	}},
}

// EvaluateAchievements returns every achievement with its earned flag for the
// given stats.
func EvaluateAchievements(stats AchievementStats) []Achievement {
	out := make([]Achievement, 0, len(achievementRules))
	for _, rule := range achievementRules {
		out = append(out, Achievement{
			Code:        rule.code,
			Title:       rule.title,
			Description: rule.description,
			Earned:      rule.earned(stats),
		})
	}
	return out
}

package domain

// LeaderboardEntry is one user's derived row in the ranked list. Rebuilt from
// raw pull history whenever the underlying tables change.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Streak     int    `json:"streak"`
	TotalPulls int    `json:"total_pulls"`
	TotalXP    int64  `json:"total_xp"`
	Level      int    `json:"level"`
}

// Leaderboard is the read-only view handed to callers: the ranked list plus
// the connection status of the live feed behind it.
type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalUsers int                `json:"total_users"`
	Connected  bool               `json:"connected"`
}

// Less orders entries by streak desc, then total pulls desc, then total XP
// desc. The three-level tie-break is applied in exactly this order.
func (e LeaderboardEntry) Less(other LeaderboardEntry) bool {
	if e.Streak != other.Streak {
		return e.Streak > other.Streak
	}
	if e.TotalPulls != other.TotalPulls {
		return e.TotalPulls > other.TotalPulls
	}
	return e.TotalXP > other.TotalXP
}

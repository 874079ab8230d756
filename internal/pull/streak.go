package pull

import (
	"sort"
	"time"

	"practice_backend/internal/domain"
	"practice_backend/internal/logger"
)

// ComputeStreak derives the current and longest streak from one user's pull
// history for a single pack, evaluated at now. The history does not need to
// be sorted or clean: same-day duplicates violate the store invariant but are
// tolerated by deduplicating here.
func ComputeStreak(events []domain.PullEvent, now time.Time) domain.StreakSnapshot {
	days := uniqueDays(events, now.Location())
	if len(days) == 0 {
		return domain.StreakSnapshot{}
	}

	// longest: forward pass; a broken run still starts a new run of length 1
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if domain.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// current: the streak has lapsed unless the newest day is today or
	// yesterday, regardless of what the caller filtered
	current := 0
	lapse := domain.DaysBetween(days[len(days)-1], domain.Midnight(now))
	if lapse == 0 || lapse == 1 {
		current = 1
		for i := len(days) - 1; i > 0; i-- {
			if domain.DaysBetween(days[i-1], days[i]) != 1 {
				break
			}
			current++
		}
	}

	return domain.StreakSnapshot{Current: current, Longest: longest}
}

// uniqueDays truncates every event to its calendar day in loc, sorts
// ascending and drops duplicates.
func uniqueDays(events []domain.PullEvent, loc *time.Location) []time.Time {
	if len(events) == 0 {
		return nil
	}

	days := make([]time.Time, 0, len(events))
	for i := range events {
		days = append(days, events[i].Day(loc))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := days[:1]
	dupes := 0
	for _, d := range days[1:] {
		if d.Equal(out[len(out)-1]) {
			dupes++
			continue
		}
		out = append(out, d)
	}
	if dupes > 0 {
		logger.Warn("pull history contains same-day duplicates", "count", dupes)
	}
	return out
}

package core

import (
	"sort"
	"time"

	"github.com/daybook-app/daybook/internal/store"
	"github.com/daybook-app/daybook/internal/utils"
)

// The streak and analytics engine. Every function here is a pure
// computation over data the caller already fetched: no I/O, no clock
// access, no shared state. Persisting the returned values is the
// caller's responsibility.

// NormalizeDate discards the time-of-day component, pinning the date to
// midnight UTC so day arithmetic is exact.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of calendar days from one normalized
// date to another.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// ApplyNewEntry updates streak counters incrementally after a new entry is
// created. It must be called exactly once per newly created entry; updates
// to an existing entry go through the daysSinceLast == 0 guard and leave
// the counters alone.
//
// Backdated entries (entryDate before the recorded last entry date) never
// touch the state: filling in an earlier day cannot extend or break the
// streak ending today. Callers that need exact numbers after backfilling
// should run RecomputeStreak.
func ApplyNewEntry(state store.StreakState, today, entryDate time.Time) store.StreakState {
	today = NormalizeDate(today)
	entryDate = NormalizeDate(entryDate)

	if state.LastEntryDate == nil {
		state.CurrentStreak = 1
		state.LongestStreak = 1
		state.LastEntryDate = &today
		return state
	}

	last := NormalizeDate(*state.LastEntryDate)
	if entryDate.Before(last) {
		return state
	}

	switch daysBetween(last, today) {
	case 0:
		// Entry for today already counted; nothing to do.
	case 1:
		state.CurrentStreak++
		if state.CurrentStreak > state.LongestStreak {
			state.LongestStreak = state.CurrentStreak
		}
	default:
		state.CurrentStreak = 1
	}
	state.LastEntryDate = &today
	return state
}

// RecomputeStreak rebuilds streak counters from the complete set of a
// user's remaining entry dates. Used after deletions and bulk changes,
// where incremental update cannot detect a broken run. The input is
// defensively deduplicated and sorted.
func RecomputeStreak(dates []time.Time, today time.Time) store.StreakState {
	today = NormalizeDate(today)

	seen := make(map[time.Time]struct{}, len(dates))
	normalized := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		d = NormalizeDate(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		normalized = append(normalized, d)
	}

	if len(normalized) == 0 {
		return store.StreakState{}
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Before(normalized[j])
	})

	running := 1
	longest := 1
	for i := 1; i < len(normalized); i++ {
		if daysBetween(normalized[i-1], normalized[i]) == 1 {
			running++
			if running > longest {
				longest = running
			}
		} else {
			running = 1
		}
	}

	last := normalized[len(normalized)-1]
	current := running
	if daysBetween(last, today) > 1 {
		// The run ending at the most recent entry contributes to longest
		// but the streak itself is broken as of today.
		current = 0
	}

	return store.StreakState{
		CurrentStreak: current,
		LongestStreak: longest,
		LastEntryDate: &last,
	}
}

// MissedDays lists every calendar date in [start, end] with no entry,
// in ascending order. An inverted range yields an empty result.
func MissedDays(entryDates []time.Time, start, end time.Time) []time.Time {
	start = NormalizeDate(start)
	end = NormalizeDate(end)

	have := make(map[time.Time]struct{}, len(entryDates))
	for _, d := range entryDates {
		have[NormalizeDate(d)] = struct{}{}
	}

	var missed []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := have[d]; !ok {
			missed = append(missed, d)
		}
	}
	return missed
}

// MoodDistribution counts entries per sentiment category. All three known
// categories are always present in the result; entries whose stored
// category is not one of them are excluded rather than given a bucket of
// their own.
func MoodDistribution(entries []store.JournalEntry) map[MoodCategory]int {
	dist := map[MoodCategory]int{
		MoodPositive: 0,
		MoodNeutral:  0,
		MoodNegative: 0,
	}
	for _, e := range entries {
		category := MoodCategory(e.MoodCategory)
		if _, ok := dist[category]; ok {
			dist[category]++
		}
	}
	return dist
}

// MostFrequentMood returns the primary mood with the highest occurrence
// count, and false if the entry set is empty. Among equally frequent moods
// the first one seen in input order wins; callers must not rely on which.
func MostFrequentMood(entries []store.JournalEntry) (string, bool) {
	counts := make(map[string]int, len(entries))
	best := ""
	bestCount := 0
	for _, e := range entries {
		counts[e.PrimaryMood]++
		if counts[e.PrimaryMood] > bestCount {
			best = e.PrimaryMood
			bestCount = counts[e.PrimaryMood]
		}
	}
	if bestCount == 0 {
		return "", false
	}
	return best, true
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// MostUsedTags counts individual tags across all entries and returns the
// top topCount by descending count. Order among equal counts is
// unspecified.
func MostUsedTags(entries []store.JournalEntry, topCount int) []TagCount {
	if topCount <= 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, e := range entries {
		for _, tag := range utils.ParseTags(e.Tags) {
			counts[tag]++
		}
	}

	ranked := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		ranked = append(ranked, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > topCount {
		ranked = ranked[:topCount]
	}
	return ranked
}

type DateWordCount struct {
	Date  time.Time `json:"date"`
	Words int       `json:"words"`
}

// WordCountTrend maps each entry date to its word count, ascending by
// date. Entries are unique per date so there is one point per day.
func WordCountTrend(entries []store.JournalEntry) []DateWordCount {
	trend := make([]DateWordCount, 0, len(entries))
	for _, e := range entries {
		trend = append(trend, DateWordCount{
			Date:  NormalizeDate(e.EntryDate),
			Words: e.WordCount,
		})
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Date.Before(trend[j].Date)
	})
	return trend
}

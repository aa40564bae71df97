package core

import (
	"fmt"
	"time"

	"github.com/daybook-app/daybook/internal/store"
)

const DefaultTopTags = 5

// ReportService is the read side: it fetches a user's entries and runs
// the analytics functions over them for the UI and export renderers.
type ReportService struct {
	dbStore *store.SQLiteStore
}

func NewReportService(db *store.SQLiteStore) *ReportService {
	return &ReportService{dbStore: db}
}

func (s *ReportService) Streak(userID int64) (*store.StreakState, error) {
	return s.dbStore.GetStreak(userID)
}

type Summary struct {
	From             time.Time            `json:"from"`
	To               time.Time            `json:"to"`
	EntryCount       int                  `json:"entry_count"`
	TotalWords       int                  `json:"total_words"`
	MoodDistribution map[MoodCategory]int `json:"mood_distribution"`
	MostFrequentMood *string              `json:"most_frequent_mood"` // null when the range is empty
	TopTags          []TagCount           `json:"top_tags"`
	WordCountTrend   []DateWordCount      `json:"word_count_trend"`
}

// Summary aggregates the analytics for a date range into one report.
func (s *ReportService) Summary(userID int64, from, to time.Time, topTags int) (*Summary, error) {
	if topTags <= 0 {
		topTags = DefaultTopTags
	}

	entries, err := s.dbStore.GetEntriesByDateRange(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for summary: %w", err)
	}

	summary := &Summary{
		From:             NormalizeDate(from),
		To:               NormalizeDate(to),
		EntryCount:       len(entries),
		MoodDistribution: MoodDistribution(entries),
		TopTags:          MostUsedTags(entries, topTags),
		WordCountTrend:   WordCountTrend(entries),
	}
	for _, e := range entries {
		summary.TotalWords += e.WordCount
	}
	if mood, ok := MostFrequentMood(entries); ok {
		summary.MostFrequentMood = &mood
	}
	return summary, nil
}

// MissedDays lists the dates in [from, to] without an entry.
func (s *ReportService) MissedDays(userID int64, from, to time.Time) ([]time.Time, error) {
	entries, err := s.dbStore.GetEntriesByDateRange(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for missed days: %w", err)
	}
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.EntryDate)
	}
	return MissedDays(dates, from, to), nil
}

// EntriesForExport returns the range ordered ascending by date, the shape
// the export renderers consume.
func (s *ReportService) EntriesForExport(userID int64, from, to time.Time) ([]store.JournalEntry, error) {
	return s.dbStore.GetEntriesByDateRange(userID, from, to)
}

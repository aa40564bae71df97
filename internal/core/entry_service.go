package core

import (
	"fmt"
	"time"

	"github.com/daybook-app/daybook/internal/store"
	"github.com/daybook-app/daybook/internal/utils"
)

// EntryService owns every mutation of journal entries and is the only
// writer of streak state: create runs the incremental update, delete runs
// a full recompute. Reads for reporting live in ReportService.
type EntryService struct {
	dbStore *store.SQLiteStore
	now     func() time.Time // host clock, swappable in tests
}

func NewEntryService(db *store.SQLiteStore) *EntryService {
	return &EntryService{
		dbStore: db,
		now:     time.Now,
	}
}

func (s *EntryService) GetUserByExternalID(externalUserID string) (*store.User, error) {
	return s.dbStore.GetUserByExternalID(externalUserID)
}

func (s *EntryService) CreateUser(externalUserID, passwordHash string) (*store.User, error) {
	return s.dbStore.CreateUser(externalUserID, passwordHash)
}

type NewEntry struct {
	EntryDate      time.Time
	PrimaryMood    string
	SecondaryMood1 *string
	SecondaryMood2 *string
	Tags           []string
	Content        string
}

// CreateEntry inserts the entry and applies the incremental streak update.
// Returns store.ErrDuplicateEntry when the user already has an entry for
// that calendar date.
func (s *EntryService) CreateEntry(userID int64, in NewEntry) (*store.JournalEntry, *store.StreakState, error) {
	entry := s.buildEntry(userID, in)
	if err := s.dbStore.CreateEntry(entry); err != nil {
		return nil, nil, err
	}

	state, err := s.dbStore.GetStreak(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load streak state: %w", err)
	}

	updated := ApplyNewEntry(*state, s.now(), entry.EntryDate)
	updated.UserID = userID
	if err := s.dbStore.UpsertStreak(&updated); err != nil {
		return nil, nil, fmt.Errorf("failed to persist streak state: %w", err)
	}

	return entry, &updated, nil
}

type EntryUpdate struct {
	PrimaryMood    string
	SecondaryMood1 *string
	SecondaryMood2 *string
	Tags           []string
	Content        string
}

// UpdateEntry amends an existing entry's moods, tags and content. The
// entry date cannot change, so streak state is untouched: the day was
// already counted when the entry was created.
func (s *EntryService) UpdateEntry(entryID string, userID int64, in EntryUpdate) (*store.JournalEntry, error) {
	entry, err := s.dbStore.GetEntryByID(entryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	if entry == nil {
		return nil, store.ErrEntryNotFound
	}

	entry.PrimaryMood = in.PrimaryMood
	entry.MoodCategory = string(CategoryForMood(in.PrimaryMood))
	entry.SecondaryMood1, entry.SecondaryMood1Category = moodWithCategory(in.SecondaryMood1)
	entry.SecondaryMood2, entry.SecondaryMood2Category = moodWithCategory(in.SecondaryMood2)
	entry.Tags = utils.JoinTags(in.Tags)
	entry.Content = in.Content
	entry.WordCount = utils.CountWords(in.Content)

	if err := s.dbStore.UpdateEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes the entry and rebuilds streak state from the
// remaining dates. Deleting a middle day can break a streak in a way the
// incremental update cannot detect, so this always recomputes.
func (s *EntryService) DeleteEntry(entryID string, userID int64) (*store.StreakState, error) {
	if err := s.dbStore.DeleteEntry(entryID, userID); err != nil {
		return nil, err
	}

	dates, err := s.dbStore.GetEntryDates(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry dates for recompute: %w", err)
	}

	state := RecomputeStreak(dates, s.now())
	state.UserID = userID
	if err := s.dbStore.UpsertStreak(&state); err != nil {
		return nil, fmt.Errorf("failed to persist recomputed streak: %w", err)
	}
	return &state, nil
}

func (s *EntryService) GetEntry(entryID string, userID int64) (*store.JournalEntry, error) {
	return s.dbStore.GetEntryByID(entryID, userID)
}

func (s *EntryService) ListEntries(userID int64, from, to time.Time) ([]store.JournalEntry, error) {
	return s.dbStore.GetEntriesByDateRange(userID, from, to)
}

// ImportFromFile bulk-loads entries for a user from a Markdown table
// file. Entries are inserted directly, then the streak is recomputed once
// at the end; running the incremental update per historical row would
// corrupt the counters.
func (s *EntryService) ImportFromFile(filePath, externalUserID string) (int, error) {
	user, err := s.dbStore.GetUserByExternalID(externalUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up import user: %w", err)
	}
	if user == nil {
		return 0, fmt.Errorf("user %q not found", externalUserID)
	}

	count, err := s.dbStore.ImportEntriesFromFile(filePath, func(row store.ImportedEntry) error {
		date, err := time.ParseInLocation("2006-01-02", row.Date, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
		entry := s.buildEntry(user.ID, NewEntry{
			EntryDate:   date,
			PrimaryMood: row.Mood,
			Tags:        utils.ParseTags(row.Tags),
			Content:     row.Content,
		})
		return s.dbStore.CreateEntry(entry)
	})
	if err != nil {
		return count, err
	}

	dates, err := s.dbStore.GetEntryDates(user.ID)
	if err != nil {
		return count, fmt.Errorf("failed to load entry dates after import: %w", err)
	}
	state := RecomputeStreak(dates, s.now())
	state.UserID = user.ID
	if err := s.dbStore.UpsertStreak(&state); err != nil {
		return count, fmt.Errorf("failed to persist streak after import: %w", err)
	}
	return count, nil
}

func (s *EntryService) buildEntry(userID int64, in NewEntry) *store.JournalEntry {
	entry := &store.JournalEntry{
		UserID:       userID,
		EntryDate:    NormalizeDate(in.EntryDate),
		PrimaryMood:  in.PrimaryMood,
		MoodCategory: string(CategoryForMood(in.PrimaryMood)),
		Tags:         utils.JoinTags(in.Tags),
		Content:      in.Content,
		WordCount:    utils.CountWords(in.Content),
	}
	entry.SecondaryMood1, entry.SecondaryMood1Category = moodWithCategory(in.SecondaryMood1)
	entry.SecondaryMood2, entry.SecondaryMood2Category = moodWithCategory(in.SecondaryMood2)
	return entry
}

func moodWithCategory(mood *string) (*string, *string) {
	if mood == nil || *mood == "" {
		return nil, nil
	}
	category := string(CategoryForMood(*mood))
	return mood, &category
}

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a store on a throwaway database file. A plain
// :memory: DSN does not survive database/sql connection pooling, so each
// pooled connection would see its own empty database.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestCreateUserAlsoCreatesZeroedStreak(t *testing.T) {
	s := newTestStore(t)

	user, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ExternalUserID)

	state, err := s.GetStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentStreak)
	assert.Equal(t, 0, state.LongestStreak)
	assert.Nil(t, state.LastEntryDate)
}

func TestGetUserByExternalIDNotFound(t *testing.T) {
	s := newTestStore(t)

	user, err := s.GetUserByExternalID("nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateAndGetEntry(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	secondary := "tired"
	secondaryCat := "Neutral"
	entry := &JournalEntry{
		UserID:                 user.ID,
		EntryDate:              testDate(t, "2024-01-02"),
		PrimaryMood:            "happy",
		MoodCategory:           "Positive",
		SecondaryMood1:         &secondary,
		SecondaryMood1Category: &secondaryCat,
		Tags:                   "work,gym",
		WordCount:              5,
		Content:                "went to the gym today",
	}
	require.NoError(t, s.CreateEntry(entry))
	require.NotEmpty(t, entry.ID)

	got, err := s.GetEntryByID(entry.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testDate(t, "2024-01-02"), got.EntryDate)
	assert.Equal(t, "happy", got.PrimaryMood)
	require.NotNil(t, got.SecondaryMood1)
	assert.Equal(t, "tired", *got.SecondaryMood1)
	assert.Nil(t, got.SecondaryMood2)
	assert.Equal(t, "work,gym", got.Tags)
	assert.Equal(t, 5, got.WordCount)
}

func TestCreateEntryDuplicateDate(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	first := &JournalEntry{UserID: user.ID, EntryDate: testDate(t, "2024-01-02"), PrimaryMood: "happy", MoodCategory: "Positive"}
	require.NoError(t, s.CreateEntry(first))

	dup := &JournalEntry{UserID: user.ID, EntryDate: testDate(t, "2024-01-02"), PrimaryMood: "sad", MoodCategory: "Negative"}
	err = s.CreateEntry(dup)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestDuplicateDateAllowedAcrossUsers(t *testing.T) {
	s := newTestStore(t)
	alice, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)
	bob, err := s.CreateUser("bob", "hash")
	require.NoError(t, err)

	require.NoError(t, s.CreateEntry(&JournalEntry{UserID: alice.ID, EntryDate: testDate(t, "2024-01-02"), PrimaryMood: "happy", MoodCategory: "Positive"}))
	require.NoError(t, s.CreateEntry(&JournalEntry{UserID: bob.ID, EntryDate: testDate(t, "2024-01-02"), PrimaryMood: "sad", MoodCategory: "Negative"}))
}

func TestEntryOwnershipIsEnforced(t *testing.T) {
	s := newTestStore(t)
	alice, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)
	bob, err := s.CreateUser("bob", "hash")
	require.NoError(t, err)

	entry := &JournalEntry{UserID: alice.ID, EntryDate: testDate(t, "2024-01-02"), PrimaryMood: "happy", MoodCategory: "Positive"}
	require.NoError(t, s.CreateEntry(entry))

	got, err := s.GetEntryByID(entry.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, s.DeleteEntry(entry.ID, bob.ID), ErrEntryNotFound)
}

func TestGetEntriesByDateRangeOrdered(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	for _, d := range []string{"2024-01-05", "2024-01-01", "2024-01-03"} {
		require.NoError(t, s.CreateEntry(&JournalEntry{UserID: user.ID, EntryDate: testDate(t, d), PrimaryMood: "okay", MoodCategory: "Neutral"}))
	}

	entries, err := s.GetEntriesByDateRange(user.ID, testDate(t, "2024-01-01"), testDate(t, "2024-01-04"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, testDate(t, "2024-01-01"), entries[0].EntryDate)
	assert.Equal(t, testDate(t, "2024-01-03"), entries[1].EntryDate)
}

func TestUpdateEntry(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	entry := &JournalEntry{UserID: user.ID, EntryDate: testDate(t, "2024-01-02"), PrimaryMood: "happy", MoodCategory: "Positive"}
	require.NoError(t, s.CreateEntry(entry))

	entry.PrimaryMood = "sad"
	entry.MoodCategory = "Negative"
	entry.Content = "rough day"
	entry.WordCount = 2
	require.NoError(t, s.UpdateEntry(entry))

	got, err := s.GetEntryByID(entry.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "sad", got.PrimaryMood)
	assert.Equal(t, "rough day", got.Content)

	missing := &JournalEntry{ID: "no-such-id", UserID: user.ID, PrimaryMood: "x", MoodCategory: "Neutral"}
	assert.ErrorIs(t, s.UpdateEntry(missing), ErrEntryNotFound)
}

func TestDeleteEntryAndDates(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	var firstID string
	for i, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		entry := &JournalEntry{UserID: user.ID, EntryDate: testDate(t, d), PrimaryMood: "okay", MoodCategory: "Neutral"}
		require.NoError(t, s.CreateEntry(entry))
		if i == 0 {
			firstID = entry.ID
		}
	}

	require.NoError(t, s.DeleteEntry(firstID, user.ID))

	dates, err := s.GetEntryDates(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{testDate(t, "2024-01-02"), testDate(t, "2024-01-03")}, dates)
}

func TestUpsertStreakRoundTrip(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice", "hash")
	require.NoError(t, err)

	last := testDate(t, "2024-01-05")
	state := &StreakState{UserID: user.ID, CurrentStreak: 3, LongestStreak: 7, LastEntryDate: &last}
	require.NoError(t, s.UpsertStreak(state))

	got, err := s.GetStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 7, got.LongestStreak)
	require.NotNil(t, got.LastEntryDate)
	assert.Equal(t, last, *got.LastEntryDate)

	// Upsert again overwrites the same row.
	state.CurrentStreak = 0
	state.LastEntryDate = nil
	require.NoError(t, s.UpsertStreak(state))

	got, err = s.GetStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Nil(t, got.LastEntryDate)
}

func TestImportEntriesFromFile(t *testing.T) {
	s := newTestStore(t)

	content := `| date | mood | tags | content |
| --- | --- | --- | --- |
| 2024-01-01 | happy | work, gym | A good start. |
| 2024-01-02 | tired | work | Long day at the office. |
| not-a-date | sad | | Broken row. |

stray line outside the table
| 2024-01-03 | calm | | Quiet evening. |
`
	path := filepath.Join(t.TempDir(), "journal.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var rows []ImportedEntry
	count, err := s.ImportEntriesFromFile(path, func(row ImportedEntry) error {
		if row.Date == "not-a-date" {
			return assert.AnError
		}
		rows = append(rows, row)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, count)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, "happy", rows[0].Mood)
	assert.Equal(t, "work, gym", rows[0].Tags)
	assert.Equal(t, "A good start.", rows[0].Content)
	assert.Equal(t, "2024-01-03", rows[2].Date)
}

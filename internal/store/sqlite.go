package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3" // SQLite driver
)

const dateLayout = "2006-01-02"

var (
	// ErrDuplicateEntry is returned when a second entry is created for the
	// same (user, calendar date) pair. Enforced by a unique index.
	ErrDuplicateEntry = errors.New("an entry already exists for this date")

	// ErrEntryNotFound is returned by update/delete when no row matches the
	// entry id and owner.
	ErrEntryNotFound = errors.New("entry not found")
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        external_user_id TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS journal_entries (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        entry_date TEXT NOT NULL, -- YYYY-MM-DD
        primary_mood TEXT NOT NULL,
        mood_category TEXT NOT NULL,
        secondary_mood1 TEXT,
        secondary_mood1_category TEXT,
        secondary_mood2 TEXT,
        secondary_mood2_category TEXT,
        tags TEXT NOT NULL DEFAULT '',
        word_count INTEGER NOT NULL DEFAULT 0,
        content TEXT NOT NULL DEFAULT '',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id),
        UNIQUE (user_id, entry_date) -- at most one entry per calendar date
    );

    CREATE TABLE IF NOT EXISTS streaks (
        user_id INTEGER PRIMARY KEY,
        current_streak INTEGER NOT NULL DEFAULT 0,
        longest_streak INTEGER NOT NULL DEFAULT 0,
        last_entry_date TEXT, -- YYYY-MM-DD, NULL until the first entry
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) GetUserByExternalID(externalUserID string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE external_user_id = ?", externalUserID).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts the user together with a zeroed streak row; the
// streak record exists for the whole life of the user.
func (s *SQLiteStore) CreateUser(externalUserID, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (external_user_id, password_hash) VALUES (?, ?)", externalUserID, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()

	if _, err := s.db.Exec("INSERT INTO streaks (user_id, updated_at) VALUES (?, ?)", id, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to insert streak row: %w", err)
	}
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Entry methods
func (s *SQLiteStore) CreateEntry(entry *JournalEntry) error {
	entry.ID = uuid.NewString() // Ensure ID is set
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	stmt, err := s.db.Prepare(`INSERT INTO journal_entries
        (id, user_id, entry_date, primary_mood, mood_category,
         secondary_mood1, secondary_mood1_category, secondary_mood2, secondary_mood2_category,
         tags, word_count, content, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(entry.ID, entry.UserID, entry.EntryDate.Format(dateLayout),
		entry.PrimaryMood, entry.MoodCategory,
		entry.SecondaryMood1, entry.SecondaryMood1Category,
		entry.SecondaryMood2, entry.SecondaryMood2Category,
		entry.Tags, entry.WordCount, entry.Content, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to execute entry insert: %w", err)
	}
	return nil
}

const entryColumns = `id, user_id, entry_date, primary_mood, mood_category,
    secondary_mood1, secondary_mood1_category, secondary_mood2, secondary_mood2_category,
    tags, word_count, content, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*JournalEntry, error) {
	var entry JournalEntry
	var entryDate string
	err := row.Scan(&entry.ID, &entry.UserID, &entryDate, &entry.PrimaryMood, &entry.MoodCategory,
		&entry.SecondaryMood1, &entry.SecondaryMood1Category,
		&entry.SecondaryMood2, &entry.SecondaryMood2Category,
		&entry.Tags, &entry.WordCount, &entry.Content, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}
	entry.EntryDate, err = time.ParseInLocation(dateLayout, entryDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry_date %q: %w", entryDate, err)
	}
	return &entry, nil
}

func (s *SQLiteStore) GetEntryByID(entryID string, userID int64) (*JournalEntry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM journal_entries WHERE id = ? AND user_id = ?", entryID, userID)
	entry, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

func (s *SQLiteStore) GetEntriesByDateRange(userID int64, from, to time.Time) ([]JournalEntry, error) {
	rows, err := s.db.Query("SELECT "+entryColumns+" FROM journal_entries WHERE user_id = ? AND entry_date >= ? AND entry_date <= ? ORDER BY entry_date ASC",
		userID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// GetEntryDates returns every entry date a user has, for streak recompute.
func (s *SQLiteStore) GetEntryDates(userID int64) ([]time.Time, error) {
	rows, err := s.db.Query("SELECT entry_date FROM journal_entries WHERE user_id = ? ORDER BY entry_date ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan entry date: %w", err)
		}
		date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entry date %q: %w", raw, err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// UpdateEntry amends moods, tags and content of an existing entry. The
// entry date is immutable once created.
func (s *SQLiteStore) UpdateEntry(entry *JournalEntry) error {
	entry.UpdatedAt = time.Now()

	stmt, err := s.db.Prepare(`UPDATE journal_entries SET
        primary_mood = ?, mood_category = ?,
        secondary_mood1 = ?, secondary_mood1_category = ?,
        secondary_mood2 = ?, secondary_mood2_category = ?,
        tags = ?, word_count = ?, content = ?, updated_at = ?
        WHERE id = ? AND user_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry update: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(entry.PrimaryMood, entry.MoodCategory,
		entry.SecondaryMood1, entry.SecondaryMood1Category,
		entry.SecondaryMood2, entry.SecondaryMood2Category,
		entry.Tags, entry.WordCount, entry.Content, entry.UpdatedAt,
		entry.ID, entry.UserID)
	if err != nil {
		return fmt.Errorf("failed to execute entry update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteEntry(entryID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM journal_entries WHERE id = ? AND user_id = ?", entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Streak methods
func (s *SQLiteStore) GetStreak(userID int64) (*StreakState, error) {
	var state StreakState
	var lastEntryDate sql.NullString
	err := s.db.QueryRow("SELECT user_id, current_streak, longest_streak, last_entry_date, updated_at FROM streaks WHERE user_id = ?", userID).
		Scan(&state.UserID, &state.CurrentStreak, &state.LongestStreak, &lastEntryDate, &state.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// No row yet; behave as a zeroed state.
			return &StreakState{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to query streak: %w", err)
	}
	if lastEntryDate.Valid {
		date, err := time.ParseInLocation(dateLayout, lastEntryDate.String, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last_entry_date %q: %w", lastEntryDate.String, err)
		}
		state.LastEntryDate = &date
	}
	return &state, nil
}

func (s *SQLiteStore) UpsertStreak(state *StreakState) error {
	state.UpdatedAt = time.Now()

	var lastEntryDate any
	if state.LastEntryDate != nil {
		lastEntryDate = state.LastEntryDate.Format(dateLayout)
	}

	_, err := s.db.Exec(`INSERT INTO streaks (user_id, current_streak, longest_streak, last_entry_date, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
        current_streak = excluded.current_streak,
        longest_streak = excluded.longest_streak,
        last_entry_date = excluded.last_entry_date,
        updated_at = excluded.updated_at`,
		state.UserID, state.CurrentStreak, state.LongestStreak, lastEntryDate, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert streak: %w", err)
	}
	return nil
}

// ImportedEntry is one parsed row of an import file, handed to the
// creator callback supplied by the entry service.
type ImportedEntry struct {
	Date    string
	Mood    string
	Tags    string
	Content string
}

// ImportEntriesFromFile reads a Markdown table of journal entries
// (| date | mood | tags | content |) and feeds each data row to creator.
// Rows the creator rejects (bad date, duplicate day) are skipped, not fatal.
func (s *SQLiteStore) ImportEntriesFromFile(filePath string, creator func(ImportedEntry) error) (int, error) {
	contentBytes, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read import file %s: %w", filePath, err)
	}
	lines := strings.Split(string(contentBytes), "\n")

	count := 0
	for i, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue // Skip empty lines
		}
		if !strings.HasPrefix(trimmedLine, "|") || !strings.HasSuffix(trimmedLine, "|") {
			if i > 1 {
				log.Printf("Skipping line not matching table row format: %s", trimmedLine)
			}
			continue
		}

		// "| a | b | c | d |" splits into ["", " a ", " b ", " c ", " d ", ""]
		parts := strings.Split(trimmedLine, "|")
		if len(parts) < 6 {
			log.Printf("Skipping malformed table row (not enough columns): %s", trimmedLine)
			continue
		}

		date := strings.TrimSpace(parts[1])
		if strings.EqualFold(date, "date") || strings.HasPrefix(date, "---") {
			continue // Header or separator row
		}

		row := ImportedEntry{
			Date:    date,
			Mood:    strings.TrimSpace(parts[2]),
			Tags:    strings.TrimSpace(parts[3]),
			Content: strings.TrimSpace(parts[4]),
		}
		if err := creator(row); err != nil {
			log.Printf("Skipping row for %s: %v", row.Date, err)
			continue
		}
		count++
	}

	log.Printf("Imported %d entries from %s.", count, filePath)
	return count, nil
}

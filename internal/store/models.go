package store

import "time"

type User struct {
	ID             int64     `json:"id"`
	ExternalUserID string    `json:"external_user_id"`
	PasswordHash   string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt      time.Time `json:"created_at"`
}

type JournalEntry struct {
	ID                     string    `json:"id"` // Using UUID for external ID
	UserID                 int64     `json:"user_id"`
	EntryDate              time.Time `json:"entry_date"` // Calendar date, normalized to midnight UTC
	PrimaryMood            string    `json:"primary_mood"`
	MoodCategory           string    `json:"mood_category"`
	SecondaryMood1         *string   `json:"secondary_mood1,omitempty"`
	SecondaryMood1Category *string   `json:"secondary_mood1_category,omitempty"`
	SecondaryMood2         *string   `json:"secondary_mood2,omitempty"`
	SecondaryMood2Category *string   `json:"secondary_mood2_category,omitempty"`
	Tags                   string    `json:"tags"` // Comma-delimited, parsed by internal/utils
	WordCount              int       `json:"word_count"`
	Content                string    `json:"content"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type StreakState struct {
	UserID        int64      `json:"user_id"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastEntryDate *time.Time `json:"last_entry_date"` // Nullable: absent until the first entry
	UpdatedAt     time.Time  `json:"updated_at"`
}

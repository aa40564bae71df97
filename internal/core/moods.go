package core

import "strings"

type MoodCategory string

const (
	MoodPositive MoodCategory = "Positive"
	MoodNeutral  MoodCategory = "Neutral"
	MoodNegative MoodCategory = "Negative"
)

// moodCategories is the fixed lookup from fine-grained mood labels to the
// coarse sentiment bucket shown in reports. Labels not in the table fall
// back to Neutral.
var moodCategories = map[string]MoodCategory{
	"happy":       MoodPositive,
	"excited":     MoodPositive,
	"grateful":    MoodPositive,
	"proud":       MoodPositive,
	"relaxed":     MoodPositive,
	"content":     MoodPositive,
	"loved":       MoodPositive,
	"hopeful":     MoodPositive,
	"energetic":   MoodPositive,
	"inspired":    MoodPositive,
	"calm":        MoodNeutral,
	"okay":        MoodNeutral,
	"tired":       MoodNeutral,
	"bored":       MoodNeutral,
	"confused":    MoodNeutral,
	"nostalgic":   MoodNeutral,
	"thoughtful":  MoodNeutral,
	"sad":         MoodNegative,
	"angry":       MoodNegative,
	"anxious":     MoodNegative,
	"stressed":    MoodNegative,
	"lonely":      MoodNegative,
	"frustrated":  MoodNegative,
	"guilty":      MoodNegative,
	"scared":      MoodNegative,
	"overwhelmed": MoodNegative,
}

// CategoryForMood derives the sentiment category for a mood label.
func CategoryForMood(mood string) MoodCategory {
	if category, ok := moodCategories[strings.ToLower(strings.TrimSpace(mood))]; ok {
		return category
	}
	return MoodNeutral
}

package utils

import "strings"

const tagDelimiter = ","

// CountWords counts whitespace-separated words in entry content.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// ParseTags splits a delimited tag string into individual tags.
// Tags are trimmed and empty entries are dropped.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, tagDelimiter)
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags builds the delimited string stored in the database.
// The input is cleaned the same way ParseTags cleans it, so
// JoinTags(ParseTags(s)) is stable.
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return strings.Join(cleaned, tagDelimiter)
}

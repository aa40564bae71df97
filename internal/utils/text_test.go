package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t"))
	assert.Equal(t, 3, CountWords("went for a"))
	assert.Equal(t, 4, CountWords("  spaced   out \n words\ttoo "))
}

func TestParseTags(t *testing.T) {
	assert.Nil(t, ParseTags(""))
	assert.Equal(t, []string{"work", "gym"}, ParseTags("work,gym"))
	assert.Equal(t, []string{"work", "gym"}, ParseTags(" work ,  gym "))
	assert.Equal(t, []string{"work"}, ParseTags("work,,  ,"))
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "", JoinTags(nil))
	assert.Equal(t, "work,gym", JoinTags([]string{" work", "gym ", "", "  "}))
}

func TestJoinParseRoundTrip(t *testing.T) {
	raw := " work , gym ,, family"
	assert.Equal(t, ParseTags(raw), ParseTags(JoinTags(ParseTags(raw))))
}

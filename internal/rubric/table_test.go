package rubric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows_SpreadsheetColumns(t *testing.T) {
	rows := [][]string{
		{"Name", "Description", "Max Score", "Weight", "Keywords", "Category"},
		{"Professional Greeting", "Warm greeting", "20", "2", "Good Morning, hello , my name is", "Opening"},
		{"", "", "", "", "", ""},
		{"Follow-up & Closure", "", "15", "", "anything else", "Closing"},
	}

	r, err := ParseRows("rubric.csv", rows)
	require.NoError(t, err)
	require.Len(t, r.Criteria, 2)

	first := r.Criteria[0]
	assert.Equal(t, "professional_greeting", first.ID)
	assert.Equal(t, 20.0, first.MaxScore)
	assert.Equal(t, 2.0, first.Weight)
	assert.Equal(t, []string{"good morning", "hello", "my name is"}, first.Keywords)
	assert.Equal(t, "Opening", first.Category)

	second := r.Criteria[1]
	assert.Equal(t, "follow_up_closure", second.ID)
	assert.Equal(t, defaultWeight, second.Weight)
	assert.Nil(t, second.RequiredKeywords)
}

func TestParseRows_IDColumnAndAliases(t *testing.T) {
	rows := [][]string{
		{"category", "ID", "criterion", "points", "required_keywords"},
		{"Opening", "custom_greeting", "Greeting", "20", "thank you for calling"},
	}

	r, err := ParseRows("sheet", rows)
	require.NoError(t, err)
	assert.Equal(t, "custom_greeting", r.Criteria[0].ID)
	assert.Equal(t, []string{"thank you for calling"}, r.Criteria[0].RequiredKeywords)
}

func TestParseRows_Errors(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		_, err := ParseRows("x", nil)
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("missing max score column", func(t *testing.T) {
		_, err := ParseRows("x", [][]string{{"Name", "Weight"}, {"A", "1"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing required column "Max Score"`)
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := ParseRows("x", [][]string{{"Name", "Max Score"}, {"A", "ten"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2: invalid max score")
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ParseRows("x", [][]string{{"Name", "Max Score"}})
		var validationErr *ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})

	t.Run("duplicate derived ids", func(t *testing.T) {
		_, err := ParseRows("x", [][]string{{"Name", "Max Score"}, {"Tone", "5"}, {"tone!", "5"}})
		var validationErr *ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestRows_RoundTrip(t *testing.T) {
	rows := Rows(Extended())
	assert.Equal(t, Header, rows[0])
	require.Len(t, rows, 5)
	assert.Equal(t, "20", rows[1][3])
	assert.Equal(t, "2.5", rows[2][4])

	parsed, err := ParseRows("extended", rows)
	require.NoError(t, err)
	assert.Equal(t, Extended().Criteria, parsed.Criteria)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "follow_up_closure", Slug("Follow-up & Closure"))
	assert.Equal(t, "greeting_opening", Slug("  Greeting & Opening! "))
	assert.Equal(t, "", Slug("!!!"))
}

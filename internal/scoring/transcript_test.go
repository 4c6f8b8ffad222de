package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTranscript(t *testing.T) {
	text := "Agent: Hello there\n\n  Customer:   I need help  \nnoise line\nAgent: Agent: doubled\nCustomerX: not a customer"

	got := ParseTranscript(text)
	assert.Equal(t, []string{"Hello there", "Agent: doubled"}, got.AgentLines)
	assert.Equal(t, []string{"I need help"}, got.CustomerLines)
	assert.True(t, got.HasAgent())
	assert.Equal(t, text, got.Text)
}

func TestParseTranscript_PrefixIsCaseSensitive(t *testing.T) {
	got := ParseTranscript("agent: hello\nAGENT: hi")
	assert.False(t, got.HasAgent())
}

func TestTranscript_Tail(t *testing.T) {
	got := ParseTranscript("Agent: ÀÉÎ")
	assert.Equal(t, "àéî", got.Tail(3))
	assert.Equal(t, "agent: àéî", got.Tail(100))
}

func TestTranscript_Contains(t *testing.T) {
	got := ParseTranscript("Agent: Thank You")
	assert.True(t, got.Contains("THANK you"))
	assert.False(t, got.Contains("goodbye"))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, wordCount(nil))
	assert.Equal(t, 0, wordCount([]string{"", "   "}))
	assert.Equal(t, 5, wordCount([]string{"hi   there", "one\ttwo  three"}))
}

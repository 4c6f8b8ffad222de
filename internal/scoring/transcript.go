package scoring

import (
	"strings"
	"unicode/utf8"
)

const (
	agentPrefix    = "Agent:"
	customerPrefix = "Customer:"
)

// Transcript is a canonical "Agent: ... / Customer: ..." transcript split into role lines.
// Lines without a role prefix are kept in Text but ignored by the line-based checks.
type Transcript struct {
	Text          string
	AgentLines    []string
	CustomerLines []string

	lower string
}

// ParseTranscript extracts agent and customer lines from canonical transcript text
func ParseTranscript(text string) *Transcript {
	t := &Transcript{Text: text, lower: strings.ToLower(text)}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, agentPrefix):
			t.AgentLines = append(t.AgentLines, stripPrefix(line, agentPrefix))
		case strings.HasPrefix(trimmed, customerPrefix):
			t.CustomerLines = append(t.CustomerLines, stripPrefix(line, customerPrefix))
		}
	}
	return t
}

// HasAgent reports whether any line was attributed to the agent
func (t *Transcript) HasAgent() bool {
	return len(t.AgentLines) > 0
}

// Contains reports whether the lower-cased transcript contains phrase (matched case-insensitively)
func (t *Transcript) Contains(phrase string) bool {
	return strings.Contains(t.lower, strings.ToLower(phrase))
}

// Tail returns the last n characters of the lower-cased transcript
func (t *Transcript) Tail(n int) string {
	if utf8.RuneCountInString(t.lower) <= n {
		return t.lower
	}
	runes := []rune(t.lower)
	return string(runes[len(runes)-n:])
}

// agentLinesLower returns the agent lines lower-cased for phrase matching
func (t *Transcript) agentLinesLower() []string {
	lines := make([]string, len(t.AgentLines))
	for i, line := range t.AgentLines {
		lines[i] = strings.ToLower(line)
	}
	return lines
}

func stripPrefix(line, prefix string) string {
	return strings.TrimSpace(strings.Replace(line, prefix, "", 1))
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// anyLineContains reports whether at least one line contains one of the phrases
func anyLineContains(lines []string, phrases []string) bool {
	for _, line := range lines {
		if containsAny(line, phrases) {
			return true
		}
	}
	return false
}

// countLinesContaining counts lines containing at least one of the phrases
func countLinesContaining(lines []string, phrases []string) int {
	count := 0
	for _, line := range lines {
		if containsAny(line, phrases) {
			count++
		}
	}
	return count
}

func wordCount(lines []string) int {
	total := 0
	for _, line := range lines {
		total += len(strings.Fields(line))
	}
	return total
}

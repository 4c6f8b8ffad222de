package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/call-scorer/internal/types"
)

type tier int

const (
	tierBasic tier = iota
	tierGood
	tierExcellent
)

func tierFor(score, maxScore float64) tier {
	if maxScore <= 0 {
		return tierBasic
	}
	ratio := score / maxScore
	switch {
	case ratio >= 0.8:
		return tierExcellent
	case ratio >= 0.6:
		return tierGood
	default:
		return tierBasic
	}
}

// headlines per category, indexed by tier
var headlines = map[Category][3]string{
	CategoryOpening: {
		"Basic greeting present but missing several professional elements.",
		"Good greeting with some professional elements, but could be enhanced.",
		"Excellent professional greeting with most required elements present.",
	},
	CategoryResolution: {
		"Basic problem-solving approach - consider more structured methodology.",
		"Good problem-solving skills demonstrated with room for improvement.",
		"Excellent problem-solving approach with comprehensive customer support.",
	},
	CategoryClosure: {
		"Basic call closure - consider adding more comprehensive wrap-up.",
		"Good call closure with some professional elements present.",
		"Excellent call closure with proper wrap-up elements.",
	},
	CategoryEmpathy: {
		"Basic empathy shown - consider more emotional connection with customer.",
		"Good empathy demonstrated with positive customer connection.",
		"Excellent empathy and rapport building throughout the conversation.",
	},
}

// Feedback builds the human-readable explanation for a criterion score
func Feedback(t *Transcript, c *types.EvaluationCriterion, score float64) string {
	category := CategoryFor(c.ID)
	level := tierFor(score, c.MaxScore)

	var b strings.Builder
	switch category {
	case CategoryOpening:
		if !t.HasAgent() {
			b.WriteString("No agent greeting detected in the conversation.")
			break
		}
		b.WriteString(headlines[category][level])
		if strings.Contains(strings.ToLower(t.AgentLines[0]), "thank you for calling") {
			b.WriteString(" ✓ Thanked customer for calling.")
		} else {
			b.WriteString(" ✗ Consider adding 'thank you for calling'.")
		}

	case CategoryResolution:
		b.WriteString(headlines[category][level])
		lines := t.agentLinesLower()
		if anyLineContains(lines, feedbackEmpathy) {
			b.WriteString(" ✓ Showed empathy.")
		}
		if anyLineContains(lines, feedbackQuestions) {
			b.WriteString(" ✓ Asked diagnostic questions.")
		}
		if anyLineContains(lines, feedbackSolutions) {
			b.WriteString(" ✓ Provided solutions.")
		}

	case CategoryClosure:
		b.WriteString(headlines[category][level])
		tail := t.Tail(closureFeedbackWindow)
		if strings.Contains(tail, "anything else") {
			b.WriteString(" ✓ Asked for additional questions.")
		}
		if strings.Contains(tail, "thank you") {
			b.WriteString(" ✓ Thanked customer.")
		}

	case CategoryEmpathy:
		b.WriteString(headlines[category][level])
		switch n := countLinesContaining(t.agentLinesLower(), empathyBasic); {
		case n > 2:
			b.WriteString(" ✓ Multiple empathetic responses.")
		case n > 0:
			b.WriteString(" ✓ Some empathetic language used.")
		}

	default:
		b.WriteString(genericHeadline(c.Name, level))
	}

	for _, kw := range normalizeKeywords(c.RequiredKeywords) {
		if !t.Contains(kw) {
			fmt.Fprintf(&b, " ✗ Required phrase missing: '%s'.", kw)
		}
	}

	return b.String()
}

func genericHeadline(name string, level tier) string {
	name = strings.ToLower(name)
	switch level {
	case tierExcellent:
		return fmt.Sprintf("Excellent performance in %s with strong evidence of quality service.", name)
	case tierGood:
		return fmt.Sprintf("Good performance in %s with room for enhancement.", name)
	default:
		return fmt.Sprintf("Basic performance in %s - consider improvement strategies.", name)
	}
}

package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/call-scorer/internal/types"
)

// Category selects which evaluator scores a criterion
type Category string

// Evaluator categories
const (
	CategoryOpening    Category = "opening"
	CategoryResolution Category = "problem-resolution"
	CategoryClosure    Category = "closure"
	CategoryEmpathy    Category = "empathy"
	CategoryGeneric    Category = "generic"
)

// CategoryFor maps a criterion ID to its evaluator. Unknown IDs use the generic keyword evaluator.
func CategoryFor(criterionID string) Category {
	switch criterionID {
	case "greeting_script", "custom_greeting":
		return CategoryOpening
	case "problem_solving", "custom_resolution":
		return CategoryResolution
	case "closure", "custom_followup":
		return CategoryClosure
	case "custom_empathy":
		return CategoryEmpathy
	default:
		return CategoryGeneric
	}
}

// evaluate returns the raw (unclamped) score for one criterion
func evaluate(t *Transcript, c *types.EvaluationCriterion) float64 {
	switch CategoryFor(c.ID) {
	case CategoryOpening:
		return scoreOpening(t)
	case CategoryResolution:
		return scoreResolution(t, c.MaxScore)
	case CategoryClosure:
		return scoreClosure(t, c.MaxScore)
	case CategoryEmpathy:
		return scoreEmpathy(t, c.MaxScore)
	default:
		return scoreGeneric(t, c)
	}
}

func floorScore(maxScore float64) float64 {
	return math.Round(maxScore * floorFraction)
}

// scoreOpening awards fixed points for greeting elements in the first agent line (max 25)
func scoreOpening(t *Transcript) float64 {
	if !t.HasAgent() {
		return openingFloor
	}

	first := strings.ToLower(t.AgentLines[0])
	score := 0.0
	if containsAny(first, openingGreetings) {
		score += 5
	}
	if containsAny(first, openingThanks) {
		score += 8
	}
	if containsAny(first, openingIntro) {
		score += 5
	}
	if containsAny(first, openingOffer) {
		score += 7
	}
	return score
}

func scoreResolution(t *Transcript, maxScore float64) float64 {
	if !t.HasAgent() {
		return floorScore(maxScore)
	}

	lines := t.agentLinesLower()
	score := 0.0
	if anyLineContains(lines, resolutionEmpathy) {
		score += maxScore * 0.2
	}
	if anyLineContains(lines, resolutionOwnership) {
		score += maxScore * 0.15
	}
	questions := countLinesContaining(lines, resolutionQuestions)
	score += math.Min(float64(questions)*(maxScore*0.05), maxScore*0.25)
	if anyLineContains(lines, resolutionSolutions) {
		score += maxScore * 0.25
	}
	if anyLineContains(lines, resolutionConfirmation) {
		score += maxScore * 0.15
	}
	return math.Round(score)
}

func scoreClosure(t *Transcript, maxScore float64) float64 {
	if !t.HasAgent() {
		return floorScore(maxScore)
	}

	lines := t.agentLinesLower()
	tail := t.Tail(closureWindow)
	score := 0.0
	if strings.Contains(tail, "anything else") || anyLineContains(lines, closureFurtherHelp) {
		score += maxScore * 0.4
	}
	if containsAny(tail, closureThanks) {
		score += maxScore * 0.3
	}
	if anyLineContains(lines, closureFarewell) {
		score += maxScore * 0.3
	}
	return math.Round(score)
}

func scoreEmpathy(t *Transcript, maxScore float64) float64 {
	if !t.HasAgent() {
		return floorScore(maxScore)
	}

	lines := t.agentLinesLower()
	score := 0.0
	if anyLineContains(lines, empathyStrong) {
		score += maxScore * 0.4
	}
	empathetic := countLinesContaining(lines, empathyBasic)
	score += math.Min(float64(empathetic)*(maxScore*0.15), maxScore*0.45)
	if anyLineContains(lines, empathyPositive) {
		score += maxScore * 0.15
	}
	return math.Round(score)
}

// scoreGeneric scores keyword coverage when keywords are given, otherwise conversational balance
func scoreGeneric(t *Transcript, c *types.EvaluationCriterion) float64 {
	if !t.HasAgent() {
		return floorScore(c.MaxScore)
	}

	keywords := normalizeKeywords(c.Keywords)
	if len(keywords) > 0 {
		matched := 0
		for _, kw := range keywords {
			if t.Contains(kw) {
				matched++
			}
		}
		return math.Round(float64(matched) / float64(len(keywords)) * c.MaxScore)
	}

	agentWords := wordCount(t.AgentLines)
	customerWords := wordCount(t.CustomerLines)
	ratio := float64(agentWords) / float64(max(customerWords, 1))

	score := c.MaxScore * 0.5
	if ratio > 0.8 && ratio < 3 {
		score += c.MaxScore * 0.3
	}
	if len(t.AgentLines) > 2 {
		score += c.MaxScore * 0.2
	}
	return math.Round(score)
}

// normalizeKeywords drops blank entries so they neither match nor dilute coverage
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Package scoring evaluates a canonical call transcript against a rubric.
//
// Every function in this package is pure: the same transcript and criteria always yield
// the same analysis, and nothing here performs I/O or logs.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/call-scorer/internal/types"
)

// Score evaluates each criterion in order and aggregates the results
func Score(transcript string, criteria []types.EvaluationCriterion) (*types.CallAnalysis, error) {
	if len(criteria) == 0 {
		return nil, &EmptyRubricError{Message: "rubric has no criteria"}
	}

	maxPossible := 0.0
	for _, c := range criteria {
		maxPossible += c.MaxScore
	}
	if maxPossible <= 0 {
		return nil, &EmptyRubricError{Message: "sum of criterion max scores must be positive"}
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, &NoTranscriptError{Message: "transcript is empty"}
	}

	t := ParseTranscript(transcript)
	scores := make([]types.ScoreResult, len(criteria))
	total := 0.0
	for i := range criteria {
		c := &criteria[i]
		score := clamp(evaluate(t, c), 0, math.Max(c.MaxScore, 0))
		scores[i] = types.ScoreResult{
			CriteriaID: c.ID,
			Score:      score,
			Feedback:   Feedback(t, c, score),
		}
		total += score
	}

	percentage := percentOf(total, maxPossible)
	return &types.CallAnalysis{
		Transcript:         transcript,
		Scores:             scores,
		TotalScore:         total,
		MaxPossibleScore:   maxPossible,
		Percentage:         percentage,
		Grade:              Grade(percentage),
		WeightedPercentage: weightedPercentage(criteria, scores),
	}, nil
}

// ScoreRubric is Score over a rubric's criteria
func ScoreRubric(transcript string, rubric *types.Rubric) (*types.CallAnalysis, error) {
	if rubric == nil {
		return nil, &EmptyRubricError{Message: "no rubric provided"}
	}
	return Score(transcript, rubric.Criteria)
}

// Grade converts a percentage into a letter grade
func Grade(percentage int) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// Band is a coarse quality band used for display
type Band string

// Display bands
const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// BandFor returns the display band for a percentage
func BandFor(percentage int) Band {
	switch {
	case percentage >= 80:
		return BandGood
	case percentage >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

// weightedPercentage is Σ w·(score/max) / Σ w, or 0 when no criterion carries weight
func weightedPercentage(criteria []types.EvaluationCriterion, scores []types.ScoreResult) int {
	weighted, weights := 0.0, 0.0
	for i, c := range criteria {
		if c.Weight <= 0 || c.MaxScore <= 0 {
			continue
		}
		weighted += c.Weight * scores[i].Score / c.MaxScore
		weights += c.Weight
	}
	if weights == 0 {
		return 0
	}
	return percentOf(weighted, weights)
}

func percentOf(part, whole float64) int {
	return int(clamp(math.Round(part/whole*100), 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Package types provides type definitions for structured data used throughout the call-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ScoreResult is the outcome of evaluating one criterion
type ScoreResult struct {
	CriteriaID string  `json:"criteriaId"`
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
}

// CallAnalysis is the full evaluation of one transcript against a rubric
type CallAnalysis struct {
	ID                 string        `json:"id,omitempty"`
	Transcript         string        `json:"transcript"`
	Scores             []ScoreResult `json:"scores"`
	TotalScore         float64       `json:"totalScore"`
	MaxPossibleScore   float64       `json:"maxPossibleScore"`
	Percentage         int           `json:"percentage"`
	Grade              string        `json:"grade"`
	WeightedPercentage int           `json:"weightedPercentage"`
}

// ScoreFor returns the result for the given criterion ID, or nil if absent
func (a *CallAnalysis) ScoreFor(criteriaID string) *ScoreResult {
	for i := range a.Scores {
		if a.Scores[i].CriteriaID == criteriaID {
			return &a.Scores[i]
		}
	}
	return nil
}

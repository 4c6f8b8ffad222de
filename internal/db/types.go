package db

import (
	"time"

	"github.com/jonathan/call-scorer/internal/types"
)

// StoredRubric represents a rubric record
type StoredRubric struct {
	Name      string                      `json:"name"`
	Criteria  []types.EvaluationCriterion `json:"criteria"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// Rubric converts the record into a rubric
func (s *StoredRubric) Rubric() *types.Rubric {
	return &types.Rubric{Name: s.Name, Criteria: s.Criteria}
}

// RubricSummary is a lightweight view of a rubric for listing
type RubricSummary struct {
	Name          string    `json:"name"`
	CriteriaCount int       `json:"criteria_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

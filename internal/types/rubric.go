// Package types provides type definitions for structured data used throughout the call-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// EvaluationCriterion is one scored dimension of a call
type EvaluationCriterion struct {
	ID               string   `json:"id" yaml:"id" validate:"required"`
	Name             string   `json:"name" yaml:"name" validate:"required"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	MaxScore         float64  `json:"maxScore" yaml:"maxScore" validate:"gt=0"`
	Weight           float64  `json:"weight" yaml:"weight" validate:"gte=0"`
	Keywords         []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	RequiredKeywords []string `json:"requiredKeywords,omitempty" yaml:"requiredKeywords,omitempty"`
	Category         string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Rubric is a named, ordered list of criteria
type Rubric struct {
	Name     string                `json:"name" yaml:"name"`
	Criteria []EvaluationCriterion `json:"criteria" yaml:"criteria" validate:"required,min=1,dive"`
}

// MaxPossibleScore returns the sum of every criterion's MaxScore
func (r *Rubric) MaxPossibleScore() float64 {
	var total float64
	for _, c := range r.Criteria {
		total += c.MaxScore
	}
	return total
}

// Validate validates the EvaluationCriterion using the validator.
func (c *EvaluationCriterion) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Validate validates the Rubric using the validator and checks that criterion IDs are unique.
func (r *Rubric) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	seen := make(map[string]bool, len(r.Criteria))
	for _, c := range r.Criteria {
		if seen[c.ID] {
			return fmt.Errorf("duplicate criterion id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

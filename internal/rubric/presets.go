// Package rubric loads evaluation rubrics from presets, files, spreadsheets, and the rubric store.
package rubric

import (
	"sort"

	"github.com/jonathan/call-scorer/internal/types"
)

// Preset names
const (
	DefaultName  = "default"
	ExtendedName = "extended"
)

// Default returns the built-in three-criterion rubric used when no other source is configured
func Default() *types.Rubric {
	return &types.Rubric{
		Name: DefaultName,
		Criteria: []types.EvaluationCriterion{
			{
				ID:          "greeting_script",
				Name:        "Greeting & Opening",
				Description: "Agent adhered to greeting script, identified themselves, mentioned company name, and offered assistance",
				MaxScore:    25,
				Weight:      2.5,
				Keywords:    []string{"good morning", "good afternoon", "hello", "my name is", "thank you for calling", "how can i help"},
				Category:    "Opening",
			},
			{
				ID:          "problem_solving",
				Name:        "Problem Solving Abilities",
				Description: "Agent took ownership, asked pertinent questions, provided appropriate solutions, and confirmed resolution",
				MaxScore:    30,
				Weight:      3.0,
				Keywords:    []string{"sorry", "apologize", "let me help", "solution", "resolve", "fix"},
				Category:    "Problem Resolution",
			},
			{
				ID:          "closure",
				Name:        "Call Closure",
				Description: "Agent followed closure guidelines, asked for additional questions, and thanked customer",
				MaxScore:    15,
				Weight:      1.5,
				Keywords:    []string{"anything else", "additional questions", "thank you"},
				Category:    "Closing",
			},
		},
	}
}

// Extended returns the four-criterion rubric with empathy scoring and required phrases
func Extended() *types.Rubric {
	return &types.Rubric{
		Name: ExtendedName,
		Criteria: []types.EvaluationCriterion{
			{
				ID:               "custom_greeting",
				Name:             "Professional Greeting",
				Description:      "Agent provides warm, professional greeting with identification",
				MaxScore:         20,
				Weight:           2.0,
				Keywords:         []string{"good morning", "good afternoon", "hello", "my name is"},
				RequiredKeywords: []string{"thank you for calling"},
				Category:         "Opening",
			},
			{
				ID:          "custom_empathy",
				Name:        "Empathy & Understanding",
				Description: "Agent demonstrates empathy and understanding of customer situation",
				MaxScore:    25,
				Weight:      2.5,
				Keywords:    []string{"sorry", "understand", "frustrating", "apologize"},
				Category:    "Soft Skills",
			},
			{
				ID:               "custom_resolution",
				Name:             "Issue Resolution",
				Description:      "Agent effectively resolves customer issue with clear steps",
				MaxScore:         30,
				Weight:           3.0,
				Keywords:         []string{"solution", "fix", "resolve", "steps", "help"},
				RequiredKeywords: []string{"let me help"},
				Category:         "Problem Solving",
			},
			{
				ID:          "custom_followup",
				Name:        "Follow-up & Closure",
				Description: "Agent ensures customer satisfaction and provides proper closure",
				MaxScore:    15,
				Weight:      1.5,
				Keywords:    []string{"anything else", "questions", "satisfied", "help"},
				Category:    "Closing",
			},
		},
	}
}

var presets = map[string]func() *types.Rubric{
	DefaultName:  Default,
	ExtendedName: Extended,
}

// Preset returns a fresh copy of the named built-in rubric
func Preset(name string) (*types.Rubric, error) {
	build, ok := presets[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return build(), nil
}

// PresetNames lists the built-in rubric names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package schemas holds the JSON Schema documents for every artifact call_scorer reads or writes.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names
const (
	Rubric       = "rubric.schema.json"
	Utterances   = "utterances.schema.json"
	CallAnalysis = "call_analysis.schema.json"
)

// All lists every embedded schema
var All = []string{Rubric, Utterances, CallAnalysis}

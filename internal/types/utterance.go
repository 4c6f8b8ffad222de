// Package types provides type definitions for structured data used throughout the call-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Role identifies which side of a support call a speaker is on
type Role string

const (
	// RoleAgent is the support representative
	RoleAgent Role = "agent"
	// RoleCustomer is the caller
	RoleCustomer Role = "customer"
)

// Label returns the canonical transcript prefix for the role ("Agent" or "Customer")
func (r Role) Label() string {
	if r == RoleAgent {
		return "Agent"
	}
	return "Customer"
}

// Word is a single recognized word with timing in milliseconds
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
}

// Utterance is one contiguous speech segment from a single speaker
type Utterance struct {
	SpeakerID  string   `json:"speaker"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
	Words      []Word   `json:"words,omitempty"`
}

// WordCount returns the number of recognized words, falling back to whitespace tokens
// when the recognizer did not supply a word list.
func (u Utterance) WordCount() int {
	if u.Words != nil {
		return len(u.Words)
	}
	return len(strings.Fields(u.Text))
}

// LabeledUtterance is an utterance with its inferred role attached
type LabeledUtterance struct {
	Utterance
	Role Role `json:"role"`
}

// SpeakerProfile holds the per-speaker evidence gathered during role classification
type SpeakerProfile struct {
	SpeakerID            string  `json:"speaker"`
	WordCount            int     `json:"wordCount"`
	UtteranceCount       int     `json:"utteranceCount"`
	HasGreeting          bool    `json:"hasGreeting"`
	HasCompanyName       bool    `json:"hasCompanyName"`
	HasProfessionalTerms bool    `json:"hasProfessionalTerms"`
	AvgConfidence        float64 `json:"avgConfidence"`
	FirstSpeaker         bool    `json:"firstSpeaker"`
	AgentScore           int     `json:"agentScore"`
}

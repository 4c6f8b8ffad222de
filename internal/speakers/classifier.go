// Package speakers infers which diarized speaker in a two-party support call is the agent.
package speakers

import (
	"errors"
	"strings"

	"github.com/jonathan/call-scorer/internal/types"
)

// ErrNoUtterances is returned when classification is asked to run on an empty transcript
var ErrNoUtterances = errors.New("no utterances to classify")

// Classification is the result of one classification pass
type Classification struct {
	// AgentID is the speaker label judged to be the agent
	AgentID string `json:"agentId"`
	// Profiles are listed in first-appearance order
	Profiles []types.SpeakerProfile `json:"profiles"`
	// Utterances carries every input utterance with its role attached, in input order
	Utterances []types.LabeledUtterance `json:"utterances"`
}

// Transcript renders the labeled utterances in canonical "Agent: ..." form
func (c *Classification) Transcript() string {
	return Format(c.Utterances)
}

// Classify builds a profile per speaker and picks the agent by highest agent score.
// Ties go to the speaker seen first.
func Classify(utterances []types.Utterance) (*Classification, error) {
	if len(utterances) == 0 {
		return nil, ErrNoUtterances
	}

	profiles := buildProfiles(utterances)

	agentIdx := 0
	for i := 1; i < len(profiles); i++ {
		if profiles[i].AgentScore > profiles[agentIdx].AgentScore {
			agentIdx = i
		}
	}
	agentID := profiles[agentIdx].SpeakerID

	return &Classification{
		AgentID:    agentID,
		Profiles:   profiles,
		Utterances: Label(utterances, agentID),
	}, nil
}

// Label attaches roles to utterances given the agent's speaker ID
func Label(utterances []types.Utterance, agentID string) []types.LabeledUtterance {
	labeled := make([]types.LabeledUtterance, len(utterances))
	for i, u := range utterances {
		role := types.RoleCustomer
		if u.SpeakerID == agentID {
			role = types.RoleAgent
		}
		labeled[i] = types.LabeledUtterance{Utterance: u, Role: role}
	}
	return labeled
}

// Format renders labeled utterances as "Agent: text" / "Customer: text" blocks separated by a blank line
func Format(utterances []types.LabeledUtterance) string {
	lines := make([]string, len(utterances))
	for i, u := range utterances {
		lines[i] = u.Role.Label() + ": " + u.Text
	}
	return strings.Join(lines, "\n\n")
}

// profileAccumulator carries the running confidence state alongside a profile
type profileAccumulator struct {
	profile         types.SpeakerProfile
	confidenceCount int
}

func buildProfiles(utterances []types.Utterance) []types.SpeakerProfile {
	var order []*profileAccumulator
	byID := make(map[string]*profileAccumulator)

	for i, u := range utterances {
		acc, ok := byID[u.SpeakerID]
		if !ok {
			acc = &profileAccumulator{profile: types.SpeakerProfile{SpeakerID: u.SpeakerID}}
			byID[u.SpeakerID] = acc
			order = append(order, acc)
		}
		p := &acc.profile

		text := strings.ToLower(u.Text)
		p.WordCount += u.WordCount()
		p.UtteranceCount++
		if i == 0 {
			p.FirstSpeaker = true
		}
		if containsAny(text, greetingPhrases) {
			p.HasGreeting = true
		}
		if containsAny(text, companyPhrases) {
			p.HasCompanyName = true
		}
		if containsAny(text, professionalPhrases) {
			p.HasProfessionalTerms = true
		}

		if u.Confidence != nil && *u.Confidence > 0 {
			acc.confidenceCount++
			p.AvgConfidence += (*u.Confidence - p.AvgConfidence) / float64(acc.confidenceCount)
		}
	}

	profiles := make([]types.SpeakerProfile, len(order))
	for i, acc := range order {
		acc.profile.AgentScore = agentScore(&acc.profile)
		profiles[i] = acc.profile
	}
	return profiles
}

func agentScore(p *types.SpeakerProfile) int {
	score := 0
	if p.HasGreeting {
		score += greetingPoints
	}
	if p.HasCompanyName {
		score += companyPoints
	}
	if p.HasProfessionalTerms {
		score += professionalPoints
	}
	if p.UtteranceCount > 0 && float64(p.WordCount)/float64(p.UtteranceCount) > verboseWordsPerUtterance {
		score += verbosePoints
	}
	if p.FirstSpeaker {
		score += firstSpeakerPoints
	}
	return score
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

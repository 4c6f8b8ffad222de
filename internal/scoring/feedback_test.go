package scoring

import (
	"testing"

	"github.com/jonathan/call-scorer/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestFeedback_Tiers(t *testing.T) {
	transcript := ParseTranscript("Agent: hello there")
	c := &types.EvaluationCriterion{ID: "custom_resolution", Name: "Issue Resolution", MaxScore: 10}

	assert.Equal(t, "Excellent problem-solving approach with comprehensive customer support.", Feedback(transcript, c, 8))
	assert.Equal(t, "Good problem-solving skills demonstrated with room for improvement.", Feedback(transcript, c, 6))
	assert.Equal(t, "Basic problem-solving approach - consider more structured methodology.", Feedback(transcript, c, 5.9))
}

func TestFeedback_Opening(t *testing.T) {
	c := &types.EvaluationCriterion{ID: "greeting_script", Name: "Greeting", MaxScore: 25}

	got := Feedback(ParseTranscript("Agent: Hello, this is Kim"), c, 10)
	assert.Equal(t, "Basic greeting present but missing several professional elements. ✗ Consider adding 'thank you for calling'.", got)

	got = Feedback(ParseTranscript("Agent: Thank you for calling, this is Kim"), c, 15)
	assert.Equal(t, "Good greeting with some professional elements, but could be enhanced. ✓ Thanked customer for calling.", got)
}

func TestFeedback_Empathy(t *testing.T) {
	c := &types.EvaluationCriterion{ID: "custom_empathy", Name: "Empathy", MaxScore: 25}

	many := ParseTranscript("Agent: sorry\nAgent: I understand\nAgent: I apologize")
	assert.Equal(t, "Excellent empathy and rapport building throughout the conversation. ✓ Multiple empathetic responses.",
		Feedback(many, c, 20))

	one := ParseTranscript("Agent: that sounds frustrating")
	assert.Equal(t, "Good empathy demonstrated with positive customer connection. ✓ Some empathetic language used.",
		Feedback(one, c, 15))

	none := ParseTranscript("Agent: ok")
	assert.Equal(t, "Basic empathy shown - consider more emotional connection with customer.", Feedback(none, c, 3))
}

func TestFeedback_ClosureUsesTrailingWindow(t *testing.T) {
	c := &types.EvaluationCriterion{ID: "closure", Name: "Closure", MaxScore: 10}
	text := "Agent: anything else? thank you\nCustomer: " + repeat("x", 600)

	assert.Equal(t, "Basic call closure - consider adding more comprehensive wrap-up.", Feedback(ParseTranscript(text), c, 0))
}

func TestFeedback_GenericUsesLowercaseName(t *testing.T) {
	c := &types.EvaluationCriterion{ID: "tone", Name: "Professional Tone", MaxScore: 10}
	assert.Equal(t, "Good performance in professional tone with room for enhancement.",
		Feedback(ParseTranscript("Agent: hi"), c, 7))
}

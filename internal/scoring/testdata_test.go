package scoring

import "github.com/jonathan/call-scorer/internal/types"

const supportCall = `Agent: Good morning, thank you for calling, my name is Alex. How can I help you today?

Customer: My internet keeps dropping.

Agent: I'm sorry to hear that, I understand this is frustrating. Let me help you with that.

Agent: When did it start? Could you check the lights on the router?

Customer: Since yesterday.

Agent: Here's what we can do: I'll reset the line. Does that work for you?

Customer: Yes, it's working now, thanks.

Agent: Is there anything else I can help with? Thank you, have a great day.`

func defaultCriteria() []types.EvaluationCriterion {
	return []types.EvaluationCriterion{
		{ID: "greeting_script", Name: "Greeting & Opening", MaxScore: 25, Weight: 2.5},
		{ID: "problem_solving", Name: "Problem Solving Abilities", MaxScore: 30, Weight: 3.0},
		{ID: "closure", Name: "Call Closure", MaxScore: 15, Weight: 1.5},
	}
}

package scoring

// Opening
var (
	openingGreetings = []string{"good morning", "good afternoon", "good evening", "hello"}
	openingThanks    = []string{"thank you for calling", "thanks for calling"}
	openingIntro     = []string{"my name is", "this is"}
	openingOffer     = []string{"how can i help", "how may i assist", "what can i do for you"}
)

// Problem resolution
var (
	resolutionEmpathy      = []string{"sorry", "apologize", "understand", "frustrating", "inconvenience"}
	resolutionOwnership    = []string{"let me help", "i can help", "i'll take care", "let me see what i can do"}
	resolutionQuestions    = []string{"what ", "when ", "how ", "why ", "where ", "can you tell me ", "could you "}
	resolutionSolutions    = []string{"here's what", "what we can do", "solution", "fix", "resolve", "try this"}
	resolutionConfirmation = []string{"does that work", "is that better", "resolved", "fixed", "working now"}
)

// Closure
var (
	closureFurtherHelp = []string{"anything else", "other questions", "additional questions", "else i can help"}
	closureThanks      = []string{"thank you", "thanks"}
	closureFarewell    = []string{"have a great", "have a good", "take care", "goodbye", "good day"}
)

// Empathy
var (
	empathyStrong   = []string{"i'm sorry to hear", "that must be frustrating", "i understand how", "i can imagine"}
	empathyBasic    = []string{"sorry", "apologize", "understand", "frustrating"}
	empathyPositive = []string{"absolutely", "certainly", "of course", "definitely", "glad to help"}
)

// Feedback annotations
var (
	feedbackEmpathy   = []string{"sorry", "understand", "apologize"}
	feedbackQuestions = []string{"what", "when", "how"}
	feedbackSolutions = []string{"solution", "fix", "resolve"}
)

const (
	// closureWindow is the trailing character window searched for wrap-up phrases
	closureWindow = 800
	// closureFeedbackWindow is the trailing window used for closure annotations
	closureFeedbackWindow = 500

	// openingFloor is awarded when no agent line exists
	openingFloor = 5
	// floorFraction of maxScore is awarded by the other evaluators when no agent line exists
	floorFraction = 0.1
)

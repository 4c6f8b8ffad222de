package speakers

var greetingPhrases = []string{
	"good morning", "good afternoon", "good evening", "hello", "hi there",
}

var companyPhrases = []string{
	"calling", "support", "service", "company", "department",
}

var professionalPhrases = []string{
	"thank you for calling",
	"my name is",
	"how can i help",
	"how may i assist",
	"i understand",
	"let me help",
	"i apologize",
	"company",
	"our system",
	"i can help you with",
	"let me check",
	"i see here",
	"our records show",
	"i would be happy to",
	"is there anything else",
	"thank you for your patience",
	"um let me",
	"uh i can",
	"so what i can do",
	"okay so",
}

// Agent score contributions
const (
	greetingPoints     = 3
	companyPoints      = 4
	professionalPoints = 5
	verbosePoints      = 2
	firstSpeakerPoints = 2

	// verboseWordsPerUtterance is the average utterance length above which a speaker is
	// considered to be explaining rather than asking
	verboseWordsPerUtterance = 15
)

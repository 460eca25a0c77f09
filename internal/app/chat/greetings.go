package chat

// Canned greetings are UI-only welcome text shown when a chat opens in a
// given mode. They are filtered out of history so they never re-enter
// model context. The filter is a byte-exact match: any wording change here
// must stay in lockstep with the client, or old conversations stop
// filtering.
var cannedGreetings = []string{
	"Let's get you into dental school! How can I help you today?",
	"Ready to practice your dental school interview? Share the school name you're interviewing for, and I'll help you prepare with common interview questions and expert tips!",
	"Looking for information about dental schools? Tell me which school you're interested in, and I'll provide detailed insights about their programs, requirements, and more!",
	"Let's perfect your dental school personal statement! Upload or paste your essay, and I'll provide comprehensive feedback to make it shine.",
}

// IsCannedGreeting reports whether text exactly equals one of the fixed
// welcome strings.
func IsCannedGreeting(text string) bool {
	for _, g := range cannedGreetings {
		if text == g {
			return true
		}
	}
	return false
}

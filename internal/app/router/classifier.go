// Package router infers the agent mode for a turn from the latest user
// message. Rules are evaluated top-to-bottom and the first match wins:
// the categories overlap (an essay question can mention interviews), so
// the order is part of the contract.
package router

import (
	"strings"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

type rule struct {
	match func(text string) bool
	mode  domain.AgentMode
}

var schoolKeywords = []string{
	"gpa",
	"dat",
	"prereq",
	"prerequisite",
	"requirements",
	"requirement",
	"acceptance rate",
	"class size",
	"tuition",
	"deadline",
	"application deadline",
	"stats",
	"statistics",
	"average dat",
	"average gpa",
}

var rules = []rule{
	{
		match: anyOf(
			"personal statement",
			"personal essay",
			"ps for dental",
			"edit my essay",
			"review my essay",
		),
		mode: domain.ModeEssayFeedback,
	},
	{
		// "interview" on its own is too ambiguous; it only counts when a
		// practice qualifier co-occurs. "mock interview" and "mmi" qualify
		// unconditionally.
		match: func(text string) bool {
			if strings.Contains(text, "mock interview") || strings.Contains(text, "mmi") {
				return true
			}
			return strings.Contains(text, "interview") &&
				(strings.Contains(text, "practice") ||
					strings.Contains(text, "prep") ||
					strings.Contains(text, "question"))
		},
		mode: domain.ModeInterviewDrill,
	},
	{
		match: anyOf(
			"volunteer",
			"volunteering",
			"community service",
			"service hours",
		),
		mode: domain.ModeVolunteerIdeas,
	},
	{
		match: anyOf(schoolKeywords...),
		mode:  domain.ModeSchoolInfo,
	},
}

func anyOf(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// Infer classifies a user message into an agent mode. The second return
// is false when no rule matched and the caller should fall back to an
// explicit mode or the general mentor.
func Infer(content string) (domain.AgentMode, bool) {
	text := strings.ToLower(content)
	for _, r := range rules {
		if r.match(text) {
			return r.mode, true
		}
	}
	return domain.ModeGeneral, false
}

// InferFromMessages applies Infer to the last message of an inbound
// batch, but only when that message is from the user and carries text.
func InferFromMessages(messages []domain.ChatMessage) (domain.AgentMode, bool) {
	if len(messages) == 0 {
		return domain.ModeGeneral, false
	}
	last := messages[len(messages)-1]
	if last.Role != domain.RoleUser || last.Content == "" {
		return domain.ModeGeneral, false
	}
	return Infer(last.Content)
}

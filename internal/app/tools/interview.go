package tools

import (
	"context"
	"fmt"
	"strings"
)

// InterviewQuestionsTool looks up school-specific interview questions from
// the plain-text export of the interview bank document. The document groups
// questions under school-name headers; a "General" section covers schools
// without a dedicated entry.
type InterviewQuestionsTool struct {
	cache  *DocCache
	docURL string
}

func NewInterviewQuestionsTool(cache *DocCache, docURL string) *InterviewQuestionsTool {
	return &InterviewQuestionsTool{cache: cache, docURL: docURL}
}

func (t *InterviewQuestionsTool) Name() string { return "get_interview_questions" }

func (t *InterviewQuestionsTool) Description() string {
	return "Fetch interview questions used by a specific dental school. Falls back to general questions when the school has no dedicated entry."
}

// Call expects input {"school": "<school name>"} and returns
// {"school": ..., "questions": "<section text>", "general": bool}.
func (t *InterviewQuestionsTool) Call(ctx context.Context, tctx ToolContext, input map[string]any) (map[string]any, error) {
	school := strings.TrimSpace(getString(input, "school"))
	if school == "" {
		return nil, fmt.Errorf("get_interview_questions: school is required")
	}

	content, err := t.cache.Fetch(ctx, t.docURL)
	if err != nil {
		return nil, fmt.Errorf("get_interview_questions: %w", err)
	}

	sections := splitSections(content)

	// A section matches when its header line contains the school name or
	// vice versa, so "UCLA" finds "UCLA School of Dentistry".
	lowered := strings.ToLower(school)
	for _, s := range sections {
		header := strings.ToLower(strings.SplitN(s, "\n", 2)[0])
		if strings.Contains(header, lowered) || strings.Contains(lowered, header) {
			return map[string]any{
				"school":    school,
				"questions": s,
				"general":   false,
			}, nil
		}
	}

	for _, s := range sections {
		header := strings.ToLower(strings.SplitN(s, "\n", 2)[0])
		if strings.Contains(header, "general") {
			return map[string]any{
				"school":    school,
				"questions": s,
				"general":   true,
			}, nil
		}
	}

	return map[string]any{
		"school":    school,
		"questions": "",
		"general":   true,
	}, nil
}

package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dentalschoolguide/eden-agent/internal/app/router"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		mode    domain.AgentMode
		matched bool
	}{
		{"essay review", "Can you review my essay?", domain.ModeEssayFeedback, true},
		{"personal statement", "I need help with my Personal Statement", domain.ModeEssayFeedback, true},
		{"ps for dental", "here is my PS for dental school", domain.ModeEssayFeedback, true},
		{"mock interview alone", "let's do a mock interview", domain.ModeInterviewDrill, true},
		{"mmi", "how do MMI stations work?", domain.ModeInterviewDrill, true},
		{"interview with qualifier", "interview practice for UCLA please", domain.ModeInterviewDrill, true},
		{"interview questions", "what interview questions does NYU ask?", domain.ModeInterviewDrill, true},
		{"interview alone", "I have an interview next week", domain.ModeGeneral, false},
		{"volunteer", "Help me find volunteer opportunities", domain.ModeVolunteerIdeas, true},
		{"service hours", "how many service hours do I need?", domain.ModeVolunteerIdeas, true},
		{"gpa", "what GPA does Harvard want?", domain.ModeSchoolInfo, true},
		{"acceptance rate", "acceptance rate at UCSF?", domain.ModeSchoolInfo, true},
		{"tuition", "how much is tuition at UPenn", domain.ModeSchoolInfo, true},
		{"no match", "tell me a joke", domain.ModeGeneral, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, matched := router.Infer(tt.content)
			assert.Equal(t, tt.matched, matched)
			assert.Equal(t, tt.mode, mode)
		})
	}
}

// Essay phrases that also mention interviews must still classify as essay
// feedback: rule order is part of the contract.
func TestInferPriorityOrder(t *testing.T) {
	mode, matched := router.Infer("review my essay about my mock interview experience")
	assert.True(t, matched)
	assert.Equal(t, domain.ModeEssayFeedback, mode)
}

func TestInferFromMessages(t *testing.T) {
	t.Run("last user message wins", func(t *testing.T) {
		mode, matched := router.InferFromMessages([]domain.ChatMessage{
			{Role: domain.RoleAssistant, Content: "anything about tuition"},
			{Role: domain.RoleUser, Content: "help me find volunteering ideas"},
		})
		assert.True(t, matched)
		assert.Equal(t, domain.ModeVolunteerIdeas, mode)
	})

	t.Run("assistant last message never classifies", func(t *testing.T) {
		_, matched := router.InferFromMessages([]domain.ChatMessage{
			{Role: domain.RoleAssistant, Content: "volunteer opportunities are great"},
		})
		assert.False(t, matched)
	})

	t.Run("empty content never classifies", func(t *testing.T) {
		_, matched := router.InferFromMessages([]domain.ChatMessage{
			{Role: domain.RoleUser, Content: ""},
		})
		assert.False(t, matched)
	})

	t.Run("empty batch", func(t *testing.T) {
		_, matched := router.InferFromMessages(nil)
		assert.False(t, matched)
	})
}

package chat

import (
	"context"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
	"github.com/dentalschoolguide/eden-agent/internal/observability"
)

const schoolInfoReminder = `CONVERSATION CONTEXT: The user has been discussing specific schools in this conversation. Review the previous messages carefully to understand which school they are referring to. If they ask a follow-up question without mentioning a school name, extract the school name from the previous messages and use it in your search.`

const genericReminder = `CONVERSATION CONTEXT: This is a continuation of an ongoing conversation. Review the previous messages to understand the context and provide relevant follow-up responses.`

// loadHistory reconstructs the message list to feed the agent for this
// turn: persisted history ascending, minus canned greetings, behind a
// single mode-dependent context reminder, with the incoming messages
// appended last. A missing conversation or a storage failure degrades to
// just the incoming messages; the turn is never blocked.
func (s *Service) loadHistory(ctx context.Context, conversationID domain.ConversationID, mode domain.AgentMode, incoming []domain.ChatMessage) []domain.ChatMessage {
	if conversationID == "" {
		return incoming
	}

	log := observability.LoggerFromContext(ctx).With("conversation_id", conversationID)

	rows, err := s.messages.ListMessages(ctx, conversationID)
	if err != nil {
		log.Error("failed to load history, continuing with new message only", "error", err)
		return incoming
	}
	if len(rows) == 0 {
		return incoming
	}

	history := make([]domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		text := row.Text()
		if row.Role == domain.RoleAssistant && IsCannedGreeting(text) {
			continue
		}
		history = append(history, domain.ChatMessage{Role: row.Role, Content: text})
	}

	reminder := genericReminder
	if mode == domain.ModeSchoolInfo {
		reminder = schoolInfoReminder
	}

	out := make([]domain.ChatMessage, 0, len(history)+len(incoming)+1)
	out = append(out, domain.ChatMessage{Role: domain.RoleSystem, Content: reminder})
	out = append(out, history...)
	out = append(out, incoming...)

	log.Info("loaded conversation history", "history_count", len(history), "mode", mode)
	return out
}

// Package chat owns the per-turn pipeline: mode resolution, history
// reconstruction, stream assembly with citation resolution, and
// conversation CRUD.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dentalschoolguide/eden-agent/internal/app/agents"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
	"github.com/dentalschoolguide/eden-agent/internal/observability"
)

// messageFormatVersion tags stored rows with the parts-array shape.
const messageFormatVersion = 2

type Service struct {
	registry      *agents.Registry
	runtime       AgentRuntime
	conversations domain.ConversationStore
	messages      domain.MessageStore
	links         domain.SourceLinkStore

	titleModel string
	patchDelay time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

type Options struct {
	TitleModel string
	// PatchDelay is how long the citation self-heal waits before
	// re-reading the latest assistant message.
	PatchDelay time.Duration
}

func NewService(
	registry *agents.Registry,
	runtime AgentRuntime,
	conversations domain.ConversationStore,
	messages domain.MessageStore,
	links domain.SourceLinkStore,
	opts Options,
) *Service {
	if opts.PatchDelay == 0 {
		opts.PatchDelay = 500 * time.Millisecond
	}
	return &Service{
		registry:      registry,
		runtime:       runtime,
		conversations: conversations,
		messages:      messages,
		links:         links,
		titleModel:    opts.TitleModel,
		patchDelay:    opts.PatchDelay,
		now:           time.Now,
		sleep:         time.Sleep,
	}
}

// defaultTitleForMode is the auto-created conversation title per mode.
func defaultTitleForMode(mode domain.AgentMode) string {
	switch mode {
	case domain.ModeEssayFeedback:
		return "Essay Feedback"
	case domain.ModeInterviewDrill:
		return "Interview Practice"
	case domain.ModeVolunteerIdeas:
		return "Volunteer Ideas"
	case domain.ModeSchoolInfo:
		return "School Info Chat"
	default:
		return "Chat with Eden"
	}
}

// ─────────────────────────────────────────────
// Conversation CRUD
// ─────────────────────────────────────────────

func (s *Service) ListConversations(ctx context.Context, userID domain.UserID) ([]*domain.Conversation, error) {
	return s.conversations.ListConversations(ctx, userID)
}

// CreateConversation creates an explicitly requested conversation. An
// empty title falls back to a timestamped default so the invariant
// "title is never empty" holds.
func (s *Service) CreateConversation(ctx context.Context, userID domain.UserID, title string) (*domain.Conversation, error) {
	now := s.now()
	if strings.TrimSpace(title) == "" {
		title = "New Chat " + now.Format("3:04 PM")
	}

	conv := &domain.Conversation{
		ID:         NewConversationID(now),
		UserID:     userID,
		ResourceID: "dental-mentor-ai",
		Title:      title,
		Metadata:   map[string]string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.conversations.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Service) GetConversationWithMessages(ctx context.Context, id domain.ConversationID, userID domain.UserID) (*domain.Conversation, []*domain.Message, error) {
	conv, err := s.conversations.GetConversation(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.messages.ListMessages(ctx, id)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to load messages", "conversation_id", id, "error", err)
		msgs = nil
	}
	return conv, msgs, nil
}

func (s *Service) RenameConversation(ctx context.Context, id domain.ConversationID, userID domain.UserID, title string) (*domain.Conversation, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	return s.conversations.RenameConversation(ctx, id, userID, title, s.now())
}

func (s *Service) DeleteConversation(ctx context.Context, id domain.ConversationID, userID domain.UserID) error {
	return s.conversations.DeleteConversation(ctx, id, userID)
}

// ─────────────────────────────────────────────
// Title generation
// ─────────────────────────────────────────────

const titlePromptFormat = `Based on these user messages, generate a short chat title with NO MORE THAN 6 WORDS. Only return the title, nothing else.

User messages:
%s

Title (max 6 words):`

// GenerateTitle derives a short title from the first user turns via a
// single non-streaming model call and stores it on the conversation.
func (s *Service) GenerateTitle(ctx context.Context, id domain.ConversationID, userID domain.UserID) (string, error) {
	rows, err := s.messages.ListUserMessages(ctx, id, 3)
	if err != nil {
		return "", fmt.Errorf("loading user messages: %w", err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("not enough messages")
	}

	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		texts = append(texts, row.Text())
	}

	generated, err := s.runtime.GenerateText(ctx, s.titleModel, fmt.Sprintf(titlePromptFormat, strings.Join(texts, "\n")))
	if err != nil {
		return "", fmt.Errorf("generating title: %w", err)
	}

	title := strings.Trim(strings.TrimSpace(generated), `"'`)
	if title == "" {
		return "", fmt.Errorf("model returned empty title")
	}

	if _, err := s.conversations.RenameConversation(ctx, id, userID, title, s.now()); err != nil {
		return "", fmt.Errorf("saving title: %w", err)
	}
	return title, nil
}

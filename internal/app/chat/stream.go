package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dentalschoolguide/eden-agent/internal/app/retrieval"
	"github.com/dentalschoolguide/eden-agent/internal/app/router"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
	"github.com/dentalschoolguide/eden-agent/internal/observability"
)

// sourcesMarker guards against appending the citations block twice to the
// same stored message.
const sourcesMarker = "📚 Sources:"

// TurnInput is one inbound chat turn.
type TurnInput struct {
	UserID         domain.UserID
	ConversationID domain.ConversationID
	Messages       []domain.ChatMessage
	// ExplicitMode is the client-selected agent mode. When empty, the
	// classifier runs against the last user message.
	ExplicitMode string
}

// Sink receives the outbound stream. The HTTP adapter implements it over
// a flushing SSE writer; each SendText must reach the client immediately.
type Sink interface {
	SendText(content string) error
	SendFinish(usage *domain.Usage) error
}

// StreamTurn drives generation for one turn: resolve the agent mode, load
// history, relay the token stream, then resolve citations and persist the
// turn pair. An error return before any chunk was sent means the caller
// should answer with an HTTP error; a mid-stream error aborts the
// connection without retracting what was already sent.
func (s *Service) StreamTurn(ctx context.Context, in TurnInput, sink Sink) error {
	log := observability.LoggerFromContext(ctx).With(
		"user_id", in.UserID,
		"conversation_id", in.ConversationID,
	)

	mode := s.resolveMode(ctx, in)
	cfg := s.registry.Resolve(mode)
	log.Info("chat turn started", "mode", string(cfg.Mode), "agent", cfg.Name, "model", cfg.Model)

	messagesToSend := s.loadHistory(ctx, in.ConversationID, cfg.Mode, in.Messages)

	collector := retrieval.NewCollector()
	stream, err := s.runtime.Invoke(ctx, cfg, messagesToSend, InvokeOptions{
		UserID:         in.UserID,
		ConversationID: in.ConversationID,
		Collector:      collector,
	})
	if err != nil {
		return fmt.Errorf("invoking agent: %w", err)
	}

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("agent stream: %w", err)
		}

		switch chunk.Type {
		case domain.ChunkTextDelta:
			full.WriteString(chunk.Text)
			if err := sink.SendText(chunk.Text); err != nil {
				return fmt.Errorf("forwarding text delta: %w", err)
			}

		case domain.ChunkFinish:
			s.finishTurn(ctx, in, cfg.Mode, collector, &full, sink)
			if err := sink.SendFinish(chunk.Usage); err != nil {
				return fmt.Errorf("sending finish event: %w", err)
			}
		}
	}
}

func (s *Service) resolveMode(ctx context.Context, in TurnInput) domain.AgentMode {
	if in.ExplicitMode != "" {
		return domain.ParseAgentMode(in.ExplicitMode)
	}
	if inferred, ok := router.InferFromMessages(in.Messages); ok {
		observability.LoggerFromContext(ctx).Info("inferred agent mode from message", "mode", string(inferred))
		return inferred
	}
	return domain.ModeGeneral
}

// finishTurn runs the synchronous tail work after the model's finish
// signal: citation resolution, persistence of the turn pair and the
// best-effort self-heal. Every failure here degrades silently; the client
// still gets its finish event.
func (s *Service) finishTurn(
	ctx context.Context,
	in TurnInput,
	mode domain.AgentMode,
	collector *retrieval.Collector,
	full *strings.Builder,
	sink Sink,
) {
	log := observability.LoggerFromContext(ctx).With("conversation_id", in.ConversationID)

	sourcesText := s.resolveSources(ctx, collector)
	if sourcesText != "" {
		full.WriteString(sourcesText)
		if err := sink.SendText(sourcesText); err != nil {
			log.Error("failed to send sources block", "error", err)
		}
	}

	if in.ConversationID == "" {
		return
	}

	s.persistTurn(ctx, in, mode, full.String())

	// The self-heal runs after our own write, so the guard normally turns
	// it into a no-op. It only ever appends when another writer persisted
	// an assistant row without the citations.
	if mode == domain.ModeGeneral && sourcesText != "" {
		s.patchSources(ctx, in.ConversationID, sourcesText)
	}
}

func (s *Service) resolveSources(ctx context.Context, collector *retrieval.Collector) string {
	ids := collector.SourceIDs()
	if len(ids) == 0 {
		return ""
	}

	log := observability.LoggerFromContext(ctx)
	links, err := s.links.ResolveSourceLinks(ctx, ids)
	if err != nil {
		log.Error("failed to resolve source links, omitting sources block", "error", err)
		return ""
	}
	if len(links) == 0 {
		return ""
	}

	lines := make([]string, 0, len(links))
	for _, link := range links {
		lines = append(lines, fmt.Sprintf("- [%s](%s)", link.ContextName, link.Link))
	}
	return "\n\n---\n\n**" + sourcesMarker + "**\n" + strings.Join(lines, "\n")
}

// persistTurn ensures the conversation row exists and appends the user
// and assistant messages. Failures are logged and swallowed: the streamed
// answer already reached the client.
func (s *Service) persistTurn(ctx context.Context, in TurnInput, mode domain.AgentMode, assistantText string) {
	log := observability.LoggerFromContext(ctx).With("conversation_id", in.ConversationID)
	now := s.now()

	conv := &domain.Conversation{
		ID:         in.ConversationID,
		UserID:     in.UserID,
		ResourceID: string(in.UserID),
		Title:      defaultTitleForMode(mode),
		Metadata:   map[string]string{"agentMode": agentModeLabel(mode)},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.conversations.CreateConversation(ctx, conv); err != nil {
		log.Error("failed to create conversation", "error", err)
	}

	if userText, ok := latestUserText(in.Messages); ok {
		userMsg := &domain.Message{
			ID:             newMessageID(now, domain.RoleUser),
			ConversationID: in.ConversationID,
			UserID:         in.UserID,
			Role:           domain.RoleUser,
			Parts:          domain.TextParts(userText),
			Metadata:       map[string]string{},
			FormatVersion:  messageFormatVersion,
			CreatedAt:      now,
		}
		if err := s.messages.AppendMessage(ctx, userMsg); err != nil {
			log.Error("failed to save user message", "error", err)
		}
	}

	// The assistant row sorts strictly after the user row.
	assistantAt := now.Add(time.Millisecond)
	assistantMsg := &domain.Message{
		ID:             newMessageID(assistantAt, domain.RoleAssistant),
		ConversationID: in.ConversationID,
		UserID:         in.UserID,
		Role:           domain.RoleAssistant,
		Parts:          domain.TextParts(assistantText),
		Metadata:       map[string]string{},
		FormatVersion:  messageFormatVersion,
		CreatedAt:      assistantAt,
	}
	if err := s.messages.AppendMessage(ctx, assistantMsg); err != nil {
		log.Error("failed to save assistant message", "error", err)
		return
	}

	if err := s.conversations.TouchConversation(ctx, in.ConversationID, s.now()); err != nil {
		log.Error("failed to touch conversation", "error", err)
	}
}

// patchSources appends the citations block to the most recently stored
// assistant message unless it already carries one. Best effort: a race
// with another writer is tolerated by waiting briefly and re-checking
// instead of locking.
func (s *Service) patchSources(ctx context.Context, conversationID domain.ConversationID, sourcesText string) {
	log := observability.LoggerFromContext(ctx).With("conversation_id", conversationID)

	s.sleep(s.patchDelay)

	latest, err := s.messages.LatestAssistantMessage(ctx, conversationID)
	if err != nil {
		log.Error("self-heal: no assistant message to patch", "error", err)
		return
	}

	text := latest.Text()
	if strings.Contains(text, sourcesMarker) {
		return
	}

	if err := s.messages.UpdateMessageParts(ctx, conversationID, latest.ID, domain.TextParts(text+sourcesText)); err != nil {
		log.Error("self-heal: failed to patch assistant message", "error", err)
	}
}

func latestUserText(messages []domain.ChatMessage) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}

func agentModeLabel(mode domain.AgentMode) string {
	if mode == domain.ModeGeneral {
		return "regular"
	}
	return string(mode)
}

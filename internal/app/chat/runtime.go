package chat

import (
	"context"

	"github.com/dentalschoolguide/eden-agent/internal/app/agents"
	"github.com/dentalschoolguide/eden-agent/internal/app/retrieval"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// InvokeOptions carries per-turn metadata into the agent runtime. The
// Collector is the retrieval side channel: the runtime's retriever records
// contributing source ids there while building context.
type InvokeOptions struct {
	UserID         domain.UserID
	ConversationID domain.ConversationID
	Collector      *retrieval.Collector
}

// AgentRuntime drives generation against the underlying model provider.
type AgentRuntime interface {
	// Invoke starts a streaming generation for one turn. Errors before the
	// first chunk surface as HTTP errors; the returned stream yields
	// text-delta chunks, one finish chunk, then io.EOF.
	Invoke(ctx context.Context, cfg agents.Config, messages []domain.ChatMessage, opts InvokeOptions) (domain.AgentStream, error)

	// GenerateText performs a single non-streaming completion. Used for
	// title generation.
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// Package llm adapts the Gemini API to the agent runtime port.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"google.golang.org/genai"

	"github.com/dentalschoolguide/eden-agent/internal/app/agents"
	"github.com/dentalschoolguide/eden-agent/internal/app/chat"
	"github.com/dentalschoolguide/eden-agent/internal/app/tools"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
	"github.com/dentalschoolguide/eden-agent/internal/observability"
)

// GeminiOptions selects the backend: an API key for local development or
// a Vertex AI project for gcp mode.
type GeminiOptions struct {
	APIKey         string
	Project        string
	Location       string
	UseVertex      bool
	EmbeddingModel string
}

// GeminiRuntime implements chat.AgentRuntime and retrieval.Embedder over
// a single genai client.
type GeminiRuntime struct {
	client         *genai.Client
	embeddingModel string
}

func NewGeminiRuntime(ctx context.Context, opts GeminiOptions) (*GeminiRuntime, error) {
	cc := &genai.ClientConfig{}
	if opts.UseVertex {
		if opts.Project == "" || opts.Location == "" {
			return nil, fmt.Errorf("vertex backend requires project and location")
		}
		cc.Project = opts.Project
		cc.Location = opts.Location
		cc.Backend = genai.BackendVertexAI
	} else {
		if opts.APIKey == "" {
			return nil, fmt.Errorf("gemini api key is required")
		}
		cc.APIKey = opts.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiRuntime{client: client, embeddingModel: opts.EmbeddingModel}, nil
}

// Invoke builds the request (system instructions, knowledge-base context,
// tool results, conversation turns) and starts a streaming generation. The
// returned stream yields text deltas, one finish chunk with usage, then
// io.EOF.
func (g *GeminiRuntime) Invoke(ctx context.Context, cfg agents.Config, messages []domain.ChatMessage, opts chat.InvokeOptions) (domain.AgentStream, error) {
	system, contents := g.buildRequest(ctx, cfg, messages, opts)
	if len(contents) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}

	temp := float32(0.7)
	gcfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
	}

	ch := make(chan streamItem)
	go func() {
		defer close(ch)

		var usage domain.Usage
		for res, err := range g.client.Models.GenerateContentStream(ctx, cfg.Model, contents, gcfg) {
			if err != nil {
				ch <- streamItem{err: fmt.Errorf("gemini stream: %w", err)}
				return
			}
			if text := res.Text(); text != "" {
				ch <- streamItem{chunk: &domain.StreamChunk{Type: domain.ChunkTextDelta, Text: text}}
			}
			if res.UsageMetadata != nil {
				usage = domain.Usage{
					PromptTokens:     int64(res.UsageMetadata.PromptTokenCount),
					CompletionTokens: int64(res.UsageMetadata.CandidatesTokenCount),
					TotalTokens:      int64(res.UsageMetadata.TotalTokenCount),
				}
			}
		}
		ch <- streamItem{chunk: &domain.StreamChunk{Type: domain.ChunkFinish, Usage: &usage}}
	}()

	return &channelStream{ch: ch}, nil
}

// buildRequest assembles the system instruction and the conversation
// contents. Tools run here, before generation: each tool reads the input
// keys it understands and its output lands in the system instruction as a
// named JSON block. A failing tool or retriever degrades to generating
// without that context.
func (g *GeminiRuntime) buildRequest(ctx context.Context, cfg agents.Config, messages []domain.ChatMessage, opts chat.InvokeOptions) (string, []*genai.Content) {
	log := observability.LoggerFromContext(ctx)
	system := cfg.Instructions

	userText := lastUserText(messages)

	if cfg.Retriever != nil && userText != "" {
		kb, err := cfg.Retriever.Retrieve(ctx, userText, opts.Collector)
		if err != nil {
			log.Error("knowledge base retrieval failed, generating without it", "error", err)
		} else if kb != "" {
			system += "\n\nKNOWLEDGE BASE CONTEXT:\n" + kb
		}
	}

	if len(cfg.Tools) > 0 && userText != "" {
		tctx := tools.ToolContext{
			UserID:         string(opts.UserID),
			ConversationID: string(opts.ConversationID),
		}
		// Every tool gets the same input; each reads the keys it knows.
		input := map[string]any{
			"query":      userText,
			"school":     userText,
			"schoolName": userText,
			"essayText":  userText,
		}

		var toolResults string
		for _, tool := range cfg.Tools {
			out, err := tool.Call(ctx, tctx, input)
			if err != nil {
				log.Warn("tool call failed", "tool", tool.Name(), "error", err)
				continue
			}
			encoded, err := json.Marshal(out)
			if err != nil {
				log.Warn("tool output not encodable", "tool", tool.Name(), "error", err)
				continue
			}
			toolResults += fmt.Sprintf("\n[%s]\n%s\n", tool.Name(), encoded)
		}
		if toolResults != "" {
			system += "\n\nTOOL RESULTS:" + toolResults
		}
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			// genai carries no system role in contents.
			system += "\n\n" + m.Content
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	return system, contents
}

// GenerateText performs a single non-streaming completion.
func (g *GeminiRuntime) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	res, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// Embed implements retrieval.Embedder for knowledge-base queries.
func (g *GeminiRuntime) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	result, err := g.client.Models.EmbedContent(ctx,
		g.embeddingModel,
		contents,
		&genai.EmbedContentConfig{
			TaskType: "RETRIEVAL_QUERY",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}

func lastUserText(messages []domain.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

type streamItem struct {
	chunk *domain.StreamChunk
	err   error
}

type channelStream struct {
	ch <-chan streamItem
}

func (s *channelStream) Recv() (*domain.StreamChunk, error) {
	item, ok := <-s.ch
	if !ok {
		return nil, io.EOF
	}
	if item.err != nil {
		return nil, item.err
	}
	return item.chunk, nil
}

package llm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dentalschoolguide/eden-agent/internal/app/agents"
	"github.com/dentalschoolguide/eden-agent/internal/app/chat"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// MockRuntime is a canned chat.AgentRuntime for development without API
// credentials. It echoes the question back in a few chunks so the SSE
// path can be exercised end to end.
type MockRuntime struct{}

func NewMockRuntime() *MockRuntime {
	return &MockRuntime{}
}

func (m *MockRuntime) Invoke(_ context.Context, cfg agents.Config, messages []domain.ChatMessage, _ chat.InvokeOptions) (domain.AgentStream, error) {
	reply := fmt.Sprintf("(%s) You asked: %q. This is a mock reply; set a Gemini API key for real answers.",
		cfg.Name, lastUserText(messages))

	words := strings.SplitAfter(reply, " ")
	chunks := make([]*domain.StreamChunk, 0, len(words)+1)
	for _, w := range words {
		chunks = append(chunks, &domain.StreamChunk{Type: domain.ChunkTextDelta, Text: w})
	}
	chunks = append(chunks, &domain.StreamChunk{
		Type:  domain.ChunkFinish,
		Usage: &domain.Usage{CompletionTokens: int64(len(words)), TotalTokens: int64(len(words))},
	})

	return &sliceStream{chunks: chunks}, nil
}

func (m *MockRuntime) GenerateText(_ context.Context, _, _ string) (string, error) {
	return "New Dental School Chat", nil
}

type sliceStream struct {
	chunks []*domain.StreamChunk
	pos    int
}

func (s *sliceStream) Recv() (*domain.StreamChunk, error) {
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}

package httpadapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalschoolguide/eden-agent/internal/adapters/storage/memory"
	"github.com/dentalschoolguide/eden-agent/internal/app/agents"
	"github.com/dentalschoolguide/eden-agent/internal/app/chat"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

type scriptedStream struct {
	chunks []*domain.StreamChunk
	pos    int
}

func (s *scriptedStream) Recv() (*domain.StreamChunk, error) {
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}

type fakeRuntime struct {
	chunks    []*domain.StreamChunk
	titleText string
}

func (r *fakeRuntime) Invoke(context.Context, agents.Config, []domain.ChatMessage, chat.InvokeOptions) (domain.AgentStream, error) {
	return &scriptedStream{chunks: r.chunks}, nil
}

func (r *fakeRuntime) GenerateText(context.Context, string, string) (string, error) {
	return r.titleText, nil
}

func newTestServer(t *testing.T, rt chat.AgentRuntime) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	reg := agents.NewRegistry(
		agents.Models{Pro: "gemini-3-pro-preview", Flash: "gemini-2.5-flash"},
		agents.Toolset{},
		nil,
	)
	svc := chat.NewService(reg, rt, store, store, store, chat.Options{
		TitleModel: "gemini-2.0-flash-exp",
		PatchDelay: time.Nanosecond,
	})
	verifier := NewStaticTokenVerifier("secret-token=user-1,other-token=user-2")
	return NewServer(svc, verifier), store
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type sseEvent struct {
	Type    string        `json:"type"`
	Content string        `json:"content"`
	Usage   *domain.Usage `json:"usage"`
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev sseEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	return events
}

func chatChunks(parts ...string) []*domain.StreamChunk {
	out := make([]*domain.StreamChunk, 0, len(parts)+1)
	for _, p := range parts {
		out = append(out, &domain.StreamChunk{Type: domain.ChunkTextDelta, Text: p})
	}
	out = append(out, &domain.StreamChunk{
		Type:  domain.ChunkFinish,
		Usage: &domain.Usage{PromptTokens: 7, CompletionTokens: 3, TotalTokens: 10},
	})
	return out
}

func TestChatRequiresAuth(t *testing.T) {
	h, _ := newTestServer(t, &fakeRuntime{})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", "", chatRequest{
		Messages: []chatMessage{{Role: "user", Content: "hi"}},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/chat", "wrong-token", chatRequest{
		Messages: []chatMessage{{Role: "user", Content: "hi"}},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatRejectsInvalidMessages(t *testing.T) {
	h, _ := newTestServer(t, &fakeRuntime{})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", "secret-token", chatRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/chat", "secret-token", chatRequest{
		Messages: []chatMessage{{Role: "user", Content: ""}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid messages format")
}

func TestChatStreamsSSE(t *testing.T) {
	h, _ := newTestServer(t, &fakeRuntime{chunks: chatChunks("Hello", " there")})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", "secret-token", chatRequest{
		Messages: []chatMessage{{Role: "user", Content: "hi"}},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, "text", events[0].Type)
	assert.Equal(t, "Hello", events[0].Content)
	assert.Equal(t, " there", events[1].Content)
	assert.Equal(t, "finish", events[2].Type)
	require.NotNil(t, events[2].Usage)
	assert.Equal(t, int64(10), events[2].Usage.TotalTokens)
}

func TestChatPersistsWhenConversationIDSupplied(t *testing.T) {
	h, store := newTestServer(t, &fakeRuntime{chunks: chatChunks("An answer.")})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", "secret-token", chatRequest{
		Messages:       []chatMessage{{Role: "user", Content: "a question"}},
		ConversationID: "conv_123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	msgs, err := store.ListMessages(context.Background(), "conv_123")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "a question", msgs[0].Text())
	assert.Equal(t, "An answer.", msgs[1].Text())
}

func TestConversationLifecycle(t *testing.T) {
	h, _ := newTestServer(t, &fakeRuntime{titleText: "DAT Prep Plan"})

	// create
	rec := doJSON(t, h, http.MethodPost, "/api/conversations", "secret-token", createConversationRequest{Title: "My chat"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created conversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "My chat", created.Title)
	require.NotEmpty(t, created.ID)

	// list
	rec = doJSON(t, h, http.MethodGet, "/api/conversations", "secret-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed listConversationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Conversations, 1)

	// another user sees nothing
	rec = doJSON(t, h, http.MethodGet, "/api/conversations", "other-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var other listConversationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &other))
	assert.Empty(t, other.Conversations)

	// rename
	rec = doJSON(t, h, http.MethodPatch, "/api/conversations/"+created.ID, "secret-token", renameConversationRequest{Title: "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	var renamed conversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &renamed))
	assert.Equal(t, "Renamed", renamed.Title)

	// get with messages
	rec = doJSON(t, h, http.MethodGet, "/api/conversations/"+created.ID, "secret-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got getConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Renamed", got.Conversation.Title)
	assert.Empty(t, got.Messages)

	// delete
	rec = doJSON(t, h, http.MethodDelete, "/api/conversations/"+created.ID, "secret-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/conversations/"+created.ID, "secret-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversationOwnershipEnforced(t *testing.T) {
	h, _ := newTestServer(t, &fakeRuntime{})

	rec := doJSON(t, h, http.MethodPost, "/api/conversations", "secret-token", createConversationRequest{Title: "Mine"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created conversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, h, http.MethodGet, "/api/conversations/"+created.ID, "other-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/conversations/"+created.ID, "other-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateTitleEndpoint(t *testing.T) {
	h, store := newTestServer(t, &fakeRuntime{titleText: `"DAT Prep Plan"`})

	rec := doJSON(t, h, http.MethodPost, "/api/conversations", "secret-token", createConversationRequest{Title: "New Chat"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created conversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	require.NoError(t, store.AppendMessage(context.Background(), &domain.Message{
		ID:             "msg_1_user",
		ConversationID: domain.ConversationID(created.ID),
		UserID:         "user-1",
		Role:           domain.RoleUser,
		Parts:          domain.TextParts("how do I prep for the DAT?"),
		FormatVersion:  2,
		CreatedAt:      time.Now(),
	}))

	rec = doJSON(t, h, http.MethodPost, "/api/conversations/"+created.ID+"/generate-title", "secret-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"title":"DAT Prep Plan"}`, rec.Body.String())
}

func TestBearerTokenParsing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Bearer my-token")
	assert.Equal(t, "my-token", bearerToken(req))
}

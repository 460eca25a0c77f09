package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dentalschoolguide/eden-agent/internal/app/chat"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
	"github.com/dentalschoolguide/eden-agent/internal/observability"
)

type Server struct {
	svc      *chat.Service
	verifier domain.TokenVerifier
}

func NewServer(svc *chat.Service, verifier domain.TokenVerifier) http.Handler {
	s := &Server{svc: svc, verifier: verifier}
	mux := http.NewServeMux()

	// /api/chat → POST: stream one turn over SSE
	mux.HandleFunc("/api/chat", s.handleChat)

	// /api/conversations           → GET: list, POST: create
	// /api/conversations/{id}      → GET / PATCH / DELETE
	// /api/conversations/{id}/generate-title → POST
	mux.HandleFunc("/api/conversations", s.handleConversations)
	mux.HandleFunc("/api/conversations/", s.handleConversationWithID)

	return chainMiddlewares(mux, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages       []chatMessage `json:"messages"`
	ConversationID string        `json:"conversationId,omitempty"`
	AgentMode      string        `json:"agentMode,omitempty"`
}

type createConversationRequest struct {
	Title string `json:"title,omitempty"`
}

type renameConversationRequest struct {
	Title string `json:"title"`
}

type conversationResponse struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	ResourceID string            `json:"resourceId"`
	Metadata   map[string]string `json:"metadata"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type messageResponse struct {
	ID        string        `json:"id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Parts     []domain.Part `json:"parts"`
	CreatedAt time.Time     `json:"createdAt"`
}

type listConversationsResponse struct {
	Conversations []conversationResponse `json:"conversations"`
}

type getConversationResponse struct {
	Conversation conversationResponse `json:"conversation"`
	Messages     []messageResponse    `json:"messages"`
}

type generateTitleResponse struct {
	Title string `json:"title"`
}

// ─────────────────────────────────────────────
// /api/chat
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if !validMessages(req.Messages) {
		badRequest(w, "Invalid messages format")
		return
	}

	messages := make([]domain.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, domain.ChatMessage{Role: domain.Role(m.Role), Content: m.Content})
	}

	sink := newSSESink(w)
	err := s.svc.StreamTurn(r.Context(), chat.TurnInput{
		UserID:         userID,
		ConversationID: domain.ConversationID(req.ConversationID),
		Messages:       messages,
		ExplicitMode:   req.AgentMode,
	}, sink)
	if err != nil {
		if !sink.started() {
			internalError(w, err)
			return
		}
		// Headers are out; all we can do is drop the connection.
		observability.LoggerFromContext(r.Context()).Error("chat stream aborted", "error", err)
	}
}

// validMessages requires a non-empty batch where every entry carries a
// role and content.
func validMessages(messages []chatMessage) bool {
	if len(messages) == 0 {
		return false
	}
	for _, m := range messages {
		if m.Role == "" || m.Content == "" {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────
// /api/conversations
// ─────────────────────────────────────────────

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		convs, err := s.svc.ListConversations(r.Context(), userID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listConversationsResponse{Conversations: toConversationsResponse(convs)})

	case http.MethodPost:
		var req createConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		conv, err := s.svc.CreateConversation(r.Context(), userID, req.Title)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toConversationResponse(conv))

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleConversationWithID(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.ConversationID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetConversation(w, r, id, userID)
		case http.MethodPatch:
			s.handleRenameConversation(w, r, id, userID)
		case http.MethodDelete:
			s.handleDeleteConversation(w, r, id, userID)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "generate-title" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleGenerateTitle(w, r, id, userID)
		return
	}

	http.NotFound(w, r)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request, id domain.ConversationID, userID domain.UserID) {
	conv, msgs, err := s.svc.GetConversationWithMessages(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			notFound(w, "Conversation not found")
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getConversationResponse{
		Conversation: toConversationResponse(conv),
		Messages:     toMessagesResponse(msgs),
	})
}

func (s *Server) handleRenameConversation(w http.ResponseWriter, r *http.Request, id domain.ConversationID, userID domain.UserID) {
	var req renameConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, "title is required")
		return
	}

	conv, err := s.svc.RenameConversation(r.Context(), id, userID, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			notFound(w, "Conversation not found")
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request, id domain.ConversationID, userID domain.UserID) {
	if err := s.svc.DeleteConversation(r.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			notFound(w, "Conversation not found")
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleGenerateTitle(w http.ResponseWriter, r *http.Request, id domain.ConversationID, userID domain.UserID) {
	title, err := s.svc.GenerateTitle(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			notFound(w, "Conversation not found")
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateTitleResponse{Title: title})
}

// ─────────────────────────────────────────────
// Response helpers
// ─────────────────────────────────────────────

func toConversationResponse(c *domain.Conversation) conversationResponse {
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return conversationResponse{
		ID:         string(c.ID),
		Title:      c.Title,
		ResourceID: c.ResourceID,
		Metadata:   metadata,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func toConversationsResponse(convs []*domain.Conversation) []conversationResponse {
	out := make([]conversationResponse, 0, len(convs))
	for _, c := range convs {
		out = append(out, toConversationResponse(c))
	}
	return out
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{
			ID:        string(m.ID),
			Role:      string(m.Role),
			Content:   m.Text(),
			Parts:     m.Parts,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
}

func internalError(w http.ResponseWriter, _ error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

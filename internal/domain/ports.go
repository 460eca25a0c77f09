package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrConversationNotFound is returned by stores when a conversation id
	// does not exist or is owned by another user.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrMessageNotFound is returned when a message lookup matches nothing.
	ErrMessageNotFound = errors.New("message not found")

	// ErrUnauthorized is returned by TokenVerifier for missing or invalid
	// credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// ConversationStore persists conversation rows.
type ConversationStore interface {
	// CreateConversation inserts a conversation row. Creating an id that
	// already exists is success, not an error: two concurrent requests may
	// race on the first turn of a new chat.
	CreateConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id ConversationID, userID UserID) (*Conversation, error)
	ListConversations(ctx context.Context, userID UserID) ([]*Conversation, error)
	RenameConversation(ctx context.Context, id ConversationID, userID UserID, title string, at time.Time) (*Conversation, error)
	// TouchConversation bumps updated_at after a new message pair lands.
	TouchConversation(ctx context.Context, id ConversationID, at time.Time) error
	// DeleteConversation removes the conversation and cascades to its messages.
	DeleteConversation(ctx context.Context, id ConversationID, userID UserID) error
}

// MessageStore persists message rows in strict creation order.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *Message) error
	// ListMessages returns every message of a conversation ordered by
	// creation time ascending.
	ListMessages(ctx context.Context, id ConversationID) ([]*Message, error)
	// ListUserMessages returns the first user messages of a conversation,
	// oldest first, up to limit.
	ListUserMessages(ctx context.Context, id ConversationID, limit int) ([]*Message, error)
	LatestAssistantMessage(ctx context.Context, id ConversationID) (*Message, error)
	// UpdateMessageParts replaces the content parts of one message. Scoped
	// by conversation because message ids are only millisecond-granular.
	// Used only by the citation self-heal.
	UpdateMessageParts(ctx context.Context, conversationID ConversationID, id MessageID, parts []Part) error
}

// SourceLinkStore resolves knowledge-base source ids to display links.
type SourceLinkStore interface {
	ResolveSourceLinks(ctx context.Context, ids []SourceID) ([]*SourceLink, error)
}

// TokenVerifier authenticates a bearer token and returns the owning user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (UserID, error)
}

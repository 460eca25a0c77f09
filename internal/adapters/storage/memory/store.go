// Package memory provides in-memory implementations of the storage ports.
// Nothing is persistent; it is only suitable for development / local mode
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// Store implements domain.ConversationStore, domain.MessageStore and
// domain.SourceLinkStore over plain maps.
type Store struct {
	mu            sync.RWMutex
	conversations map[domain.ConversationID]*domain.Conversation
	messages      map[domain.ConversationID][]*domain.Message
	links         map[domain.SourceID]*domain.SourceLink
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[domain.ConversationID]*domain.Conversation),
		messages:      make(map[domain.ConversationID][]*domain.Message),
		links:         make(map[domain.SourceID]*domain.SourceLink),
	}
}

// ─────────────────────────────────────────────
// ConversationStore
// ─────────────────────────────────────────────

// CreateConversation inserts the conversation. An existing id is left
// untouched and reported as success.
func (s *Store) CreateConversation(_ context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conv.ID]; ok {
		return nil
	}
	cp := *conv
	s.conversations[conv.ID] = &cp
	return nil
}

func (s *Store) GetConversation(_ context.Context, id domain.ConversationID, userID domain.UserID) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok || conv.UserID != userID {
		return nil, domain.ErrConversationNotFound
	}
	cp := *conv
	return &cp, nil
}

// ListConversations returns the user's conversations, most recently
// updated first.
func (s *Store) ListConversations(_ context.Context, userID domain.UserID) ([]*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Conversation, 0)
	for _, conv := range s.conversations {
		if conv.UserID != userID {
			continue
		}
		cp := *conv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) RenameConversation(_ context.Context, id domain.ConversationID, userID domain.UserID, title string, at time.Time) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || conv.UserID != userID {
		return nil, domain.ErrConversationNotFound
	}
	conv.Title = title
	conv.UpdatedAt = at
	cp := *conv
	return &cp, nil
}

func (s *Store) TouchConversation(_ context.Context, id domain.ConversationID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return domain.ErrConversationNotFound
	}
	conv.UpdatedAt = at
	return nil
}

func (s *Store) DeleteConversation(_ context.Context, id domain.ConversationID, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || conv.UserID != userID {
		return domain.ErrConversationNotFound
	}
	delete(s.conversations, id)
	delete(s.messages, id)
	return nil
}

// ─────────────────────────────────────────────
// MessageStore
// ─────────────────────────────────────────────

func (s *Store) AppendMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *msg
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], &cp)
	return nil
}

func (s *Store) ListMessages(_ context.Context, id domain.ConversationID) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.messages[id]
	out := make([]*domain.Message, 0, len(rows))
	for _, row := range rows {
		cp := *row
		out = append(out, &cp)
	}
	// Append order already tracks creation order; the stable sort only
	// reorders rows inserted out of timestamp order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) ListUserMessages(ctx context.Context, id domain.ConversationID, limit int) ([]*domain.Message, error) {
	all, err := s.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Message, 0, limit)
	for _, row := range all {
		if row.Role != domain.RoleUser {
			continue
		}
		out = append(out, row)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) LatestAssistantMessage(ctx context.Context, id domain.ConversationID) (*domain.Message, error) {
	all, err := s.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Role == domain.RoleAssistant {
			return all[i], nil
		}
	}
	return nil, domain.ErrMessageNotFound
}

func (s *Store) UpdateMessageParts(_ context.Context, conversationID domain.ConversationID, id domain.MessageID, parts []domain.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.messages[conversationID] {
		if row.ID == id {
			row.Parts = append([]domain.Part(nil), parts...)
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

// ─────────────────────────────────────────────
// SourceLinkStore
// ─────────────────────────────────────────────

// SeedSourceLink registers a knowledge-base link for resolution. Local
// mode loads these from configuration at startup.
func (s *Store) SeedSourceLink(link *domain.SourceLink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *link
	s.links[link.ID] = &cp
}

// ResolveSourceLinks returns the links for the given ids in input order.
// Unknown ids are skipped, not errors.
func (s *Store) ResolveSourceLinks(_ context.Context, ids []domain.SourceID) ([]*domain.SourceLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.SourceLink, 0, len(ids))
	for _, id := range ids {
		if link, ok := s.links[id]; ok {
			cp := *link
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Package sqlite implements the storage ports on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// Store implements domain.ConversationStore, domain.MessageStore and
// domain.SourceLinkStore.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and ensures the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			resource_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT NOT NULL,
			conversation_id TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			parts TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			format_version INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (conversation_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation
			ON messages (conversation_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS context_links (
			id TEXT PRIMARY KEY,
			context_name TEXT NOT NULL,
			link TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, errors.Wrap(err, "creating schema")
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ─────────────────────────────────────────────
// ConversationStore
// ─────────────────────────────────────────────

// CreateConversation inserts the row. An already existing id is left
// untouched and reported as success so concurrent first turns cannot fail
// each other.
func (s *Store) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	metadata, err := json.Marshal(orEmpty(conv.Metadata))
	if err != nil {
		return errors.Wrap(err, "marshaling metadata")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO conversations (id, user_id, resource_id, title, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, conv.ID, conv.UserID, conv.ResourceID, conv.Title, string(metadata),
		conv.CreatedAt.UnixMicro(), conv.UpdatedAt.UnixMicro())
	return errors.Wrap(err, "inserting conversation")
}

func (s *Store) GetConversation(ctx context.Context, id domain.ConversationID, userID domain.UserID) (*domain.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, resource_id, title, metadata, created_at, updated_at
		FROM conversations
		WHERE id = ? AND user_id = ?
	`, id, userID)

	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrConversationNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading conversation")
	}
	return conv, nil
}

func (s *Store) ListConversations(ctx context.Context, userID domain.UserID) ([]*domain.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, resource_id, title, metadata, created_at, updated_at
		FROM conversations
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing conversations")
	}
	defer rows.Close()

	out := make([]*domain.Conversation, 0)
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning conversation")
		}
		out = append(out, conv)
	}
	return out, errors.Wrap(rows.Err(), "iterating conversations")
}

func (s *Store) RenameConversation(ctx context.Context, id domain.ConversationID, userID domain.UserID, title string, at time.Time) (*domain.Conversation, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE conversations SET title = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, title, at.UnixMicro(), id, userID)
	if err != nil {
		return nil, errors.Wrap(err, "renaming conversation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrConversationNotFound
	}
	return s.GetConversation(ctx, id, userID)
}

func (s *Store) TouchConversation(ctx context.Context, id domain.ConversationID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE conversations SET updated_at = ? WHERE id = ?
	`, at.UnixMicro(), id)
	if err != nil {
		return errors.Wrap(err, "touching conversation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

// DeleteConversation removes the conversation and its messages in one
// transaction.
func (s *Store) DeleteConversation(ctx context.Context, id domain.ConversationID, userID domain.UserID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM conversations WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting conversation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConversationNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return errors.Wrap(err, "deleting messages")
	}

	return errors.Wrap(tx.Commit(), "committing delete")
}

// ─────────────────────────────────────────────
// MessageStore
// ─────────────────────────────────────────────

func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	parts, err := json.Marshal(msg.Parts)
	if err != nil {
		return errors.Wrap(err, "marshaling parts")
	}
	metadata, err := json.Marshal(orEmpty(msg.Metadata))
	if err != nil {
		return errors.Wrap(err, "marshaling metadata")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, user_id, role, parts, metadata, format_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, msg.UserID, msg.Role, string(parts), string(metadata),
		msg.FormatVersion, msg.CreatedAt.UnixMicro())
	return errors.Wrap(err, "inserting message")
}

func (s *Store) ListMessages(ctx context.Context, id domain.ConversationID) ([]*domain.Message, error) {
	return s.queryMessages(ctx, `
		SELECT id, conversation_id, user_id, role, parts, metadata, format_version, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
	`, id)
}

func (s *Store) ListUserMessages(ctx context.Context, id domain.ConversationID, limit int) ([]*domain.Message, error) {
	return s.queryMessages(ctx, `
		SELECT id, conversation_id, user_id, role, parts, metadata, format_version, created_at
		FROM messages
		WHERE conversation_id = ? AND role = 'user'
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`, id, limit)
}

func (s *Store) LatestAssistantMessage(ctx context.Context, id domain.ConversationID) (*domain.Message, error) {
	msgs, err := s.queryMessages(ctx, `
		SELECT id, conversation_id, user_id, role, parts, metadata, format_version, created_at
		FROM messages
		WHERE conversation_id = ? AND role = 'assistant'
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, id)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, domain.ErrMessageNotFound
	}
	return msgs[0], nil
}

func (s *Store) UpdateMessageParts(ctx context.Context, conversationID domain.ConversationID, id domain.MessageID, parts []domain.Part) error {
	encoded, err := json.Marshal(parts)
	if err != nil {
		return errors.Wrap(err, "marshaling parts")
	}

	// Message ids are millisecond+role granular, so the update must be
	// scoped to the conversation to never touch a sibling row elsewhere.
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET parts = ? WHERE conversation_id = ? AND id = ?
	`, string(encoded), conversationID, id)
	if err != nil {
		return errors.Wrap(err, "updating message parts")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// ─────────────────────────────────────────────
// SourceLinkStore
// ─────────────────────────────────────────────

// UpsertSourceLink registers a knowledge-base link for resolution.
func (s *Store) UpsertSourceLink(ctx context.Context, link *domain.SourceLink) error {
	_, err := s.db.ExecContext(ctx, `
		REPLACE INTO context_links (id, context_name, link) VALUES (?, ?, ?)
	`, link.ID, link.ContextName, link.Link)
	return errors.Wrap(err, "upserting source link")
}

// ResolveSourceLinks returns the links for the given ids in input order.
// Unknown ids are skipped.
func (s *Store) ResolveSourceLinks(ctx context.Context, ids []domain.SourceID) ([]*domain.SourceLink, error) {
	out := make([]*domain.SourceLink, 0, len(ids))
	for _, id := range ids {
		link := &domain.SourceLink{}
		err := s.db.QueryRowContext(ctx, `
			SELECT id, context_name, link FROM context_links WHERE id = ?
		`, id).Scan(&link.ID, &link.ContextName, &link.Link)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "resolving source link")
		}
		out = append(out, link)
	}
	return out, nil
}

// ─────────────────────────────────────────────
// scanning helpers
// ─────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*domain.Conversation, error) {
	var (
		conv                 domain.Conversation
		metadata             string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.ResourceID, &conv.Title, &metadata, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(metadata), &conv.Metadata); err != nil {
		return nil, errors.Wrap(err, "unmarshaling metadata")
	}
	conv.CreatedAt = time.UnixMicro(createdAt).UTC()
	conv.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return &conv, nil
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...any) ([]*domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	defer rows.Close()

	out := make([]*domain.Message, 0)
	for rows.Next() {
		var (
			msg             domain.Message
			parts, metadata string
			createdAt       int64
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.UserID, &msg.Role, &parts, &metadata, &msg.FormatVersion, &createdAt); err != nil {
			return nil, errors.Wrap(err, "scanning message")
		}
		if err := json.Unmarshal([]byte(parts), &msg.Parts); err != nil {
			return nil, errors.Wrap(err, "unmarshaling parts")
		}
		if err := json.Unmarshal([]byte(metadata), &msg.Metadata); err != nil {
			return nil, errors.Wrap(err, "unmarshaling metadata")
		}
		msg.CreatedAt = time.UnixMicro(createdAt).UTC()
		out = append(out, &msg)
	}
	return out, errors.Wrap(rows.Err(), "iterating messages")
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

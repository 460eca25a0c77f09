package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "eden.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testConversation(id domain.ConversationID, at time.Time) *domain.Conversation {
	return &domain.Conversation{
		ID:         id,
		UserID:     "user-1",
		ResourceID: "dental-mentor-ai",
		Title:      "Chat with Eden",
		Metadata:   map[string]string{"agentMode": "regular"},
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

func TestConversationRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 15, 4, 5, 0, time.UTC)

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv_1", at)))

	got, err := store.GetConversation(ctx, "conv_1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Chat with Eden", got.Title)
	assert.Equal(t, "regular", got.Metadata["agentMode"])
	assert.True(t, got.CreatedAt.Equal(at))

	_, err = store.GetConversation(ctx, "conv_1", "someone-else")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestCreateConversationDuplicateIsSuccess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Now().UTC()

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv_1", at)))

	dup := testConversation("conv_1", at.Add(time.Hour))
	dup.Title = "Different title"
	require.NoError(t, store.CreateConversation(ctx, dup))

	got, err := store.GetConversation(ctx, "conv_1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Chat with Eden", got.Title, "first write wins")
}

func TestListConversationsOrderedByUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv_old", base.Add(-time.Hour))))
	require.NoError(t, store.CreateConversation(ctx, testConversation("conv_new", base)))
	require.NoError(t, store.TouchConversation(ctx, "conv_old", base.Add(time.Minute)))

	got, err := store.ListConversations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ConversationID("conv_old"), got[0].ID)
	assert.Equal(t, domain.ConversationID("conv_new"), got[1].ID)
}

func TestRenameConversation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Now().UTC()

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv_1", at)))

	got, err := store.RenameConversation(ctx, "conv_1", "user-1", "DAT Prep", at.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "DAT Prep", got.Title)

	_, err = store.RenameConversation(ctx, "conv_1", "someone-else", "hijacked", at)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestDeleteConversationCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Now().UTC()

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv_1", at)))
	require.NoError(t, store.AppendMessage(ctx, &domain.Message{
		ID: "msg_1_user", ConversationID: "conv_1", UserID: "user-1",
		Role: domain.RoleUser, Parts: domain.TextParts("hello"),
		FormatVersion: 2, CreatedAt: at,
	}))

	require.NoError(t, store.DeleteConversation(ctx, "conv_1", "user-1"))

	_, err := store.GetConversation(ctx, "conv_1", "user-1")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	msgs, err := store.ListMessages(ctx, "conv_1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessagesOrderedAndFiltered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	add := func(id string, role domain.Role, text string, at time.Time) {
		require.NoError(t, store.AppendMessage(ctx, &domain.Message{
			ID: domain.MessageID(id), ConversationID: "conv_1", UserID: "user-1",
			Role: role, Parts: domain.TextParts(text),
			Metadata: map[string]string{}, FormatVersion: 2, CreatedAt: at,
		}))
	}
	add("msg_1_user", domain.RoleUser, "first question", base)
	add("msg_2_assistant", domain.RoleAssistant, "first answer", base.Add(time.Millisecond))
	add("msg_3_user", domain.RoleUser, "second question", base.Add(2*time.Millisecond))
	add("msg_4_assistant", domain.RoleAssistant, "second answer", base.Add(3*time.Millisecond))

	all, err := store.ListMessages(ctx, "conv_1")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "first question", all[0].Text())
	assert.Equal(t, "second answer", all[3].Text())
	assert.Equal(t, 2, all[0].FormatVersion)

	users, err := store.ListUserMessages(ctx, "conv_1", 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "first question", users[0].Text())

	latest, err := store.LatestAssistantMessage(ctx, "conv_1")
	require.NoError(t, err)
	assert.Equal(t, "second answer", latest.Text())
}

func TestLatestAssistantMessageMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LatestAssistantMessage(context.Background(), "conv_none")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestUpdateMessageParts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendMessage(ctx, &domain.Message{
		ID: "msg_1_assistant", ConversationID: "conv_1", Role: domain.RoleAssistant,
		Parts: domain.TextParts("bare answer"), FormatVersion: 2, CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, store.UpdateMessageParts(ctx, "conv_1", "msg_1_assistant", domain.TextParts("patched answer")))

	latest, err := store.LatestAssistantMessage(ctx, "conv_1")
	require.NoError(t, err)
	assert.Equal(t, "patched answer", latest.Text())

	err = store.UpdateMessageParts(ctx, "conv_1", "msg_missing", domain.TextParts("x"))
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

// Two conversations persisting in the same millisecond share a message
// id; the update must only touch the addressed conversation's row.
func TestUpdateMessagePartsScopedToConversation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Now().UTC()

	for _, convID := range []domain.ConversationID{"conv_a", "conv_b"} {
		require.NoError(t, store.AppendMessage(ctx, &domain.Message{
			ID: "msg_1_assistant", ConversationID: convID, Role: domain.RoleAssistant,
			Parts: domain.TextParts("original"), FormatVersion: 2, CreatedAt: at,
		}))
	}

	require.NoError(t, store.UpdateMessageParts(ctx, "conv_a", "msg_1_assistant", domain.TextParts("patched")))

	patched, err := store.LatestAssistantMessage(ctx, "conv_a")
	require.NoError(t, err)
	assert.Equal(t, "patched", patched.Text())

	untouched, err := store.LatestAssistantMessage(ctx, "conv_b")
	require.NoError(t, err)
	assert.Equal(t, "original", untouched.Text())

	err = store.UpdateMessageParts(ctx, "conv_b", "msg_missing", domain.TextParts("x"))
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestResolveSourceLinksKeepsInputOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertSourceLink(ctx, &domain.SourceLink{ID: "ctx-1", ContextName: "ADEA Guide", Link: "https://example.com/adea"}))
	require.NoError(t, store.UpsertSourceLink(ctx, &domain.SourceLink{ID: "ctx-2", ContextName: "DAT Handbook", Link: "https://example.com/dat"}))

	got, err := store.ResolveSourceLinks(ctx, []domain.SourceID{"ctx-2", "ctx-missing", "ctx-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "DAT Handbook", got[0].ContextName)
	assert.Equal(t, "ADEA Guide", got[1].ContextName)
}

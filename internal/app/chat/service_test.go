package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalschoolguide/eden-agent/internal/adapters/storage/memory"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

func TestCreateConversationDefaultsTitle(t *testing.T) {
	svc := newTestService(&fakeRuntime{}, memory.NewStore())

	conv, err := svc.CreateConversation(context.Background(), "user-1", "  ")
	require.NoError(t, err)

	assert.Equal(t, "New Chat 3:04 PM", conv.Title)
	assert.True(t, strings.HasPrefix(string(conv.ID), "conv_"))
	assert.Equal(t, "dental-mentor-ai", conv.ResourceID)
}

func TestCreateConversationKeepsExplicitTitle(t *testing.T) {
	svc := newTestService(&fakeRuntime{}, memory.NewStore())

	conv, err := svc.CreateConversation(context.Background(), "user-1", "UCSF research")
	require.NoError(t, err)

	assert.Equal(t, "UCSF research", conv.Title)
}

func TestRenameConversationRejectsEmptyTitle(t *testing.T) {
	svc := newTestService(&fakeRuntime{}, memory.NewStore())

	_, err := svc.RenameConversation(context.Background(), "conv_1", "user-1", "   ")
	assert.Error(t, err)
}

func TestGetConversationWithMessagesOwnership(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(&fakeRuntime{}, store)

	conv, err := svc.CreateConversation(context.Background(), "user-1", "mine")
	require.NoError(t, err)

	_, _, err = svc.GetConversationWithMessages(context.Background(), conv.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestDeleteConversationCascades(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(&fakeRuntime{}, store)

	conv, err := svc.CreateConversation(context.Background(), "user-1", "doomed")
	require.NoError(t, err)
	seedMessage(t, store, conv.ID, domain.RoleUser, "hello", testNow)

	require.NoError(t, svc.DeleteConversation(context.Background(), conv.ID, "user-1"))

	_, err = store.GetConversation(context.Background(), conv.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	msgs, err := store.ListMessages(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestGenerateTitleTrimsQuotesAndRenames(t *testing.T) {
	store := memory.NewStore()
	rt := &fakeRuntime{titleText: `"DAT Prep Strategy"` + "\n"}
	svc := newTestService(rt, store)

	conv, err := svc.CreateConversation(context.Background(), "user-1", "New Chat 3:04 PM")
	require.NoError(t, err)
	seedMessage(t, store, conv.ID, domain.RoleUser, "how should I study for the DAT?", testNow)
	seedMessage(t, store, conv.ID, domain.RoleAssistant, "Start with a diagnostic.", testNow.Add(time.Second))

	title, err := svc.GenerateTitle(context.Background(), conv.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "DAT Prep Strategy", title)

	got, err := store.GetConversation(context.Background(), conv.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "DAT Prep Strategy", got.Title)
}

func TestGenerateTitleWithoutMessagesFails(t *testing.T) {
	svc := newTestService(&fakeRuntime{titleText: "whatever"}, memory.NewStore())

	conv, err := svc.CreateConversation(context.Background(), "user-1", "empty")
	require.NoError(t, err)

	_, err = svc.GenerateTitle(context.Background(), conv.ID, "user-1")
	assert.Error(t, err)
}

func TestNewConversationIDFormat(t *testing.T) {
	id := string(NewConversationID(testNow))

	parts := strings.SplitN(id, "_", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "conv", parts[0])
	assert.Equal(t, "1748790245000", parts[1])
	assert.Len(t, parts[2], 8)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
)

func newMessageFixture(t *testing.T) (MessageService, *model.User, *model.User, *model.User) {
	t.Helper()
	userRepo := newFakeUserRepo()
	svc := NewMessageService(newFakeMessageRepo(), userRepo)

	alice := &model.User{Name: "Alice", Email: "alice@example.com"}
	bob := &model.User{Name: "Bob", Email: "bob@example.com"}
	carol := &model.User{Name: "Carol", Email: "carol@example.com"}
	require.NoError(t, userRepo.CreateUser(alice))
	require.NoError(t, userRepo.CreateUser(bob))
	require.NoError(t, userRepo.CreateUser(carol))
	return svc, alice, bob, carol
}

func TestSendMessage(t *testing.T) {
	svc, alice, bob, _ := newMessageFixture(t)

	msg, err := svc.SendMessage(alice.ID, bob.ID, "hello")
	require.NoError(t, err)
	assert.False(t, msg.Read)
	assert.Equal(t, "hello", msg.Content)

	_, err = svc.SendMessage(alice.ID, bob.ID, "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.SendMessage(alice.ID, alice.ID, "hi me")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.SendMessage(alice.ID, 999, "hi")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetConversationIsScopedToPair(t *testing.T) {
	svc, alice, bob, carol := newMessageFixture(t)

	_, err := svc.SendMessage(alice.ID, bob.ID, "to bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, alice.ID, "to alice")
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, carol.ID, "to carol")
	require.NoError(t, err)

	thread, err := svc.GetConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "to bob", thread[0].Content)
	assert.Equal(t, "to alice", thread[1].Content)
}

func TestGetConversationsSummaries(t *testing.T) {
	svc, alice, bob, carol := newMessageFixture(t)

	_, err := svc.SendMessage(bob.ID, alice.ID, "first from bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, alice.ID, "second from bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, carol.ID, "hi carol")
	require.NoError(t, err)

	conversations, err := svc.GetConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// Ordered by most recent activity.
	assert.Equal(t, carol.ID, conversations[0].OtherUserID)
	assert.Equal(t, 0, conversations[0].UnreadCount)

	assert.Equal(t, bob.ID, conversations[1].OtherUserID)
	assert.Equal(t, "second from bob", conversations[1].LastMessage.Content)
	assert.Equal(t, 2, conversations[1].UnreadCount)
}

func TestUnreadCountAndMarkAsRead(t *testing.T) {
	svc, alice, bob, carol := newMessageFixture(t)

	_, err := svc.SendMessage(bob.ID, alice.ID, "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, alice.ID, "two")
	require.NoError(t, err)
	_, err = svc.SendMessage(carol.ID, alice.ID, "three")
	require.NoError(t, err)

	count, err := svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// Reading bob's thread leaves carol's untouched.
	require.NoError(t, svc.MarkAsRead(alice.ID, bob.ID))

	count, err = svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

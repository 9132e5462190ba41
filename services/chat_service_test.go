package services

import (
	"context"
	"errors"
	"testing"

	"preggy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReplier struct {
	answer string
	err    error
	calls  int
}

func (s *stubReplier) Reply(_ context.Context, _ *int, _ []models.ChatMessage, _ string) (string, error) {
	s.calls++
	return s.answer, s.err
}

func newChatFixture(t *testing.T, rep assistantReplier) (*ChatService, *models.User, *models.Conversation) {
	t.Helper()
	db := newTestDB(t)
	svc := &ChatService{db: db, gem: rep}

	user := onboardedUser(t, db, "mom@example.com", 140) // week 21
	conv := models.Conversation{UserID: user.ID, Title: "food questions"}
	require.NoError(t, db.Create(&conv).Error)
	return svc, user, &conv
}

func TestSendMessageStoresBothSides(t *testing.T) {
	rep := &stubReplier{answer: "Pasteurized cheese is safe."}
	svc, user, conv := newChatFixture(t, rep)

	reply, err := svc.SendMessage(context.Background(), user, conv.ID, "can I eat brie?")
	require.NoError(t, err)
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "Pasteurized cheese is safe.", reply.Content)
	require.NotNil(t, reply.WeekAtSend)
	assert.Equal(t, 21, *reply.WeekAtSend)

	var msgs []models.ChatMessage
	require.NoError(t, svc.db.Where("conversation_id = ?", conv.ID).Order("created_at ASC").Find(&msgs).Error)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "can I eat brie?", msgs[0].Content)
}

// A failed model call must leave no trace, so the client can retry without
// the user message showing up twice.
func TestSendMessageFailureStoresNothing(t *testing.T) {
	rep := &stubReplier{err: errors.New("model unavailable")}
	svc, user, conv := newChatFixture(t, rep)

	_, err := svc.SendMessage(context.Background(), user, conv.ID, "can I eat brie?")
	require.Error(t, err)

	var count int64
	require.NoError(t, svc.db.Model(&models.ChatMessage{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// retry after the outage: exactly one copy of the question is stored
	rep.err = nil
	rep.answer = "Pasteurized cheese is safe."
	_, err = svc.SendMessage(context.Background(), user, conv.ID, "can I eat brie?")
	require.NoError(t, err)

	require.NoError(t, svc.db.Model(&models.ChatMessage{}).
		Where("role = ?", "user").Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 2, rep.calls)
}

func TestSendMessageChecksOwnership(t *testing.T) {
	rep := &stubReplier{answer: "hello"}
	svc, _, conv := newChatFixture(t, rep)

	other := models.User{UserID: "other@example.com", Email: "other@example.com", Password: "x"}
	require.NoError(t, svc.db.Create(&other).Error)

	_, err := svc.SendMessage(context.Background(), &other, conv.ID, "hi")
	require.Error(t, err)
	assert.Equal(t, 0, rep.calls)
}

func TestSendMessageWithoutAssistant(t *testing.T) {
	db := newTestDB(t)
	svc := &ChatService{db: db} // gem never configured

	user := models.User{Email: "mom@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	conv := models.Conversation{UserID: user.ID}
	require.NoError(t, db.Create(&conv).Error)

	_, err := svc.SendMessage(context.Background(), &user, conv.ID, "hi")
	require.Error(t, err)
}

func TestListMessagesChecksOwnership(t *testing.T) {
	rep := &stubReplier{}
	svc, user, conv := newChatFixture(t, rep)

	_, err := svc.ListMessages(user.ID+1, conv.ID)
	assert.Error(t, err)

	msgs, err := svc.ListMessages(user.ID, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

var _ assistantReplier = (*GeminiService)(nil)

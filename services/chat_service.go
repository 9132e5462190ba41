package services

import (
	"context"
	"errors"
	"time"

	"preggy/config"
	"preggy/models"
	"preggy/utils"

	"gorm.io/gorm"
)

// ChatService persists assistant conversations and produces replies through
// Gemini. Replies are also pushed over the realtime hub so other open
// screens update without polling.
type ChatService struct {
	db  *gorm.DB
	gem assistantReplier
	hub *RealtimeHub
}

// assistantReplier is the slice of GeminiService the chat needs.
type assistantReplier interface {
	Reply(ctx context.Context, week *int, history []models.ChatMessage, userMsg string) (string, error)
}

func NewChatService(gem *GeminiService, hub *RealtimeHub) *ChatService {
	s := &ChatService{db: config.DB, hub: hub}
	if gem != nil {
		s.gem = gem
	}
	return s
}

func (s *ChatService) CreateConversation(userID uint, title string) (*models.Conversation, error) {
	if title == "" {
		title = "New conversation"
	}
	conv := models.Conversation{UserID: userID, Title: title}
	if err := s.db.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *ChatService) ListConversations(userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&convs).Error
	return convs, err
}

func (s *ChatService) ListMessages(userID, convID uint) ([]models.ChatMessage, error) {
	if _, err := s.ownedConversation(userID, convID); err != nil {
		return nil, err
	}
	var msgs []models.ChatMessage
	err := s.db.Where("conversation_id = ?", convID).Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}

// SendMessage stores the user message, asks Gemini for a stage-aware answer
// and stores that too. The user's week is re-derived from the due date at
// send time, never read from the stored column.
func (s *ChatService) SendMessage(ctx context.Context, user *models.User, convID uint, text string) (*models.ChatMessage, error) {
	if text == "" {
		return nil, errors.New("message text is required")
	}
	if s.gem == nil {
		return nil, errors.New("assistant is not configured")
	}
	if _, err := s.ownedConversation(user.ID, convID); err != nil {
		return nil, err
	}

	var week *int
	if user.DueDate != nil {
		if w, _, ok := utils.StageFromDueDate(*user.DueDate, time.Now()); ok {
			week = &w
		}
	}

	// history before this message; the new text goes in separately
	var history []models.ChatMessage
	if err := s.db.Where("conversation_id = ?", convID).
		Order("created_at DESC").Limit(20).Find(&history).Error; err != nil {
		return nil, err
	}
	// reverse to chronological order
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	answer, err := s.gem.Reply(ctx, week, history, text)
	if err != nil {
		return nil, err
	}

	// Both sides are stored only once a reply exists, in one transaction:
	// a client retry after a failed request cannot double-store the
	// user message.
	userMsg := models.ChatMessage{
		ConversationID: convID,
		Role:           "user",
		Content:        text,
		WeekAtSend:     week,
	}
	reply := models.ChatMessage{
		ConversationID: convID,
		Role:           "assistant",
		Content:        answer,
		WeekAtSend:     week,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&userMsg).Error; err != nil {
			return err
		}
		return tx.Create(&reply).Error
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(user.ID, "chat", reply)
	}
	return &reply, nil
}

func (s *ChatService) ownedConversation(userID, convID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.Where("id = ? AND user_id = ?", convID, userID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("conversation not found")
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

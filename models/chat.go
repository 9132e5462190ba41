package models

import (
	"gorm.io/gorm"
)

// One assistant conversation thread
type Conversation struct {
	gorm.Model
	UserID   uint   `gorm:"index"`
	Title    string `gorm:"size:128"`
	Messages []ChatMessage
}

// ChatMessage stores both sides of the exchange; Role is "user" or "assistant".
type ChatMessage struct {
	gorm.Model
	ConversationID uint   `gorm:"index"`
	Role           string `gorm:"size:16;not null"`
	Content        string `gorm:"type:text"`
	// Pregnancy week at send time, so old answers keep their context
	WeekAtSend *int
}

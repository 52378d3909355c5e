package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation_sender" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation_sender" json:"user_id"`
	Content        *string   `gorm:"type:text" json:"content"`
	Attachment     *string   `gorm:"size:512" json:"attachment"`

	Sender       User         `gorm:"foreignkey:SenderID" json:"-"`
	Conversation Conversation `gorm:"foreignkey:ConversationID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

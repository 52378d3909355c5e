package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConversationTypeOneToOne = "one-to-one"
	ConversationTypeGroup    = "group"
)

type Conversation struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Type string    `gorm:"size:20;not null" json:"type"`
	Name *string   `gorm:"size:255" json:"name,omitempty"`

	// Canonicalized "smaller-uuid:larger-uuid" of the two members for
	// one-to-one conversations, NULL for groups. The unique index is what
	// keeps concurrent resolve-or-create calls from racing a duplicate in.
	PairKey *string `gorm:"size:80;uniqueIndex" json:"-"`

	Members  []*User   `gorm:"many2many:conversation_members;" json:"members,omitempty"`
	Messages []Message `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Conversation) IsGroup() bool {
	return c.Type == ConversationTypeGroup
}

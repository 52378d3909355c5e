package services

import (
	"github.com/akinyi-dev/chat_backend/models"
	"github.com/google/uuid"
)

// ChatStore is the persistence boundary of the chat service. Implementations
// must make CreateConversation atomic (conversation row plus membership rows
// commit or roll back as a unit) and must enforce uniqueness of the
// conversation pair key, reporting collisions as ErrDuplicatePair.
type ChatStore interface {
	FindUsers(ids []uuid.UUID) ([]*models.User, error)
	ConversationByPairKey(key string) (*models.Conversation, error)
	CreateConversation(conv *models.Conversation, members []*models.User) error
	ConversationByID(id uuid.UUID) (*models.Conversation, error)
	ConversationsForUser(userID uuid.UUID) ([]models.Conversation, error)
	AddMembers(convID uuid.UUID, members []*models.User) error
	RemoveMember(convID, userID uuid.UUID) error
	MemberIDs(convID uuid.UUID) ([]uuid.UUID, error)
	CreateMessage(msg *models.Message) error
	MessagesAscending(convID uuid.UUID) ([]models.Message, error)
}

// Broadcaster receives a commit-then-publish notification for every new
// message. Recipients already exclude the author. Implementations must not
// block and must not return errors; delivery is best effort.
type Broadcaster interface {
	MessageCreated(msg *models.Message, recipients []uuid.UUID)
}

package services

import (
	"errors"
	"fmt"

	"github.com/akinyi-dev/chat_backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore is the Postgres-backed ChatStore. The pair_key unique index on
// conversations is what turns the one-to-one check-then-act race into an
// ErrDuplicatePair the service can recover from.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindUsers(ids []uuid.UUID) ([]*models.User, error) {
	var users []*models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) ConversationByPairKey(key string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.Preload("Members").Where("pair_key = ?", key).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *GormStore) CreateConversation(conv *models.Conversation, members []*models.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePair
			}
			return err
		}
		return tx.Model(conv).Association("Members").Append(members)
	})
}

func (s *GormStore) ConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.Preload("Members").Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: conversation does not exist", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *GormStore) ConversationsForUser(userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.db.
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id AND cm.user_id = ?", userID).
		Preload("Members").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (s *GormStore) AddMembers(convID uuid.UUID, members []*models.User) error {
	conv := models.Conversation{ID: convID}
	// Association writes join rows with ON CONFLICT DO NOTHING, so existing
	// members are left untouched.
	return s.db.Model(&conv).Association("Members").Append(members)
}

func (s *GormStore) RemoveMember(convID, userID uuid.UUID) error {
	conv := models.Conversation{ID: convID}
	return s.db.Model(&conv).Association("Members").Delete(&models.User{ID: userID})
}

func (s *GormStore) MemberIDs(convID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.
		Table("conversation_members").
		Where("conversation_id = ?", convID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormStore) CreateMessage(msg *models.Message) error {
	return s.db.Create(msg).Error
}

func (s *GormStore) MessagesAscending(convID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.
		Where("conversation_id = ?", convID).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

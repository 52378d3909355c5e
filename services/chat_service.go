package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/akinyi-dev/chat_backend/models"
	"github.com/google/uuid"
)

// ChatService resolves conversation identity and owns all membership and
// message mutations. Every operation takes the acting user explicitly; there
// is no ambient request state at this layer.
type ChatService struct {
	store       ChatStore
	broadcaster Broadcaster
}

func NewChatService(store ChatStore, broadcaster Broadcaster) *ChatService {
	return &ChatService{store: store, broadcaster: broadcaster}
}

// PairKey canonicalizes an unordered user pair to "smaller:larger" so that
// (A,B) and (B,A) share one lookup and uniqueness key.
func PairKey(userA, userB uuid.UUID) string {
	a, b := userA.String(), userB.String()
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// ResolveOrCreateOneToOne returns the one-to-one conversation whose
// membership set is exactly {userA, userB}, creating it atomically when
// absent. Concurrent first calls for the same pair converge on one row: the
// loser of the pair-key unique constraint re-fetches the winner.
func (s *ChatService) ResolveOrCreateOneToOne(userA, userB uuid.UUID) (*models.Conversation, error) {
	if userA == uuid.Nil || userB == uuid.Nil {
		return nil, fmt.Errorf("%w: both user ids are required", ErrInvalidInput)
	}
	if userA == userB {
		return nil, fmt.Errorf("%w: cannot open a one-to-one conversation with yourself", ErrInvalidInput)
	}

	users, err := s.store.FindUsers([]uuid.UUID{userA, userB})
	if err != nil {
		return nil, err
	}
	if len(users) != 2 {
		return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
	}

	key := PairKey(userA, userB)
	if conv, err := s.store.ConversationByPairKey(key); err != nil {
		return nil, err
	} else if conv != nil {
		return conv, nil
	}

	conv := &models.Conversation{
		Type:    models.ConversationTypeOneToOne,
		PairKey: &key,
	}
	err = s.store.CreateConversation(conv, users)
	if errors.Is(err, ErrDuplicatePair) {
		// Lost the race; the winner's row is committed by now.
		existing, ferr := s.store.ConversationByPairKey(key)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, err
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// CreateGroup always creates a fresh conversation; groups are never
// deduplicated against existing ones. Duplicate member ids collapse.
func (s *ChatService) CreateGroup(name string, memberIDs []uuid.UUID) (*models.Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	ids := dedupe(memberIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one member id is required", ErrInvalidInput)
	}

	users, err := s.store.FindUsers(ids)
	if err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
	}

	conv := &models.Conversation{
		Type: models.ConversationTypeGroup,
		Name: &name,
	}
	if err := s.store.CreateConversation(conv, users); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) ListConversationsFor(userID uuid.UUID) ([]models.Conversation, error) {
	users, err := s.store.FindUsers([]uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
	}
	return s.store.ConversationsForUser(userID)
}

func (s *ChatService) GetConversation(conversationID uuid.UUID) (*models.Conversation, error) {
	return s.store.ConversationByID(conversationID)
}

// Leave detaches the membership pair if present. A second leave for the same
// user is a no-op, and the conversation record survives even when membership
// drops below two or to zero.
func (s *ChatService) Leave(conversationID, userID uuid.UUID) error {
	if _, err := s.store.ConversationByID(conversationID); err != nil {
		return err
	}
	return s.store.RemoveMember(conversationID, userID)
}

// AddMembers attaches each given user to a group conversation, skipping ids
// that are already members. One-to-one conversations are structurally closed.
// Returns the size of the membership set after the call.
func (s *ChatService) AddMembers(conversationID uuid.UUID, memberIDs []uuid.UUID) (int, error) {
	conv, err := s.store.ConversationByID(conversationID)
	if err != nil {
		return 0, err
	}
	if !conv.IsGroup() {
		return 0, fmt.Errorf("%w: cannot add members to a one-to-one conversation", ErrForbidden)
	}

	ids := dedupe(memberIDs)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: at least one member id is required", ErrInvalidInput)
	}
	users, err := s.store.FindUsers(ids)
	if err != nil {
		return 0, err
	}
	if len(users) != len(ids) {
		return 0, fmt.Errorf("%w: user does not exist", ErrNotFound)
	}

	if err := s.store.AddMembers(conversationID, users); err != nil {
		return 0, err
	}
	current, err := s.store.MemberIDs(conversationID)
	if err != nil {
		return 0, err
	}
	return len(current), nil
}

func (s *ChatService) ListMembers(conversationID uuid.UUID) ([]*models.User, error) {
	conv, err := s.store.ConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	return conv.Members, nil
}

// AppendMessage stores a message and then notifies the other current members
// over the broadcaster. The notification happens strictly after the commit
// and its failure never surfaces to the caller.
func (s *ChatService) AppendMessage(conversationID, authorID uuid.UUID, content, attachmentRef *string) (*models.Message, error) {
	if blank(content) && blank(attachmentRef) {
		return nil, fmt.Errorf("%w: message requires content or an attachment", ErrInvalidInput)
	}
	if _, err := s.store.ConversationByID(conversationID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       authorID,
		Content:        content,
		Attachment:     attachmentRef,
	}
	if err := s.store.CreateMessage(msg); err != nil {
		return nil, err
	}

	s.notifyOthers(msg)
	return msg, nil
}

func (s *ChatService) ListMessages(conversationID uuid.UUID) ([]models.Message, error) {
	if _, err := s.store.ConversationByID(conversationID); err != nil {
		return nil, err
	}
	return s.store.MessagesAscending(conversationID)
}

func (s *ChatService) notifyOthers(msg *models.Message) {
	if s.broadcaster == nil {
		return
	}
	memberIDs, err := s.store.MemberIDs(msg.ConversationID)
	if err != nil {
		log.Printf("Failed to resolve recipients for message %s: %v", msg.ID, err)
		return
	}
	recipients := make([]uuid.UUID, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != msg.SenderID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) > 0 {
		s.broadcaster.MessageCreated(msg, recipients)
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

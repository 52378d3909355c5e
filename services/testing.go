package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/akinyi-dev/chat_backend/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory ChatStore for tests. It enforces the same
// pair-key uniqueness contract as the Postgres store, under one mutex, so the
// service's race-recovery path can be exercised without a database.
type MemoryStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*models.User
	conversations map[uuid.UUID]*models.Conversation
	members       map[uuid.UUID]map[uuid.UUID]bool
	pairKeys      map[string]uuid.UUID
	messages      map[uuid.UUID][]models.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uuid.UUID]*models.User),
		conversations: make(map[uuid.UUID]*models.Conversation),
		members:       make(map[uuid.UUID]map[uuid.UUID]bool),
		pairKeys:      make(map[string]uuid.UUID),
		messages:      make(map[uuid.UUID][]models.Message),
	}
}

// AddUser seeds a user and returns its id.
func (m *MemoryStore) AddUser(fullName, email string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := &models.User{
		ID:        uuid.New(),
		FullName:  fullName,
		Email:     email,
		CreatedAt: time.Now(),
	}
	m.users[user.ID] = user
	return user.ID
}

func (m *MemoryStore) FindUsers(ids []uuid.UUID) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uuid.UUID]bool, len(ids))
	var users []*models.User
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := m.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *MemoryStore) ConversationByPairKey(key string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.pairKeys[key]
	if !ok {
		return nil, nil
	}
	return m.snapshot(id), nil
}

func (m *MemoryStore) CreateConversation(conv *models.Conversation, members []*models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv.PairKey != nil {
		if _, taken := m.pairKeys[*conv.PairKey]; taken {
			return ErrDuplicatePair
		}
	}
	if conv.ID == uuid.Nil {
		conv.ID = uuid.New()
	}
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt

	stored := *conv
	stored.Members = nil
	m.conversations[conv.ID] = &stored
	if conv.PairKey != nil {
		m.pairKeys[*conv.PairKey] = conv.ID
	}
	set := make(map[uuid.UUID]bool, len(members))
	for _, u := range members {
		set[u.ID] = true
	}
	m.members[conv.ID] = set
	return nil
}

func (m *MemoryStore) ConversationByID(id uuid.UUID) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; !ok {
		return nil, fmt.Errorf("%w: conversation does not exist", ErrNotFound)
	}
	return m.snapshot(id), nil
}

func (m *MemoryStore) ConversationsForUser(userID uuid.UUID) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Conversation
	for id, set := range m.members {
		if set[userID] {
			out = append(out, *m.snapshot(id))
		}
	}
	return out, nil
}

func (m *MemoryStore) AddMembers(convID uuid.UUID, members []*models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.members[convID]
	if !ok {
		return fmt.Errorf("%w: conversation does not exist", ErrNotFound)
	}
	for _, u := range members {
		set[u.ID] = true
	}
	return nil
}

func (m *MemoryStore) RemoveMember(convID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.members[convID]; ok {
		delete(set, userID)
	}
	return nil
}

func (m *MemoryStore) MemberIDs(convID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uuid.UUID
	for id := range m.members[convID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryStore) CreateMessage(msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[msg.ConversationID]; !ok {
		return fmt.Errorf("%w: conversation does not exist", ErrNotFound)
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.CreatedAt = time.Now()
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], *msg)
	return nil
}

func (m *MemoryStore) MessagesAscending(convID uuid.UUID) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Messages are appended in creation order already.
	out := make([]models.Message, len(m.messages[convID]))
	copy(out, m.messages[convID])
	return out, nil
}

// snapshot returns a copy of the conversation with its membership resolved.
// Callers must hold the lock.
func (m *MemoryStore) snapshot(id uuid.UUID) *models.Conversation {
	conv := *m.conversations[id]
	for memberID := range m.members[id] {
		if u, ok := m.users[memberID]; ok {
			conv.Members = append(conv.Members, u)
		}
	}
	return &conv
}

// BroadcastRecord is one captured MessageCreated notification.
type BroadcastRecord struct {
	Message    models.Message
	Recipients []uuid.UUID
}

// RecordingBroadcaster captures notifications for assertions.
type RecordingBroadcaster struct {
	mu      sync.Mutex
	records []BroadcastRecord
}

func NewRecordingBroadcaster() *RecordingBroadcaster {
	return &RecordingBroadcaster{}
}

func (r *RecordingBroadcaster) MessageCreated(msg *models.Message, recipients []uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, BroadcastRecord{Message: *msg, Recipients: recipients})
}

func (r *RecordingBroadcaster) Records() []BroadcastRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BroadcastRecord, len(r.records))
	copy(out, r.records)
	return out
}

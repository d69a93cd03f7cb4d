// Package session owns the in-memory collection of chats for one client run.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avocarbon/kbchat/internal/models"
)

// Store is the single mutable structure holding conversation state.
// All mutations go through its methods; callers never hold long-lived
// references into the chat map.
type Store struct {
	mu        sync.RWMutex
	chats     map[string]*models.Chat
	order     []string // chat IDs, newest first
	currentID string
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		chats: make(map[string]*models.Chat),
	}
}

// CreateChat creates a chat, inserts it at the front of the ordering, and
// makes it current. An empty title yields the default placeholder.
func (s *Store) CreateChat(title string) *models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		title = models.DefaultChatTitle
	}

	chat := &models.Chat{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
		Messages:  []models.Message{},
	}

	s.chats[chat.ID] = chat
	s.order = append([]string{chat.ID}, s.order...)
	s.currentID = chat.ID

	return snapshot(chat)
}

// SeedChat inserts a chat with a caller-chosen ID (used by the history
// loader for the server's default conversation). Returns false if the ID is
// already taken.
func (s *Store) SeedChat(id, title string, messages []models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.chats[id]; exists {
		return false
	}

	chat := &models.Chat{
		ID:        id,
		Title:     title,
		CreatedAt: time.Now(),
		Messages:  append([]models.Message{}, messages...),
	}

	s.chats[id] = chat
	s.order = append([]string{id}, s.order...)
	s.currentID = id
	return true
}

// SelectChat makes the chat current. Unknown IDs are a no-op, leaving the
// previous selection in place.
func (s *Store) SelectChat(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[id]; ok {
		s.currentID = id
	}
}

// DeleteChat removes a chat. Deleting the current chat leaves no chat
// selected; the store never auto-selects a replacement.
func (s *Store) DeleteChat(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[id]; !ok {
		return
	}

	delete(s.chats, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.currentID == id {
		s.currentID = ""
	}
}

// AppendMessage appends to the chat's message sequence. The first user
// message into a chat still carrying the default title rewrites the title to
// a prefix of that message.
func (s *Store) AppendMessage(chatID string, msg models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return false
	}

	if len(chat.Messages) == 0 && chat.Title == models.DefaultChatTitle && msg.Role == models.RoleUser {
		chat.Title = models.TitleFromContent(msg.Content)
	}

	chat.Messages = append(chat.Messages, msg)
	return true
}

// TogglePin flips the pinned flag and returns the new value
func (s *Store) TogglePin(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return false
	}
	chat.IsPinned = !chat.IsPinned
	return chat.IsPinned
}

// Current returns a copy of the current chat, or nil when none is selected
func (s *Store) Current() *models.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentID == "" {
		return nil
	}
	return snapshot(s.chats[s.currentID])
}

// CurrentID returns the current chat ID, or "" when none is selected
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// Get returns a copy of a chat by ID
func (s *Store) Get(id string) (*models.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := s.chats[id]
	if !ok {
		return nil, false
	}
	return snapshot(chat), true
}

// List returns all chats with the pinned partition first. Relative order
// within each partition follows the chat ordering (newest first).
func (s *Store) List() []*models.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pinned := make([]*models.Chat, 0, len(s.order))
	var unpinned []*models.Chat
	for _, id := range s.order {
		chat := s.chats[id]
		if chat.IsPinned {
			pinned = append(pinned, snapshot(chat))
		} else {
			unpinned = append(unpinned, snapshot(chat))
		}
	}
	return append(pinned, unpinned...)
}

// Len returns the number of chats
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}

// snapshot copies a chat so callers cannot mutate store state through the
// returned value. Message values are copied; their context items are
// read-only by contract and shared.
func snapshot(chat *models.Chat) *models.Chat {
	if chat == nil {
		return nil
	}
	cp := *chat
	cp.Messages = append([]models.Message{}, chat.Messages...)
	return &cp
}

// NewMessageID generates a message identifier. Uniqueness is only required
// within one chat, but process-unique IDs are cheap.
func NewMessageID() string {
	return uuid.NewString()
}

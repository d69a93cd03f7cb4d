// Package conversation orchestrates chat turns between the session store and
// the backend client.
package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/avocarbon/kbchat/internal/api"
	apierrors "github.com/avocarbon/kbchat/internal/errors"
	"github.com/avocarbon/kbchat/internal/models"
	"github.com/avocarbon/kbchat/internal/session"
)

// DefaultConversationID is the server-side conversation seeded at startup
const DefaultConversationID = "default"

// historyPageLimit bounds the initial history fetch
const historyPageLimit = 50

// Sender is the slice of the API client the controller needs
type Sender interface {
	SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	History(ctx context.Context, limit, offset int, conversationID string) (*models.HistoryResponse, error)
}

// Notifier receives process-wide dismissible error notifications, distinct
// from the per-message error text.
type Notifier interface {
	Notify(message string)
}

// NopNotifier discards notifications
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(string) {}

// Controller drives one submission at a time through the
// Idle -> Submitting -> Settled -> Idle cycle.
type Controller struct {
	store    *session.Store
	client   Sender
	notifier Notifier

	mu         sync.Mutex
	submitting bool

	historyOnce sync.Once
}

// NewController creates a controller over the given store and client
func NewController(store *session.Store, client Sender, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		store:    store,
		client:   client,
		notifier: notifier,
	}
}

// Store returns the underlying session store
func (c *Controller) Store() *session.Store {
	return c.store
}

// InFlight reports whether a submission is currently running. The UI uses
// this to disable input; the controller itself does not reject overlapping
// submissions.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func (c *Controller) setSubmitting(v bool) {
	c.mu.Lock()
	c.submitting = v
	c.mu.Unlock()
}

// Submit runs one user turn: optimistic append of the user message, one send
// call, then reconciliation. The user message is never rolled back; failures
// append a synthetic assistant message and raise a banner notification.
// The returned message is the appended assistant message (answer or error).
func (c *Controller) Submit(ctx context.Context, content string, files []models.LocalFile) (*models.Message, error) {
	if strings.TrimSpace(content) == "" && len(files) == 0 {
		return nil, nil
	}

	chatID := c.store.CurrentID()
	if chatID == "" {
		chat := c.store.CreateChat(models.TitleFromContent(content))
		chatID = chat.ID
	}

	userMsg := models.Message{
		ID:            session.NewMessageID(),
		Role:          models.RoleUser,
		Content:       content,
		AttachedFiles: files,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	c.store.AppendMessage(chatID, userMsg)

	c.setSubmitting(true)
	defer c.setSubmitting(false)

	resp, err := c.client.SendMessage(ctx, models.ChatRequest{
		Message:        content,
		IncludeContext: true,
		TopK:           api.DefaultTopK,
		ConversationID: chatID,
	})
	if err != nil {
		assistantMsg := c.appendErrorMessage(chatID, err)
		return assistantMsg, err
	}

	assistantMsg := models.Message{
		ID:           session.NewMessageID(),
		Role:         models.RoleAssistant,
		Content:      resp.Message,
		ContextItems: resp.ContextItems,
		RawContext:   resp.Context,
		Timestamp:    resp.Timestamp,
	}
	c.store.AppendMessage(chatID, assistantMsg)

	return &assistantMsg, nil
}

// appendErrorMessage reconciles a failed turn: one synthetic assistant
// message in the chat plus one banner notification.
func (c *Controller) appendErrorMessage(chatID string, err error) *models.Message {
	msg := models.Message{
		ID:        session.NewMessageID(),
		Role:      models.RoleAssistant,
		Content:   "Error: " + err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ErrorKind: apierrors.Kind(err),
	}
	c.store.AppendMessage(chatID, msg)
	c.notifier.Notify(err.Error())
	return &msg
}

// LoadInitial seeds the store once from the server's default conversation.
// An empty history or a failed fetch leaves the store untouched; failures
// additionally go to the notifier (there is no chat to inject a message
// into yet).
func (c *Controller) LoadInitial(ctx context.Context) {
	c.historyOnce.Do(func() {
		resp, err := c.client.History(ctx, historyPageLimit, 0, DefaultConversationID)
		if err != nil {
			c.notifier.Notify(err.Error())
			return
		}
		if len(resp.Messages) == 0 {
			return
		}

		messages := make([]models.Message, len(resp.Messages))
		for i, hm := range resp.Messages {
			messages[i] = models.Message{
				ID:        session.NewMessageID(),
				Role:      hm.Role,
				Content:   hm.Content,
				Timestamp: hm.Timestamp,
			}
		}
		c.store.SeedChat(DefaultConversationID, "Conversation", messages)
	})
}

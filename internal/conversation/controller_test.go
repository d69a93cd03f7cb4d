package conversation

import (
	"context"
	"strings"
	"sync"
	"testing"

	apierrors "github.com/avocarbon/kbchat/internal/errors"
	"github.com/avocarbon/kbchat/internal/models"
	"github.com/avocarbon/kbchat/internal/session"
)

// mockSender is a scriptable Sender for controller tests
type mockSender struct {
	mu           sync.Mutex
	sendResp     *models.ChatResponse
	sendErr      error
	historyResp  *models.HistoryResponse
	historyErr   error
	sendCalls    int
	historyCalls int
	lastRequest  models.ChatRequest
}

func (m *mockSender) SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendCalls++
	m.lastRequest = req
	return m.sendResp, m.sendErr
}

func (m *mockSender) History(ctx context.Context, limit, offset int, conversationID string) (*models.HistoryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyCalls++
	return m.historyResp, m.historyErr
}

// recordingNotifier captures banner notifications
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.messages...)
}

func TestSubmitEmptyInput(t *testing.T) {
	sender := &mockSender{}
	ctrl := NewController(session.NewStore(), sender, nil)

	msg, err := ctrl.Submit(context.Background(), "   \n\t  ", nil)
	if msg != nil || err != nil {
		t.Errorf("empty submit should be a no-op, got %v, %v", msg, err)
	}
	if sender.sendCalls != 0 {
		t.Error("no request should be sent")
	}
	if ctrl.Store().Len() != 0 {
		t.Error("no chat should be created")
	}
}

func TestSubmitFilesOnlyIsSent(t *testing.T) {
	sender := &mockSender{
		sendResp: &models.ChatResponse{Success: true, Message: "noted"},
	}
	ctrl := NewController(session.NewStore(), sender, nil)

	files := []models.LocalFile{{ID: "f1", Name: "notes.txt"}}
	if _, err := ctrl.Submit(context.Background(), "", files); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sender.sendCalls != 1 {
		t.Error("attachment-only submit should still send")
	}

	chat := ctrl.Store().Current()
	if len(chat.Messages[0].AttachedFiles) != 1 {
		t.Error("files not recorded on the user message")
	}
}

func TestSubmitSuccess(t *testing.T) {
	sender := &mockSender{
		sendResp: &models.ChatResponse{
			Success:      true,
			Message:      "the answer",
			Context:      "raw ctx",
			ContextItems: []models.ContextItem{{Title: "doc"}},
			Timestamp:    "2025-03-01T10:00:01Z",
		},
	}
	notifier := &recordingNotifier{}
	ctrl := NewController(session.NewStore(), sender, notifier)

	msg, err := ctrl.Submit(context.Background(), "question?", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	chat := ctrl.Store().Current()
	if chat == nil {
		t.Fatal("no current chat")
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(chat.Messages))
	}
	if chat.Messages[0].Role != models.RoleUser || chat.Messages[0].Content != "question?" {
		t.Errorf("user message wrong: %+v", chat.Messages[0])
	}
	if chat.Messages[1].Role != models.RoleAssistant || chat.Messages[1].Content != "the answer" {
		t.Errorf("assistant message wrong: %+v", chat.Messages[1])
	}
	if chat.Messages[1].RawContext != "raw ctx" || len(chat.Messages[1].ContextItems) != 1 {
		t.Error("context not carried onto the assistant message")
	}
	if chat.Messages[1].Timestamp != "2025-03-01T10:00:01Z" {
		t.Error("server timestamp not used")
	}
	if msg == nil || msg.ID != chat.Messages[1].ID {
		t.Error("returned message should be the appended assistant message")
	}
	if chat.Title != "question?" {
		t.Errorf("chat title = %q", chat.Title)
	}

	if req := sender.lastRequest; !req.IncludeContext || req.TopK != 8 || req.ConversationID != chat.ID {
		t.Errorf("request fields wrong: %+v", req)
	}
	if len(notifier.all()) != 0 {
		t.Error("success must not notify")
	}
}

func TestSubmitFailureKeepsUserMessage(t *testing.T) {
	sender := &mockSender{
		sendErr: apierrors.NewServerError(500, "/api/chat", "boom"),
	}
	notifier := &recordingNotifier{}
	ctrl := NewController(session.NewStore(), sender, notifier)

	msg, err := ctrl.Submit(context.Background(), "question?", nil)
	if err == nil {
		t.Fatal("expected error")
	}

	chat := ctrl.Store().Current()
	if len(chat.Messages) != 2 {
		t.Fatalf("got %d messages, want user + error", len(chat.Messages))
	}
	if chat.Messages[0].Role != models.RoleUser {
		t.Error("user message was rolled back")
	}

	errMsg := chat.Messages[1]
	if errMsg.Role != models.RoleAssistant {
		t.Errorf("error message role = %q", errMsg.Role)
	}
	if !errMsg.IsError() || errMsg.ErrorKind != apierrors.KindServer {
		t.Errorf("error kind = %q", errMsg.ErrorKind)
	}
	if !strings.HasPrefix(errMsg.Content, "Error: ") {
		t.Errorf("error content = %q", errMsg.Content)
	}
	if msg == nil || !msg.IsError() {
		t.Error("returned message should be the synthetic error message")
	}

	notes := notifier.all()
	if len(notes) != 1 || !strings.Contains(notes[0], "boom") {
		t.Errorf("notifications = %v", notes)
	}
}

func TestSubmitTimeoutKind(t *testing.T) {
	sender := &mockSender{sendErr: apierrors.NewTimeoutError("/api/chat")}
	ctrl := NewController(session.NewStore(), sender, nil)

	_, err := ctrl.Submit(context.Background(), "question?", nil)
	if err == nil {
		t.Fatal("expected error")
	}

	chat := ctrl.Store().Current()
	if chat.Messages[1].ErrorKind != apierrors.KindTimeout {
		t.Errorf("error kind = %q, want timeout", chat.Messages[1].ErrorKind)
	}
}

func TestSubmitReusesCurrentChat(t *testing.T) {
	sender := &mockSender{
		sendResp: &models.ChatResponse{Success: true, Message: "ok"},
	}
	store := session.NewStore()
	ctrl := NewController(store, sender, nil)

	ctrl.Submit(context.Background(), "first", nil)
	firstID := store.CurrentID()
	ctrl.Submit(context.Background(), "second", nil)

	if store.Len() != 1 {
		t.Errorf("got %d chats, want 1", store.Len())
	}
	if store.CurrentID() != firstID {
		t.Error("current chat changed between turns")
	}
	if got := len(store.Current().Messages); got != 4 {
		t.Errorf("got %d messages, want 4", got)
	}
}

func TestInFlight(t *testing.T) {
	ctrl := NewController(session.NewStore(), &mockSender{
		sendResp: &models.ChatResponse{Success: true, Message: "ok"},
	}, nil)

	if ctrl.InFlight() {
		t.Error("idle controller reports in-flight")
	}
	ctrl.Submit(context.Background(), "q", nil)
	if ctrl.InFlight() {
		t.Error("settled controller reports in-flight")
	}
}

func TestLoadInitial(t *testing.T) {
	t.Run("seeds default conversation", func(t *testing.T) {
		sender := &mockSender{
			historyResp: &models.HistoryResponse{
				Success: true,
				Messages: []models.HistoryMessage{
					{Role: "user", Content: "old question", Timestamp: "2025-01-01T00:00:00Z"},
					{Role: "assistant", Content: "old answer"},
				},
				Total: 2,
			},
		}
		store := session.NewStore()
		ctrl := NewController(store, sender, nil)

		ctrl.LoadInitial(context.Background())

		chat, ok := store.Get(DefaultConversationID)
		if !ok {
			t.Fatal("default chat not seeded")
		}
		if chat.Title != "Conversation" {
			t.Errorf("title = %q", chat.Title)
		}
		if len(chat.Messages) != 2 {
			t.Fatalf("got %d messages", len(chat.Messages))
		}
		if chat.Messages[0].Content != "old question" || chat.Messages[1].Content != "old answer" {
			t.Error("message order or content wrong")
		}
		if chat.Messages[0].ID == "" || chat.Messages[0].ID == chat.Messages[1].ID {
			t.Error("seeded messages need fresh unique IDs")
		}
	})

	t.Run("empty history leaves store untouched", func(t *testing.T) {
		sender := &mockSender{historyResp: &models.HistoryResponse{Success: true}}
		store := session.NewStore()
		ctrl := NewController(store, sender, nil)

		ctrl.LoadInitial(context.Background())
		if store.Len() != 0 {
			t.Error("empty history must not create a chat")
		}
	})

	t.Run("fetch error notifies without seeding", func(t *testing.T) {
		sender := &mockSender{historyErr: apierrors.NewTransportError("/api/history", context.DeadlineExceeded)}
		notifier := &recordingNotifier{}
		store := session.NewStore()
		ctrl := NewController(store, sender, notifier)

		ctrl.LoadInitial(context.Background())
		if store.Len() != 0 {
			t.Error("failed fetch must not create a chat")
		}
		if len(notifier.all()) != 1 {
			t.Errorf("notifications = %v", notifier.all())
		}
	})

	t.Run("runs at most once", func(t *testing.T) {
		sender := &mockSender{historyResp: &models.HistoryResponse{Success: true}}
		ctrl := NewController(session.NewStore(), sender, nil)

		ctrl.LoadInitial(context.Background())
		ctrl.LoadInitial(context.Background())
		if sender.historyCalls != 1 {
			t.Errorf("history fetched %d times, want 1", sender.historyCalls)
		}
	})
}

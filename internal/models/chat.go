// Package models defines the data model shared across the kbchat client.
package models

import (
	"strings"
	"time"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultChatTitle is the placeholder title a chat carries until its first
// user message rewrites it.
const DefaultChatTitle = "New Chat"

// TitleMaxLen is the number of characters of the first user message used as
// the chat title.
const TitleMaxLen = 50

// Chat represents one conversation thread
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	IsPinned  bool      `json:"is_pinned"`
	Messages  []Message `json:"messages"`
}

// Message represents a single chat message
type Message struct {
	ID            string        `json:"id"`
	Role          string        `json:"role"` // "user" or "assistant"
	Content       string        `json:"content"`
	AttachedFiles []LocalFile   `json:"attached_files,omitempty"`
	ContextItems  []ContextItem `json:"context_items,omitempty"`
	RawContext    string        `json:"raw_context,omitempty"`
	Timestamp     string        `json:"timestamp,omitempty"`
	// ErrorKind tags assistant-role error messages ("transport", "timeout",
	// "server", "application"). Empty for normal messages.
	ErrorKind string `json:"error_kind,omitempty"`
}

// IsError reports whether the message is a synthetic error message
func (m *Message) IsError() bool {
	return m.ErrorKind != ""
}

// LocalFile is a user-attached file that has not been uploaded yet.
// URL is a transient local reference valid only for the client lifetime.
type LocalFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// TitleFromContent derives a chat title from message content, truncated to
// TitleMaxLen characters.
func TitleFromContent(content string) string {
	title := strings.TrimSpace(content)
	if title == "" {
		return DefaultChatTitle
	}
	runes := []rune(title)
	if len(runes) > TitleMaxLen {
		return string(runes[:TitleMaxLen])
	}
	return title
}

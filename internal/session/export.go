package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avocarbon/kbchat/internal/models"
)

// ExportFormat represents the format for exporting a chat transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat validates a user-supplied format name
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown or json)", s)
	}
}

// ExportMarkdown renders a chat transcript as Markdown. Context items are
// summarized as a source list under each assistant message.
func ExportMarkdown(chat *models.Chat) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(chat.Title)
	sb.WriteString("\n\n")

	sb.WriteString("**Created:** ")
	sb.WriteString(chat.CreatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n**Messages:** ")
	sb.WriteString(fmt.Sprintf("%d", len(chat.Messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range chat.Messages {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if msg.Timestamp != "" {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp)
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if len(msg.ContextItems) > 0 {
			sb.WriteString("\n**Sources:**\n")
			for _, item := range msg.ContextItems {
				sb.WriteString(fmt.Sprintf("- %s (%s)", item.Title, item.NodeType))
				if len(item.Attachments) > 0 {
					sb.WriteString(fmt.Sprintf(", %d attachment(s)", len(item.Attachments)))
				}
				sb.WriteString("\n")
			}
		}

		if i < len(chat.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON renders a chat transcript as indented JSON
func ExportJSON(chat *models.Chat) ([]byte, error) {
	type exportMessage struct {
		Role         string               `json:"role"`
		Content      string               `json:"content"`
		Timestamp    string               `json:"timestamp,omitempty"`
		ErrorKind    string               `json:"error_kind,omitempty"`
		ContextItems []models.ContextItem `json:"context_items,omitempty"`
	}

	type exportChat struct {
		ID        string          `json:"id"`
		Title     string          `json:"title"`
		CreatedAt time.Time       `json:"created_at"`
		IsPinned  bool            `json:"is_pinned"`
		Messages  []exportMessage `json:"messages"`
	}

	out := exportChat{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
		IsPinned:  chat.IsPinned,
		Messages:  make([]exportMessage, len(chat.Messages)),
	}

	for i, msg := range chat.Messages {
		out.Messages[i] = exportMessage{
			Role:         msg.Role,
			Content:      msg.Content,
			Timestamp:    msg.Timestamp,
			ErrorKind:    msg.ErrorKind,
			ContextItems: msg.ContextItems,
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

// Export renders a chat in the requested format
func Export(chat *models.Chat, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatJSON:
		return ExportJSON(chat)
	case ExportFormatMarkdown:
		return []byte(ExportMarkdown(chat)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

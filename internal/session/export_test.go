package session

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/avocarbon/kbchat/internal/models"
)

func sampleChat() *models.Chat {
	return &models.Chat{
		ID:        "chat-1",
		Title:     "Retry policy",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "How do retries work?", Timestamp: "2025-03-01T10:00:00Z"},
			{
				Role:    models.RoleAssistant,
				Content: "Retries use exponential backoff.",
				ContextItems: []models.ContextItem{
					{
						Title:    "Webhook guide",
						NodeType: "document",
						Attachments: []models.Attachment{
							{FileName: "diagram.png", FileType: "image/png"},
						},
					},
				},
			},
		},
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"markdown", ExportFormatMarkdown, false},
		{"md", ExportFormatMarkdown, false},
		{"MD", ExportFormatMarkdown, false},
		{"json", ExportFormatJSON, false},
		{" json ", ExportFormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExportFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportMarkdown(t *testing.T) {
	out := ExportMarkdown(sampleChat())

	for _, want := range []string{
		"# Retry policy",
		"## User (2025-03-01T10:00:00Z)",
		"How do retries work?",
		"## Assistant",
		"**Sources:**",
		"- Webhook guide (document), 1 attachment(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON(sampleChat())
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var decoded struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Messages []struct {
			Role         string               `json:"role"`
			Content      string               `json:"content"`
			ContextItems []models.ContextItem `json:"context_items"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.ID != "chat-1" || decoded.Title != "Retry policy" {
		t.Errorf("header wrong: %+v", decoded)
	}
	if len(decoded.Messages) != 2 {
		t.Fatalf("got %d messages", len(decoded.Messages))
	}
	if len(decoded.Messages[1].ContextItems) != 1 {
		t.Error("context items not exported")
	}
}

func TestExport(t *testing.T) {
	chat := sampleChat()

	md, err := Export(chat, ExportFormatMarkdown)
	if err != nil || !strings.HasPrefix(string(md), "# ") {
		t.Errorf("markdown export: %v, %q", err, string(md[:10]))
	}

	js, err := Export(chat, ExportFormatJSON)
	if err != nil || !json.Valid(js) {
		t.Errorf("json export: %v", err)
	}

	if _, err := Export(chat, ExportFormat("yaml")); err == nil {
		t.Error("expected error for unknown format")
	}
}

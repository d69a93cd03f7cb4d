package tui

import (
	"testing"

	"github.com/avocarbon/kbchat/internal/models"
)

func TestBanner(t *testing.T) {
	b := &Banner{}

	if b.Text() != "" {
		t.Error("fresh banner should be empty")
	}

	b.Notify("backend unreachable")
	if b.Text() != "backend unreachable" {
		t.Errorf("Text = %q", b.Text())
	}

	b.Notify("second failure")
	if b.Text() != "second failure" {
		t.Error("latest notification should replace the banner text")
	}

	b.Dismiss()
	if b.Text() != "" {
		t.Error("dismissed banner should be empty")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		att  models.Attachment
		want string
	}{
		{"file name wins", models.Attachment{FileName: "chart.png", FilePath: "uploads/other.png"}, "chart.png"},
		{"base of path", models.Attachment{FilePath: "uploads/docs/plan.pdf"}, "plan.pdf"},
		{"flat path", models.Attachment{FilePath: "report.pdf"}, "report.pdf"},
		{"backslash path", models.Attachment{FilePath: `uploads\img\a.png`}, "a.png"},
		{"nothing", models.Attachment{}, "attachment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayName(tt.att); got != tt.want {
				t.Errorf("displayName(%+v) = %q, want %q", tt.att, got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("nil error should render empty")
	}
}

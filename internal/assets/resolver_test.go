package assets

import (
	"reflect"
	"testing"

	"github.com/avocarbon/kbchat/internal/models"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "report.pdf", "report.pdf"},
		{"backslashes", `docs\img\chart.png`, "docs/img/chart.png"},
		{"leading slash", "/report.pdf", "report.pdf"},
		{"multiple leading slashes", "///report.pdf", "report.pdf"},
		{"uploads prefix", "uploads/report.pdf", "report.pdf"},
		{"uploads prefix mixed case", "UpLoAdS/report.pdf", "report.pdf"},
		{"uploads prefix only once", "uploads/uploads/report.pdf", "uploads/report.pdf"},
		{"slash then uploads", "/uploads/report.pdf", "report.pdf"},
		{"backslash uploads", `\uploads\img\a.png`, "img/a.png"},
		{"uploads mid-path kept", "docs/uploads/report.pdf", "docs/uploads/report.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.in); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeSegments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "a/b/c.pdf", "a/b/c.pdf"},
		{"spaces", "my docs/q1 report.pdf", "my%20docs/q1%20report.pdf"},
		{"hash and question mark", "a#b/c?d.txt", "a%23b/c%3Fd.txt"},
		{"empty segments dropped", "a//b/", "a/b"},
		{"unicode", "docs/résumé.pdf", "docs/r%C3%A9sum%C3%A9.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeSegments(tt.in); got != tt.want {
				t.Errorf("EncodeSegments(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDownloadURL(t *testing.T) {
	base := "http://localhost:8000"

	tests := []struct {
		name     string
		filePath string
		fileName string
		want     string
	}{
		{"file path", "uploads/report.pdf", "", base + "/api/download/report.pdf"},
		{"fallback to file name", "", "report.pdf", base + "/api/download/report.pdf"},
		{"file path wins", "uploads/a.pdf", "b.pdf", base + "/api/download/a.pdf"},
		{"nothing resolvable", "", "", "#"},
		{"spaces encoded", "q1 report.pdf", "", base + "/api/download/q1%20report.pdf"},
		{"nested path", `docs\2024\plan.pdf`, "", base + "/api/download/docs/2024/plan.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DownloadURL(base, tt.filePath, tt.fileName); got != tt.want {
				t.Errorf("DownloadURL(%q, %q) = %q, want %q", tt.filePath, tt.fileName, got, tt.want)
			}
		})
	}

	t.Run("trailing slash on base", func(t *testing.T) {
		got := DownloadURL("http://localhost:8000/", "a.pdf", "")
		if got != base+"/api/download/a.pdf" {
			t.Errorf("got %q", got)
		}
	})
}

func TestImageURL(t *testing.T) {
	base := "http://localhost:8000"

	tests := []struct {
		name     string
		filePath string
		fileName string
		want     string
	}{
		{"file path", "uploads/img/chart.png", "", base + "/uploads/img/chart.png"},
		{"fallback to file name", "", "chart.png", base + "/uploads/chart.png"},
		{"nothing resolvable", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageURL(base, tt.filePath, tt.fileName); got != tt.want {
				t.Errorf("ImageURL(%q, %q) = %q, want %q", tt.filePath, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		fileType string
		want     Kind
	}{
		{"png", "image/png", KindImage},
		{"jpeg", "image/jpeg", KindImage},
		{"pdf", "application/pdf", KindFile},
		{"empty", "", KindFile},
		{"uppercase prefix not image", "Image/PNG", KindFile},
		{"image substring not prefix", "application/image", KindFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := models.Attachment{FileType: tt.fileType}
			if got := Classify(att); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.fileType, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindImage.String() != "image" {
		t.Errorf("KindImage.String() = %q", KindImage.String())
	}
	if KindFile.String() != "file" {
		t.Errorf("KindFile.String() = %q", KindFile.String())
	}
}

func TestDedupe(t *testing.T) {
	t.Run("first occurrence wins", func(t *testing.T) {
		atts := []models.Attachment{
			{FilePath: "uploads/a.png", FileType: "image/png"},
			{FilePath: "uploads/a.png", FileType: "application/pdf"},
		}
		got := Dedupe(atts)
		if len(got) != 1 {
			t.Fatalf("got %d attachments, want 1", len(got))
		}
		if got[0].FileType != "image/png" {
			t.Errorf("kept wrong entry: %+v", got[0])
		}
	})

	t.Run("key is case insensitive", func(t *testing.T) {
		atts := []models.Attachment{
			{FilePath: "uploads/a.png"},
			{FilePath: "Uploads/A.PNG"},
		}
		if got := Dedupe(atts); len(got) != 1 {
			t.Errorf("got %d attachments, want 1", len(got))
		}
	})

	t.Run("key trims whitespace", func(t *testing.T) {
		atts := []models.Attachment{
			{FilePath: "a.png"},
			{FilePath: "  a.png  "},
		}
		if got := Dedupe(atts); len(got) != 1 {
			t.Errorf("got %d attachments, want 1", len(got))
		}
	})

	t.Run("falls back to file name", func(t *testing.T) {
		atts := []models.Attachment{
			{FileName: "report.pdf"},
			{FileName: "Report.PDF"},
			{FileName: "other.pdf"},
		}
		got := Dedupe(atts)
		if len(got) != 2 {
			t.Fatalf("got %d attachments, want 2", len(got))
		}
	})

	t.Run("empty keys are all kept", func(t *testing.T) {
		atts := []models.Attachment{
			{FileType: "image/png"},
			{FileType: "application/pdf"},
			{FileType: "text/plain"},
		}
		if got := Dedupe(atts); len(got) != 3 {
			t.Errorf("got %d attachments, want 3", len(got))
		}
	})

	t.Run("order preserved", func(t *testing.T) {
		atts := []models.Attachment{
			{FilePath: "c.pdf"},
			{FilePath: "a.pdf"},
			{FilePath: "b.pdf"},
			{FilePath: "a.pdf"},
		}
		got := Dedupe(atts)
		want := []string{"c.pdf", "a.pdf", "b.pdf"}
		var paths []string
		for _, att := range got {
			paths = append(paths, att.FilePath)
		}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("got order %v, want %v", paths, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		atts := []models.Attachment{
			{FilePath: "a.pdf"},
			{FilePath: "A.pdf"},
			{FileName: "b.png"},
		}
		once := Dedupe(atts)
		twice := Dedupe(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Dedupe not idempotent: %v vs %v", once, twice)
		}
	})
}

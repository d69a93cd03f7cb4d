package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/avocarbon/kbchat/internal/assets"
	apierrors "github.com/avocarbon/kbchat/internal/errors"
	"github.com/avocarbon/kbchat/internal/models"
)

// DownloadOptions configures attachment downloads
type DownloadOptions struct {
	// Directory is the destination directory
	Directory string
	// Filename overrides the output filename (derived from the attachment if empty)
	Filename string
}

// DownloadAttachment fetches a context attachment through the backend's
// download endpoint and writes it under opts.Directory. Returns the absolute
// path of the written file.
func (c *Client) DownloadAttachment(ctx context.Context, att models.Attachment, opts DownloadOptions) (string, error) {
	dlURL := assets.DownloadURL(c.baseURL, att.FilePath, att.FileName)
	if dlURL == "#" {
		return "", fmt.Errorf("attachment %q has no downloadable path", att.FileName)
	}

	if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dlURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", apierrors.NewTimeoutError(dlURL)
		}
		return "", apierrors.NewTransportError(dlURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", apierrors.NewServerError(resp.StatusCode, dlURL, "")
	}

	filename := opts.Filename
	if filename == "" {
		filename = downloadFilename(att, resp.Header.Get("Content-Type"))
	}
	destPath := filepath.Join(opts.Directory, filename)

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return destPath, nil
	}
	return absPath, nil
}

// downloadFilename derives a safe local filename for an attachment
func downloadFilename(att models.Attachment, contentType string) string {
	if att.FileName != "" {
		return sanitizeFilename(att.FileName)
	}

	if base := filepath.Base(assets.NormalizePath(att.FilePath)); base != "" && base != "." {
		return sanitizeFilename(base)
	}

	ext := ".bin"
	switch {
	case strings.Contains(contentType, "png"):
		ext = ".png"
	case strings.Contains(contentType, "jpeg"):
		ext = ".jpg"
	case strings.Contains(contentType, "pdf"):
		ext = ".pdf"
	}
	return fmt.Sprintf("attachment_%s%s", time.Now().Format("20060102_150405"), ext)
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// sanitizeFilename removes characters not allowed in filenames
func sanitizeFilename(name string) string {
	return strings.TrimSpace(invalidFilenameChars.ReplaceAllString(name, "_"))
}

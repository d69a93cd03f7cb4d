// Package assets normalizes context attachments into renderable asset lists.
//
// Attachment metadata is best-effort enrichment: nothing here returns an
// error. Unresolvable paths degrade to sentinel values ("#" for downloads,
// "" for images) and the caller suppresses rendering instead.
package assets

import (
	"net/url"
	"strings"

	"github.com/avocarbon/kbchat/internal/models"
)

const uploadsPrefix = "uploads/"

// Kind classifies an attachment for rendering
type Kind int

const (
	KindFile Kind = iota
	KindImage
)

func (k Kind) String() string {
	if k == KindImage {
		return "image"
	}
	return "file"
}

// NormalizePath converts a stored file path to its canonical form: forward
// slashes, no leading slashes, and at most one leading "uploads/" segment
// (any case) removed.
func NormalizePath(filePath string) string {
	if filePath == "" {
		return ""
	}
	clean := strings.ReplaceAll(filePath, `\`, "/")
	clean = strings.TrimLeft(clean, "/")
	if len(clean) >= len(uploadsPrefix) && strings.EqualFold(clean[:len(uploadsPrefix)], uploadsPrefix) {
		clean = clean[len(uploadsPrefix):]
	}
	return clean
}

// EncodeSegments percent-encodes each path segment independently so reserved
// characters inside a segment survive embedding in a URL path. Empty segments
// are dropped.
func EncodeSegments(path string) string {
	parts := strings.Split(path, "/")
	encoded := make([]string, 0, len(parts))
	for _, seg := range parts {
		if seg == "" {
			continue
		}
		encoded = append(encoded, url.PathEscape(seg))
	}
	return strings.Join(encoded, "/")
}

// DownloadURL builds the download endpoint URL for an attachment. The
// effective path is filePath when present, else fileName. Returns "#" when
// neither resolves, signaling "not downloadable".
func DownloadURL(base, filePath, fileName string) string {
	path := resolvePath(filePath, fileName)
	if path == "" {
		return "#"
	}
	return strings.TrimRight(base, "/") + "/api/download/" + EncodeSegments(path)
}

// ImageURL builds the static uploads URL for an image attachment. Returns ""
// when the path does not resolve; the caller must suppress rendering rather
// than request a broken URL.
func ImageURL(base, filePath, fileName string) string {
	path := resolvePath(filePath, fileName)
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/uploads/" + EncodeSegments(path)
}

func resolvePath(filePath, fileName string) string {
	effective := filePath
	if effective == "" {
		effective = fileName
	}
	return NormalizePath(effective)
}

// Classify returns KindImage iff the attachment's file type carries the
// case-sensitive "image/" prefix. Absent file types classify as files.
func Classify(att models.Attachment) Kind {
	if strings.HasPrefix(att.FileType, "image/") {
		return KindImage
	}
	return KindFile
}

// fileKey is the dedup identity of an attachment: lower-cased, trimmed file
// path, falling back to the file name. Empty keys carry no identity.
func fileKey(att models.Attachment) string {
	key := att.FilePath
	if key == "" {
		key = att.FileName
	}
	return strings.ToLower(strings.TrimSpace(key))
}

// Dedupe filters an attachment list down to the first occurrence per file
// key, preserving order. Entries with an empty key are never treated as
// duplicates of each other.
func Dedupe(atts []models.Attachment) []models.Attachment {
	seen := make(map[string]struct{}, len(atts))
	out := make([]models.Attachment, 0, len(atts))
	for _, att := range atts {
		key := fileKey(att)
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, att)
	}
	return out
}

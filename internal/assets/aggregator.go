package assets

import (
	"github.com/avocarbon/kbchat/internal/models"
)

// Flatten walks context items in order and collects their attachments,
// filling ParentNodeTitle/ParentNodeType from the owning item when the
// attachment does not carry its own provenance. Attachment-level values win.
func Flatten(items []models.ContextItem) []models.Attachment {
	var out []models.Attachment
	for _, item := range items {
		for _, att := range item.Attachments {
			if att.ParentNodeTitle == "" {
				att.ParentNodeTitle = item.Title
			}
			if att.ParentNodeType == "" {
				att.ParentNodeType = item.NodeType
			}
			out = append(out, att)
		}
	}
	return out
}

// Buckets splits a deduplicated attachment list into image and file groups,
// preserving relative order within each group.
func Buckets(atts []models.Attachment) (images, files []models.Attachment) {
	for _, att := range atts {
		if Classify(att) == KindImage {
			images = append(images, att)
		} else {
			files = append(files, att)
		}
	}
	return images, files
}

// Resolve runs the full pipeline for one message's context items:
// flatten, dedupe, then bucket. Bucket membership reflects the deduplicated
// set, not the raw flattened one.
func Resolve(items []models.ContextItem) (images, files []models.Attachment) {
	return Buckets(Dedupe(Flatten(items)))
}

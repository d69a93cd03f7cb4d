package models

// ContextItem is a knowledge-base node returned alongside an assistant
// answer as retrieval evidence. Read-only once received.
type ContextItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	NodeType    string       `json:"node_type"`
	Content     string       `json:"content,omitempty"`
	Similarity  float64      `json:"similarity,omitempty"`
	ParentID    string       `json:"parent_id,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file associated with a context item.
// ParentNodeTitle and ParentNodeType are back-references to the owning item,
// filled in during aggregation when absent on the attachment itself.
type Attachment struct {
	ID              string `json:"id"`
	FileName        string `json:"file_name"`
	FileType        string `json:"file_type,omitempty"`
	FilePath        string `json:"file_path"`
	UploadedAt      string `json:"uploaded_at,omitempty"`
	ParentNodeTitle string `json:"parent_node_title,omitempty"`
	ParentNodeType  string `json:"parent_node_type,omitempty"`
}

package models

// Wire types for the backend REST API. All bodies are UTF-8 JSON with
// snake_case field names.

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message        string `json:"message"`
	IncludeContext bool   `json:"include_context,omitempty"`
	TopK           int    `json:"top_k,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the body returned by POST /api/chat
type ChatResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	Context      string        `json:"context,omitempty"`
	ContextItems []ContextItem `json:"context_items,omitempty"`
	ContextCount int           `json:"context_count,omitempty"`
	Error        string        `json:"error,omitempty"`
	Timestamp    string        `json:"timestamp"`
}

// HistoryMessage is a prior message as returned by GET /api/history.
// History entries carry only summary counts, never full context items.
type HistoryMessage struct {
	Role         string `json:"role"`
	Content      string `json:"content"`
	Timestamp    string `json:"timestamp"`
	ContextCount int    `json:"context_count,omitempty"`
}

// HistoryResponse is the body returned by GET /api/history
type HistoryResponse struct {
	Success   bool             `json:"success"`
	Messages  []HistoryMessage `json:"messages"`
	Total     int              `json:"total"`
	Timestamp string           `json:"timestamp"`
}

// ClearResponse is the body returned by POST /api/clear-history
type ClearResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SearchRequest is the body of POST /api/search
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SearchResponse is the body returned by POST /api/search
type SearchResponse struct {
	Success   bool          `json:"success"`
	Results   []ContextItem `json:"results"`
	Count     int           `json:"count"`
	Timestamp string        `json:"timestamp"`
}

package api

import (
	"context"
	"net/http"

	apierrors "github.com/avocarbon/kbchat/internal/errors"
	"github.com/avocarbon/kbchat/internal/models"
)

// DefaultTopK is the context retrieval size sent with every chat turn
const DefaultTopK = 8

// SendMessage posts one chat turn to the backend. A 2xx response with
// success=false or a missing message is an ApplicationError carrying the
// server-supplied error string when present.
func (c *Client) SendMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Message == "" {
		msg := resp.Error
		if msg == "" {
			msg = "failed to get response from assistant"
		}
		return nil, apierrors.NewApplicationError("/api/chat", msg)
	}

	return &resp, nil
}

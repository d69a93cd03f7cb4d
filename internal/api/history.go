package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	apierrors "github.com/avocarbon/kbchat/internal/errors"
	"github.com/avocarbon/kbchat/internal/models"
)

// History fetches a bounded page of prior messages for a conversation
func (c *Client) History(ctx context.Context, limit, offset int, conversationID string) (*models.HistoryResponse, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	if conversationID != "" {
		q.Set("conversation_id", conversationID)
	}

	path := "/api/history?" + q.Encode()
	var resp models.HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, apierrors.NewApplicationError("/api/history", "history request was not successful")
	}

	return &resp, nil
}

// ClearHistory wipes the server-side conversation history
func (c *Client) ClearHistory(ctx context.Context) (*models.ClearResponse, error) {
	var resp models.ClearResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/clear-history", nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, apierrors.NewApplicationError("/api/clear-history", "clear history was not successful")
	}

	return &resp, nil
}

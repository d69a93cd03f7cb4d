package api

import (
	"context"
	"net/http"

	apierrors "github.com/avocarbon/kbchat/internal/errors"
	"github.com/avocarbon/kbchat/internal/models"
)

// Search queries the knowledge base directly, without a chat turn
func (c *Client) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	if req.TopK <= 0 {
		req.TopK = DefaultTopK
	}

	var resp models.SearchResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/search", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, apierrors.NewApplicationError("/api/search", "search was not successful")
	}

	return &resp, nil
}

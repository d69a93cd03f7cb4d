package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/avocarbon/kbchat/internal/errors"
)

// HealthStatus summarizes the /health probe. The payload shape is owned by
// the server; only the fields shown to the user are pulled out.
type HealthStatus struct {
	Status            string
	Version           string
	DatabaseConnected bool
	LLMConfigured     bool
	Raw               string
}

// Healthy reports whether the backend declared itself healthy
func (h *HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// Health probes GET /health
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	body, err := c.getRaw(ctx, "/health")
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.Exists() {
		return nil, apierrors.NewApplicationError("/health", "health response is not valid JSON")
	}

	return &HealthStatus{
		Status:            parsed.Get("status").String(),
		Version:           parsed.Get("version").String(),
		DatabaseConnected: parsed.Get("database_connected").Bool(),
		LLMConfigured:     parsed.Get("llm_configured").Bool(),
		Raw:               parsed.Raw,
	}, nil
}

// ServerConfig probes GET /config and returns the raw JSON document
func (c *Client) ServerConfig(ctx context.Context) (string, error) {
	body, err := c.getRaw(ctx, "/config")
	if err != nil {
		return "", err
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.Exists() {
		return "", apierrors.NewApplicationError("/config", "config response is not valid JSON")
	}

	return parsed.Raw, nil
}

// getRaw issues a GET and returns the undecoded body, with the same error
// mapping as doJSON.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apierrors.NewTimeoutError(path)
		}
		return nil, apierrors.NewTransportError(path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewServerError(resp.StatusCode, path, strings.TrimSpace(string(snippet)))
	}

	return io.ReadAll(resp.Body)
}

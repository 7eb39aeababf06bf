// Package rest implements library.Client against the remote HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"bibliobot/internal/library"
)

// DefaultBaseURL is the address the original deployment serves on.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Client talks to the library API. It holds the process-wide bearer
// token; no timeouts or cancellation are applied beyond what the
// transport does on its own.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger

	mu    sync.RWMutex
	token string
}

// New creates a client for the API at baseURL. An empty baseURL falls
// back to the default local deployment address.
func New(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		logger:  logger,
	}
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently stored bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// authHeaders builds the headers for an API request: JSON content type
// always, Authorization only when a token is stored.
func (c *Client) authHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if t := c.Token(); t != "" {
		h.Set("Authorization", "Bearer "+t)
	}
	return h
}

// do issues one request and returns the status and raw body. A non-nil
// error here means the exchange never completed (network failure).
func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header = c.authHeaders()

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("Request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// envelope decodes a response body as a JSON object. Non-JSON bodies are
// wrapped as {"mensagem": rawText} rather than treated as a hard error.
func envelope(raw []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return map[string]any{"mensagem": strings.TrimSpace(string(raw))}
	}
	return m
}

// apiError builds an APIError from a non-2xx response, preferring the
// server's "erro" text, then "mensagem".
func apiError(status int, raw []byte) *library.APIError {
	env := envelope(raw)
	msg, _ := env["erro"].(string)
	if msg == "" {
		msg, _ = env["mensagem"].(string)
	}
	return &library.APIError{Status: status, Message: msg}
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// message extracts the server's human-readable confirmation text.
func message(raw []byte) string {
	env := envelope(raw)
	if s, _ := env["mensagem"].(string); s != "" {
		return s
	}
	s, _ := env["erro"].(string)
	return s
}

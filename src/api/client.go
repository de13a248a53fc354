package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// TokenSource supplies the bearer token attached to authorized calls.
// The session manager implements it; a refresh may happen inside.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	baseURL string
	tokens  TokenSource
	hc      *http.Client
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetTokenSource wires the session manager in after construction;
// the manager itself needs the client for login and refresh calls.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// APIError is the normalized failure shape for every backend call.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

// do runs one request against the backend. A non-2xx response is
// converted to an *APIError carrying the operation name and whatever
// message the backend put in its body.
func (c *Client) do(ctx context.Context, op, method, path string, body any, out any, authorized bool) error {
	var reader io.Reader
	if body != nil {
		rbytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: json.Marshal: %w", op, err)
		}
		reader = bytes.NewReader(rbytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: http.NewRequest: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authorized && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("%s: token: %w", op, err)
		}
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http.Do: %w", op, err)
	}
	defer resp.Body.Close()

	rbytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: io.ReadAll: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Op: op, Status: resp.StatusCode, Message: errorMessage(rbytes, resp.StatusCode)}
	}
	if out != nil && len(rbytes) > 0 {
		if err := json.Unmarshal(rbytes, out); err != nil {
			return fmt.Errorf("%s: json.Unmarshal: %w", op, err)
		}
	}
	return nil
}

// errorMessage probes the loosely shaped error bodies the backend
// returns ({"error": ...} or {"message": ...}).
func errorMessage(body []byte, status int) string {
	if msg := gjson.GetBytes(body, "error").String(); msg != "" {
		return msg
	}
	if msg := gjson.GetBytes(body, "message").String(); msg != "" {
		return msg
	}
	return http.StatusText(status)
}

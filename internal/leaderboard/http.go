package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is where the leaderboard API is mounted by default.
const DefaultBaseURL = "http://localhost:8081/api/v1/leaderboard"

// HTTPClient talks to the leaderboard service's JSON API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client with a bounded per-request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	UserID   int      `json:"user_id"`
	Score    int      `json:"score"`
	GameMode GameMode `json:"game_mode"`
}

// Submit posts a score to /submit.
func (c *HTTPClient) Submit(ctx context.Context, userID, score int, mode GameMode) error {
	body, err := json.Marshal(submitRequest{UserID: userID, Score: score, GameMode: mode})
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	_, err = c.do(ctx, "submit", http.MethodPost, "/submit", body)
	return err
}

// Top fetches /top and truncates it to n entries.
func (c *HTTPClient) Top(ctx context.Context, n int) ([]Entry, error) {
	data, err := c.do(ctx, "top", http.MethodGet, "/top", nil)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	if !data.IsArray() {
		if data.Type == gjson.Null {
			return entries, nil
		}

		return nil, &TransportError{Op: "top", Err: fmt.Errorf("expected array in data, got %s", data.Type)}
	}

	for _, item := range data.Array() {
		if n > 0 && len(entries) == n {
			break
		}

		entries = append(entries, Entry{
			ID:         int(item.Get("id").Int()),
			UserID:     int(item.Get("user_id").Int()),
			TotalScore: int(item.Get("total_score").Int()),
			Rank:       int(item.Get("rank").Int()),
		})
	}

	return entries, nil
}

// RankOf fetches /rank/{userID}.
func (c *HTTPClient) RankOf(ctx context.Context, userID int) (Standing, error) {
	data, err := c.do(ctx, "rank", http.MethodGet, fmt.Sprintf("/rank/%d", userID), nil)
	if err != nil {
		return Standing{}, err
	}

	if !data.IsObject() || !data.Get("user_id").Exists() {
		return Standing{}, fmt.Errorf("rank %d: %w", userID, ErrNotFound)
	}

	return Standing{
		UserID:     int(data.Get("user_id").Int()),
		TotalScore: int(data.Get("total_score").Int()),
		Rank:       int(data.Get("rank").Int()),
	}, nil
}

// do issues one request and unwraps the {"success": ..., "data": ...} envelope.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, body []byte) (gjson.Result, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return gjson.Result{}, &TransportError{Op: op, Err: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return gjson.Result{}, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(raw)
		if resp.StatusCode == http.StatusNotFound || isNotFound(resp.StatusCode, msg) {
			return gjson.Result{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return gjson.Result{}, &TransportError{Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("invalid JSON response: %q", truncate(string(raw)))}
	}

	envelope := gjson.ParseBytes(raw)
	if success := envelope.Get("success"); success.Exists() && !success.Bool() {
		return gjson.Result{}, &TransportError{Op: op, Status: resp.StatusCode, Err: errors.New(errorMessage(raw))}
	}

	return envelope.Get("data"), nil
}

// errorMessage extracts the most descriptive error text from a response body.
func errorMessage(raw []byte) string {
	for _, path := range []string{"error.message", "error", "message"} {
		if v := gjson.GetBytes(raw, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "empty response"
	}

	return truncate(text)
}

// isNotFound reports whether a client error is the service's "no such record"
// answer, which it surfaces as a 400 rather than a 404.
func isNotFound(status int, msg string) bool {
	return status >= 400 && status < 500 && strings.Contains(strings.ToLower(msg), "not found")
}

func truncate(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}

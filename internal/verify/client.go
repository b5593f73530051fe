package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Verifier answers whether a free-text answer matches the accepted set for a
// room. Implementations may be remote; callers must treat any error as a
// negative result, never as success.
type Verifier interface {
	Verify(ctx context.Context, room int, answer string) (bool, error)
}

// Local checks answers in-process against precomputed sets. It never fails.
type Local struct {
	sets Sets
}

func NewLocal(sets Sets) *Local {
	return &Local{sets: sets}
}

func (l *Local) Verify(_ context.Context, room int, answer string) (bool, error) {
	return l.sets.Check(room, answer), nil
}

// CheckRequest is the wire format of the verification endpoint.
type CheckRequest struct {
	Level  int    `json:"level"`
	Answer string `json:"answer"`
}

// CheckResponse encodes the verdict. Failure categories ride in Reason;
// the HTTP status is 200 either way.
type CheckResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Client calls a remote verification endpoint. Transport failures,
// non-success statuses, and malformed bodies all surface as errors so the
// state machine can fail closed.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Verify(ctx context.Context, room int, answer string) (bool, error) {
	body, err := json.Marshal(CheckRequest{Level: room, Answer: answer})
	if err != nil {
		return false, fmt.Errorf("encoding check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("building check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("calling verifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verifier returned status %d", resp.StatusCode)
	}

	var out CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decoding verifier response: %w", err)
	}
	return out.OK, nil
}

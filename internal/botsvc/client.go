package botsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemtable/internal/ai"
)

// Client talks to a remote bot-decision service over HTTP. Transport and
// decode failures surface as errors so the caller can substitute Fallback;
// they are never fatal.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates a client for the service at baseURL (e.g.
// "http://localhost:8001")
func NewClient(baseURL string, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.WithPrefix("botsvc"),
	}
}

// Decide posts the request to /decide and returns the service's decision
func (c *Client) Decide(ctx context.Context, req DecisionRequest) (ai.Decision, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ai.Decision{}, fmt.Errorf("encode decision request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/decide", bytes.NewReader(body))
	if err != nil {
		return ai.Decision{}, fmt.Errorf("build decision request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return ai.Decision{}, fmt.Errorf("bot service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ai.Decision{}, fmt.Errorf("bot service returned %s", resp.Status)
	}

	var decoded DecisionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ai.Decision{}, fmt.Errorf("decode decision response: %w", err)
	}

	c.logger.Debug("bot decision received", "action", decoded.Action, "rationale", decoded.Rationale)
	return decoded.Decision(), nil
}

// Healthy checks the service /health endpoint
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

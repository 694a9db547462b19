package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
)

const DefaultRelayURL = "http://localhost:3000/api/suggestions"

// maxBodyBytes bounds how much of a relay reply is read.
const maxBodyBytes = 1 << 20

var _ domain.SuggestionGateway = (*Client)(nil)

type Client struct {
	relayURL   string
	httpClient *http.Client
}

func NewClient(relayURL string, httpClient *http.Client) *Client {
	if relayURL == "" {
		relayURL = DefaultRelayURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		relayURL:   relayURL,
		httpClient: httpClient,
	}
}

type suggestionRequest struct {
	Goal string `json:"goal"`
}

type suggestionResponse struct {
	Habits []string `json:"habits"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) RequestSuggestions(ctx context.Context, goal string) ([]string, error) {
	payload, err := json.Marshal(suggestionRequest{Goal: goal})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Addr: c.relayURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.NetworkError{Addr: c.relayURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ServiceError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, body),
		}
	}

	var out suggestionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &domain.ServiceError{
			Status:  resp.StatusCode,
			Message: "malformed relay response",
		}
	}

	return domain.NormalizeSuggestions(out.Habits), nil
}

func (c *Client) RelayURL() string {
	return c.relayURL
}

func errorMessage(status int, body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && strings.TrimSpace(e.Error) != "" {
		return strings.TrimSpace(e.Error)
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

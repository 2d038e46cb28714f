package poster

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

	"go.uber.org/zap"
)

// maxPostLen is the platform's hard character limit
const maxPostLen = 280

// Client publishes posts through the platform's create-post endpoint.
// The platform is a black box: one request, one response.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         *zap.Logger
}

// NewClient creates a publishing client
func NewClient(baseURL, accessToken string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.x.com"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

// Publish posts the text and returns the platform-assigned post ID.
// Text over the character limit is truncated before sending.
func (c *Client) Publish(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("cannot publish an empty post")
	}
	if len(text) > maxPostLen {
		c.log.Warn("post too long, truncating", zap.Int("length", len(text)))
		text = text[:maxPostLen-3] + "..."
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to publish post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("platform API error: %d - %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Info("post published", zap.String("post_id", result.Data.ID))
	return result.Data.ID, nil
}

package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Article is one headline returned by the news provider
type Article struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
}

// Client fetches recent headlines from a MediaStack-compatible API
type Client struct {
	baseURL    string
	apiKey     string
	count      int
	httpClient *http.Client
	rng        *rand.Rand
	log        *zap.Logger
}

// NewClient creates a news client. The rand source drives the
// single-headline pick in Context; tests inject a fixed one.
func NewClient(baseURL, apiKey string, count int, rng *rand.Rand, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://api.mediastack.com/v1/news"
	}
	if count <= 0 {
		count = 10
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		count:      count,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		rng:        rng,
		log:        log,
	}
}

// TopHeadlines fetches the most recent English headlines for a topic
func (c *Client) TopHeadlines(ctx context.Context, topic string) ([]Article, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid news API URL: %w", err)
	}

	q := u.Query()
	q.Set("access_key", c.apiKey)
	q.Set("keywords", topic)
	q.Set("limit", strconv.Itoa(c.count))
	q.Set("languages", "en")
	q.Set("sort", "published_desc")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch headlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("news API error: %d - %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []Article `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Data, nil
}

// Context fetches headlines for a topic and formats one randomly
// picked article as generation context. Failures come back as a short
// sentence, never an error.
func (c *Client) Context(ctx context.Context, topic string) string {
	articles, err := c.TopHeadlines(ctx, topic)
	if err != nil {
		c.log.Error("failed to fetch news context", zap.String("topic", topic), zap.Error(err))
		return fmt.Sprintf("There was an error retrieving news about %s.", topic)
	}
	if len(articles) == 0 {
		return fmt.Sprintf("I couldn't find any recent news about %s.", topic)
	}

	article := articles[c.rng.Intn(len(articles))]

	var b strings.Builder
	fmt.Fprintf(&b, "Recent News Headlines about %s:\n\n", topic)
	fmt.Fprintf(&b, "1. %s\n", article.Title)

	source := article.Source
	if source == "" {
		source = "Unknown source"
	}
	published := article.PublishedAt
	if published == "" {
		published = "Unknown date"
	}
	fmt.Fprintf(&b, "   Source: %s | Published: %s\n", source, published)

	if article.Description != "" {
		summary := strings.TrimSpace(strings.ReplaceAll(article.Description, "\n", " "))
		fmt.Fprintf(&b, "   Summary: %s\n", summary)
	}
	if article.URL != "" {
		fmt.Fprintf(&b, "   URL: %s\n", article.URL)
	}

	return b.String()
}

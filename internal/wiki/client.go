package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// minFactLen filters out fragments too short to be a usable fact
const minFactLen = 50

// maxFactLen bounds the fact text included in generation context
const maxFactLen = 500

// Fact is one digestible paragraph about a topic
type Fact struct {
	Content string
	Topic   string
	Source  string
	URL     string
}

// Client fetches encyclopedic facts from the Wikipedia API
type Client struct {
	baseURL    string
	count      int
	httpClient *http.Client
	rng        *rand.Rand
	log        *zap.Logger
}

// NewClient creates a Wikipedia client. The rand source drives the
// single-fact pick in Context; tests inject a fixed one.
func NewClient(baseURL string, count int, rng *rand.Rand, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org/w/api.php"
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
		count:      count,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		rng:        rng,
		log:        log,
	}
}

// Facts fetches the plain-text extract of the article matching topic
// and splits it into paragraph-sized facts.
func (c *Client) Facts(ctx context.Context, topic string) ([]Fact, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid wiki API URL: %w", err)
	}

	q := u.Query()
	q.Set("action", "query")
	q.Set("prop", "extracts")
	q.Set("explaintext", "1")
	q.Set("redirects", "1")
	q.Set("format", "json")
	q.Set("titles", topic)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wiki extract: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("wiki API error: %d - %s", resp.StatusCode, string(body))
	}

	var result struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var extract string
	for _, page := range result.Query.Pages {
		if page.Extract != "" {
			extract = page.Extract
			break
		}
	}
	if extract == "" {
		return nil, nil
	}

	return c.processExtract(extract, topic), nil
}

// processExtract splits an article extract into paragraph facts,
// dropping fragments too short to stand alone.
func (c *Client) processExtract(extract, topic string) []Fact {
	articleURL := fmt.Sprintf("https://en.wikipedia.org/wiki/%s", strings.ReplaceAll(topic, " ", "_"))

	var facts []Fact
	for _, paragraph := range strings.Split(extract, "\n\n") {
		if len(facts) >= c.count {
			break
		}
		if len(paragraph) <= minFactLen {
			continue
		}
		facts = append(facts, Fact{
			Content: strings.TrimSpace(paragraph),
			Topic:   topic,
			Source:  "Wikipedia",
			URL:     articleURL,
		})
	}
	return facts
}

// Context fetches facts about a topic and formats one randomly picked
// fact as generation context. Failures come back as a short sentence,
// never an error.
func (c *Client) Context(ctx context.Context, topic string) string {
	facts, err := c.Facts(ctx, topic)
	if err != nil {
		c.log.Error("failed to fetch wiki context", zap.String("topic", topic), zap.Error(err))
		return fmt.Sprintf("There was an error retrieving Wikipedia information about %s.", topic)
	}
	if len(facts) == 0 {
		return fmt.Sprintf("I couldn't find any Wikipedia information about %s.", topic)
	}

	fact := facts[c.rng.Intn(len(facts))]

	content := fact.Content
	if len(content) > maxFactLen {
		content = content[:maxFactLen] + "..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wikipedia Information about %s:\n\n", topic)
	fmt.Fprintf(&b, "Fact: %s\n", content)
	fmt.Fprintf(&b, "Source: %s | URL: %s\n\n", fact.Source, fact.URL)

	return b.String()
}

package news

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func newsServer(t *testing.T, articles []Article) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("access_key"))
		assert.Equal(t, "en", q.Get("languages"))
		assert.Equal(t, "published_desc", q.Get("sort"))
		assert.NotEmpty(t, q.Get("keywords"))
		assert.NotEmpty(t, q.Get("limit"))

		json.NewEncoder(w).Encode(map[string][]Article{"data": articles})
	}))
}

func TestTopHeadlines(t *testing.T) {
	srv := newsServer(t, []Article{
		{Title: "Water found on Mars", Source: "BBC", URL: "https://example.com/a"},
		{Title: "Rover lands", Source: "Reuters"},
	})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 10, fixedRand(), nil)
	articles, err := c.TopHeadlines(context.Background(), "Mars")
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "Water found on Mars", articles[0].Title)
	assert.Equal(t, "BBC", articles[0].Source)
}

func TestContextFormatsArticle(t *testing.T) {
	srv := newsServer(t, []Article{{
		Title:       "Water found on Mars",
		Source:      "BBC",
		URL:         "https://example.com/a",
		Description: "A big\ndiscovery",
		PublishedAt: "2026-08-20T10:00:00+00:00",
	}})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 10, fixedRand(), nil)
	out := c.Context(context.Background(), "Mars")

	assert.Equal(t, "Recent News Headlines about Mars:\n\n"+
		"1. Water found on Mars\n"+
		"   Source: BBC | Published: 2026-08-20T10:00:00+00:00\n"+
		"   Summary: A big discovery\n"+
		"   URL: https://example.com/a\n", out)
}

func TestContextDefaultsMissingFields(t *testing.T) {
	srv := newsServer(t, []Article{{Title: "Water found on Mars"}})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 10, fixedRand(), nil)
	out := c.Context(context.Background(), "Mars")

	assert.Contains(t, out, "Source: Unknown source | Published: Unknown date\n")
	assert.NotContains(t, out, "Summary:")
	assert.NotContains(t, out, "URL:")
}

func TestContextNoResults(t *testing.T) {
	srv := newsServer(t, nil)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 10, fixedRand(), nil)
	out := c.Context(context.Background(), "Mars")
	assert.Equal(t, "I couldn't find any recent news about Mars.", out)
}

func TestContextNeverRaises(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"usage limit reached"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 10, fixedRand(), nil)
	out := c.Context(context.Background(), "Mars")
	assert.Equal(t, "There was an error retrieving news about Mars.", out)
}

func TestTopHeadlinesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid access key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key", 10, fixedRand(), nil)
	_, err := c.TopHeadlines(context.Background(), "Mars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

package poster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func platformServer(t *testing.T, requests *int, lastText *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		*lastText = payload.Text

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]map[string]string{
			"data": {"id": "1234567890"},
		})
	}))
}

func TestPublish(t *testing.T) {
	var requests int
	var lastText string
	srv := platformServer(t, &requests, &lastText)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", nil)
	id, err := c.Publish(context.Background(), "Hello world #go")
	require.NoError(t, err)

	assert.Equal(t, "1234567890", id)
	assert.Equal(t, "Hello world #go", lastText)
	assert.Equal(t, 1, requests)
}

func TestPublishRejectsEmptyPost(t *testing.T) {
	var requests int
	var lastText string
	srv := platformServer(t, &requests, &lastText)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", nil)

	_, err := c.Publish(context.Background(), "")
	require.Error(t, err)
	_, err = c.Publish(context.Background(), "   \n ")
	require.Error(t, err)

	assert.Zero(t, requests)
}

func TestPublishTruncatesOverlongPost(t *testing.T) {
	var requests int
	var lastText string
	srv := platformServer(t, &requests, &lastText)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", nil)
	_, err := c.Publish(context.Background(), strings.Repeat("x", 300))
	require.NoError(t, err)

	assert.Len(t, lastText, 280)
	assert.True(t, strings.HasSuffix(lastText, "..."))
}

func TestPublishAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", nil)
	_, err := c.Publish(context.Background(), "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

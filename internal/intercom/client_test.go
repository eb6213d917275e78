package intercom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gapscanhq/gapscan/internal/domain"
)

func TestFetchArticles_Paginated(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2.11", r.Header.Get("Intercom-Version"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"data": [{"id": 3, "title": "Renewals", "body": "..."}], "pages": {}}`)
			return
		}
		fmt.Fprintf(w, `{
			"data": [
				{"id": 1, "title": "Claims overview", "body": "How claims work", "url": "https://help.example.com/1"},
				{"id": 2, "title": "", "body": "untitled, skipped"}
			],
			"pages": {"next": %q}
		}`, server.URL+"/articles?page=2")
	}))
	defer server.Close()

	c, err := NewClient("test-token", server.URL, nil)
	require.NoError(t, err)

	articles, err := c.FetchArticles(context.Background())
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "1", articles[0].ID)
	assert.Equal(t, "Claims overview", articles[0].Title)
	assert.Equal(t, "https://help.example.com/1", articles[0].URL)
	assert.Equal(t, "3", articles[1].ID)
}

func TestFetchArticles_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors": [{"message": "bad token"}]}`)
	}))
	defer server.Close()

	c, err := NewClient("bad-token", server.URL, nil)
	require.NoError(t, err)

	_, err = c.FetchArticles(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCreateArticleFromDraft(t *testing.T) {
	var got createArticleRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/articles", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"id": 99, "title": "created", "state": "draft"}`)
	}))
	defer server.Close()

	c, err := NewClient("test-token", server.URL, nil)
	require.NoError(t, err)

	draft := domain.FAQDraft{
		Question: "How do I cancel my policy?",
		Variants: []string{"Can I cancel mid-term?"},
		Answer:   "Contact support to cancel.",
		Category: "cancellation",
	}

	id, err := c.CreateArticleFromDraft(context.Background(), draft, 7, false)
	require.NoError(t, err)

	assert.Equal(t, "99", id)
	assert.Equal(t, "How do I cancel my policy?", got.Title)
	assert.Equal(t, "draft", got.State)
	assert.Equal(t, int64(7), got.AuthorID)
	assert.Equal(t, "Can I cancel mid-term?", got.Description)
	assert.Contains(t, got.Body, "Contact support to cancel.")
	assert.Contains(t, got.Body, "**Related questions:**")
	assert.Contains(t, got.Body, "- Can I cancel mid-term?")
	assert.Contains(t, got.Body, "*Category: cancellation*")
}

func TestCreateArticleFromDraft_Publish(t *testing.T) {
	var got createArticleRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"id": 100}`)
	}))
	defer server.Close()

	c, err := NewClient("test-token", server.URL, nil)
	require.NoError(t, err)

	_, err = c.CreateArticleFromDraft(context.Background(), domain.FAQDraft{
		Question: "Q",
		Answer:   "A",
	}, 0, true)
	require.NoError(t, err)

	assert.Equal(t, "published", got.State)
	assert.Empty(t, got.Description)
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		fmt.Fprint(w, `{"type": "admin", "name": "Acme Support"}`)
	}))
	defer server.Close()

	c, err := NewClient("test-token", server.URL, nil)
	require.NoError(t, err)
	assert.NoError(t, c.TestConnection(context.Background()))
}

func TestTestConnection_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, err := NewClient("bad", server.URL, nil)
	require.NoError(t, err)
	assert.Error(t, c.TestConnection(context.Background()))
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient("", "", nil)
	assert.Error(t, err)
}

// Package intercom is a minimal client for the Intercom help-center API:
// article listing with pagination, article creation, and a connection
// check. It speaks API version 2.11.
package intercom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

const (
	defaultBaseURL = "https://api.intercom.io"
	apiVersion     = "2.11"
	perPage        = 50
)

// APIError represents an error response from the Intercom API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("intercom API error (%d): %s", e.StatusCode, e.Message)
}

// Client calls the Intercom REST API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a Client. baseURL may be empty to use the public API.
func NewClient(accessToken, baseURL string, logger *zap.Logger) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("intercom access token is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

type articlePayload struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	State       string      `json:"state"`
}

type articleListPayload struct {
	Data  []articlePayload `json:"data"`
	Pages struct {
		Next string `json:"next"`
	} `json:"pages"`
}

// FetchArticles lists every help-center article, following pagination.
func (c *Client) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	var articles []domain.Article
	url := fmt.Sprintf("%s/articles?per_page=%d", c.baseURL, perPage)

	for url != "" {
		var page articleListPayload
		if err := c.do(ctx, http.MethodGet, url, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch articles: %w", err)
		}

		for _, payload := range page.Data {
			article := domain.Article{
				ID:    payload.ID.String(),
				Title: payload.Title,
				Body:  payload.Body,
				URL:   payload.URL,
			}
			if err := domain.ValidateArticle(&article); err != nil {
				c.logger.Warn("skipping invalid article",
					zap.String("id", article.ID),
					zap.Error(err))
				continue
			}
			articles = append(articles, article)
		}

		// Next page URLs from the API are absolute and carry their own params.
		url = page.Pages.Next
	}

	c.logger.Info("fetched articles", zap.Int("count", len(articles)))
	return articles, nil
}

type createArticleRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Description string `json:"description,omitempty"`
	AuthorID    int64  `json:"author_id,omitempty"`
	State       string `json:"state"`
}

// CreateArticleFromDraft creates a help-center article from an FAQ draft.
// Articles go up as drafts unless publish is set.
func (c *Client) CreateArticleFromDraft(ctx context.Context, draft domain.FAQDraft, authorID int64, publish bool) (string, error) {
	body := draft.Answer
	if len(draft.Variants) > 0 {
		var b strings.Builder
		b.WriteString(body)
		b.WriteString("\n\n**Related questions:**\n")
		for _, variant := range draft.Variants {
			fmt.Fprintf(&b, "- %s\n", variant)
		}
		body = b.String()
	}
	if draft.Category != "" {
		body += fmt.Sprintf("\n\n*Category: %s*", draft.Category)
	}

	state := "draft"
	if publish {
		state = "published"
	}

	req := createArticleRequest{
		Title:    draft.Question,
		Body:     body,
		AuthorID: authorID,
		State:    state,
	}
	if len(draft.Variants) > 0 {
		req.Description = draft.Variants[0]
	}

	var created articlePayload
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/articles", req, &created); err != nil {
		return "", fmt.Errorf("failed to create article %q: %w", draft.Question, err)
	}

	c.logger.Info("created article",
		zap.String("id", created.ID.String()),
		zap.String("title", draft.Question),
		zap.String("state", state))
	return created.ID.String(), nil
}

// TestConnection verifies the access token against the identity endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	var me struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/me", nil, &me); err != nil {
		return fmt.Errorf("intercom connection check failed: %w", err)
	}
	c.logger.Info("intercom connection ok", zap.String("workspace", me.Name))
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Intercom-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

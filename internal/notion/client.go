// Package notion fetches database rows and their block content from the
// Notion HTTP API and converts them into the content model.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"git.home.luguber.info/inful/notionsync/internal/content"
	syncerrors "git.home.luguber.info/inful/notionsync/internal/errors"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
	pageSize       = 100
)

// ClientConfig configures the API client. Token is required.
type ClientConfig struct {
	Token   string
	BaseURL string        // defaults to the public API endpoint
	Timeout time.Duration // per-request timeout, defaults to 30s
}

// Client talks to the Notion API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Notion API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, syncerrors.ConfigError("notion client requires an integration token")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      cfg.Token,
	}, nil
}

// FetchPages returns every row of the database as a fully populated
// PageRecord: title, type label, and the page's complete block content.
// Both the database query and each page's block listing follow the API's
// cursor pagination to completion, so the result is a complete snapshot.
func (c *Client) FetchPages(ctx context.Context, databaseID string) ([]content.PageRecord, error) {
	rows, err := c.queryDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	records := make([]content.PageRecord, 0, len(rows))
	for _, row := range rows {
		blocks, err := c.listBlockChildren(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		record := content.PageRecord{
			ID:        row.ID,
			Title:     titleProperty(row.Properties),
			TypeLabel: typeProperty(row.Properties),
			Blocks:    blocks,
		}
		slog.Debug("Fetched page",
			logfields.PageID(record.ID),
			logfields.Page(record.Title),
			logfields.PageType(record.TypeLabel),
			logfields.Count(len(record.Blocks)))
		records = append(records, record)
	}
	return records, nil
}

// queryDatabase pages through POST /v1/databases/{id}/query.
func (c *Client) queryDatabase(ctx context.Context, databaseID string) ([]pageObject, error) {
	var rows []pageObject
	cursor := ""
	for {
		body := queryRequest{StartCursor: cursor, PageSize: pageSize}
		req, err := c.newRequest(ctx, http.MethodPost, "/v1/databases/"+url.PathEscape(databaseID)+"/query", body)
		if err != nil {
			return nil, err
		}

		var resp queryResponse
		if err := c.doRequest(req, &resp); err != nil {
			return nil, err
		}
		rows = append(rows, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			return rows, nil
		}
		cursor = resp.NextCursor
	}
}

// listBlockChildren pages through GET /v1/blocks/{id}/children, dropping
// blocks that carry nothing renderable.
func (c *Client) listBlockChildren(ctx context.Context, blockID string) ([]content.Block, error) {
	var blocks []content.Block
	cursor := ""
	for {
		endpoint := "/v1/blocks/" + url.PathEscape(blockID) + "/children?page_size=" + fmt.Sprint(pageSize)
		if cursor != "" {
			endpoint += "&start_cursor=" + url.QueryEscape(cursor)
		}
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		var resp blockListResponse
		if err := c.doRequest(req, &resp); err != nil {
			return nil, err
		}
		for _, raw := range resp.Results {
			if block, ok := convertBlock(raw); ok {
				blocks = append(blocks, block)
			}
		}

		if !resp.HasMore || resp.NextCursor == "" {
			return blocks, nil
		}
		cursor = resp.NextCursor
	}
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("User-Agent", "notionsync/1.0")
	return req, nil
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return syncerrors.Wrap(err, syncerrors.CategoryNetwork, syncerrors.SeverityFatal,
			"notion api request failed").WithContext("url", req.URL.String())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return syncerrors.New(syncerrors.CategoryNotion, syncerrors.SeverityFatal,
			fmt.Sprintf("notion api error: %s", resp.Status)).
			WithContext("status", resp.StatusCode).
			WithContext("body", string(snippet))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

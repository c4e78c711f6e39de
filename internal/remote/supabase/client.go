// Package supabase implements the remote.Service boundary against a
// Supabase project's PostgREST endpoint.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"fatture/internal/remote"
)

// Config configures the client. APIKey is sent both as the apikey header
// and as a Bearer token, the way PostgREST expects for service keys.
type Config struct {
	ProjectURL string
	APIKey     string
	// HTTPClient overrides the default pooled client, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	http   *http.Client
	prefix string
	apiKey string
}

var _ remote.Service = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectURL) == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newPooledHTTPClient()
	}
	return &Client{
		http:   httpClient,
		prefix: strings.TrimRight(cfg.ProjectURL, "/") + "/rest/v1",
		apiKey: cfg.APIKey,
	}, nil
}

func newPooledHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}

func (c *Client) Select(ctx context.Context, table string, filter remote.Filter) ([]json.RawMessage, error) {
	body, _, err := c.do(ctx, http.MethodGet, c.tableURL(table, filter), nil, false)
	if err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode select response: %w", err)
	}
	return rows, nil
}

func (c *Client) Insert(ctx context.Context, table string, payload any) (json.RawMessage, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal insert body: %w", err)
	}
	body, _, err := c.do(ctx, http.MethodPost, c.tableURL(table, nil), reqBody, true)
	if err != nil {
		return nil, err
	}
	return firstRow(body)
}

func (c *Client) Update(ctx context.Context, table, id string, patch map[string]any) (json.RawMessage, error) {
	reqBody, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch body: %w", err)
	}
	u := c.tableURL(table, remote.Filter{"id": id})
	body, _, err := c.do(ctx, http.MethodPatch, u, reqBody, true)
	if err != nil {
		return nil, err
	}
	return firstRow(body)
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	u := c.tableURL(table, remote.Filter{"id": id})
	body, _, err := c.do(ctx, http.MethodDelete, u, nil, true)
	if err != nil {
		return err
	}
	// An empty representation means the filter matched nothing.
	if _, err := firstRow(body); err != nil {
		return err
	}
	return nil
}

// tableURL builds {prefix}/{table}?col=eq.val&... with deterministic
// parameter order.
func (c *Client) tableURL(table string, filter remote.Filter) string {
	u := c.prefix + "/" + url.PathEscape(table)
	if len(filter) == 0 {
		return u
	}
	cols := make([]string, 0, len(filter))
	for col := range filter {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	params := url.Values{}
	for _, col := range cols {
		params.Set(col, "eq."+filter[col])
	}
	return u + "?" + params.Encode()
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, representation bool) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if representation {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, remote.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return nil, resp.StatusCode, fmt.Errorf("%s: %w", strings.TrimSpace(string(respBody)), remote.ErrConstraint)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, resp.StatusCode, fmt.Errorf("remote service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, resp.StatusCode, nil
}

// firstRow unwraps PostgREST's array-of-representations; an empty array
// means the targeted row does not exist.
func firstRow(body []byte) (json.RawMessage, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		// A single object is returned with some Accept profiles; pass it through.
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return json.RawMessage(trimmed), nil
		}
		return nil, fmt.Errorf("decode representation: %w", err)
	}
	if len(rows) == 0 {
		return nil, remote.ErrNotFound
	}
	return rows[0], nil
}

// Package sanity implements the content-store port against a Sanity-style
// Content Lake HTTP API: declarative filter+projection queries, inline
// reference dereferencing, and a published/draft perspective toggle.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pagesmith/pagesmith/internal/domain"
	"github.com/pagesmith/pagesmith/internal/resilience"
)

// Perspective selects which document set queries run against.
const (
	PerspectivePublished = "published"
	PerspectiveDrafts    = "previewDrafts"
)

// Config parameterizes a client. Nothing tenant-specific beyond the
// dataset lives here: the client is a parameterized connection factory.
type Config struct {
	BaseURL     string // override for testing; normally derived from ProjectID
	ProjectID   string
	Dataset     string
	APIVersion  string
	UseCDN      bool
	Perspective string
	Token       string // optional; required for draft perspective
	Timeout     time.Duration
}

// Client queries one dataset of the content store.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewClient creates a client bound to cfg.Dataset.
func NewClient(cfg Config) *Client {
	if cfg.Perspective == "" {
		cfg.Perspective = PerspectivePublished
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing queries.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Dataset returns the dataset this client is bound to.
func (c *Client) Dataset() string {
	return c.cfg.Dataset
}

// Live returns a copy of the client configured for draft/preview content:
// draft perspective, CDN bypassed. Requires a token; returns the client
// unchanged when none is configured.
func (c *Client) Live() *Client {
	if c.cfg.Token == "" {
		return c
	}
	cfg := c.cfg
	cfg.Perspective = PerspectiveDrafts
	cfg.UseCDN = false
	live := NewClient(cfg)
	live.breaker = c.breaker
	return live
}

// Query runs a query with parameters and returns the raw result JSON.
// The result is "null" when nothing matched; typed decoding is the
// caller's concern.
func (c *Client) Query(ctx context.Context, query string, params map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(struct {
		Query  string         `json:"query"`
		Params map[string]any `json:"params,omitempty"`
	}{Query: query, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	var result json.RawMessage
	do := func(ctx context.Context) error {
		var reqErr error
		result, reqErr = c.doQuery(ctx, body)
		return reqErr
	}

	if c.breaker != nil {
		err = c.breaker.Do(ctx, do)
	} else {
		err = do(ctx)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) doQuery(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content store status %d: %s", resp.StatusCode, truncate(data, 200))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return envelope.Result, nil
}

// queryURL builds the dataset-scoped query endpoint. The CDN host serves
// cached published content; the API host serves fresh and draft content.
func (c *Client) queryURL() string {
	base := c.cfg.BaseURL
	if base == "" {
		host := "api.sanity.io"
		if c.cfg.UseCDN && c.cfg.Perspective == PerspectivePublished {
			host = "apicdn.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", c.cfg.ProjectID, host)
	}
	return fmt.Sprintf("%s/v%s/data/query/%s?perspective=%s",
		base, c.cfg.APIVersion, c.cfg.Dataset, c.cfg.Perspective)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

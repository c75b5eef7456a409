package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/perch/internal/feed"
)

// Fetcher defines the read side of the reader API. It is implemented by
// *Client and can be faked in tests.
type Fetcher interface {
	FetchFeeds(ctx context.Context) ([]feed.Feed, error)
	FetchEntries(ctx context.Context, query EntryQuery) ([]feed.Entry, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the reader server HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultServer    = "127.0.0.1:8080"
	defaultUserAgent = "perch/0.1"
	requestTimeout   = 10 * time.Second

	// UpdatePath is the fixed resource that asks the server to refresh every feed.
	UpdatePath = "/api/feeds/update"
)

// NewClient builds a Client using the provided host:port or URL.
func NewClient(server string) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchFeeds retrieves every subscribed feed.
func (c *Client) FetchFeeds(ctx context.Context) ([]feed.Feed, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload FeedListResponse
	if err := c.do(ctx, http.MethodGet, "/api/feeds", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Feeds, nil
}

// EntryQuery configures /api/entries requests.
type EntryQuery struct {
	Filter string // "", "starred" or "unread"
	FeedID int64
	Limit  int
}

// FetchEntries retrieves entries matching query.
func (c *Client) FetchEntries(ctx context.Context, query EntryQuery) ([]feed.Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if filter := strings.TrimSpace(query.Filter); filter != "" {
		values.Set("filter", filter)
	}
	if query.FeedID > 0 {
		values.Set("feed", strconv.FormatInt(query.FeedID, 10))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	rel := &url.URL{Path: "/api/entries", RawQuery: values.Encode()}
	var payload EntryListResponse
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Entries, nil
}

// Subscribe asks the server to add the feed at feedURL and returns the stored feed.
func (c *Client) Subscribe(ctx context.Context, feedURL string) (feed.Feed, error) {
	if c == nil {
		return feed.Feed{}, fmt.Errorf("client is nil")
	}
	trimmed := strings.TrimSpace(feedURL)
	if trimmed == "" {
		return feed.Feed{}, fmt.Errorf("feed url required")
	}
	body, err := json.Marshal(SubscribeRequest{URL: trimmed})
	if err != nil {
		return feed.Feed{}, fmt.Errorf("encode request: %w", err)
	}
	var payload feed.Feed
	if err := c.do(ctx, http.MethodPost, "/api/feeds", body, &payload); err != nil {
		return feed.Feed{}, err
	}
	return payload, nil
}

// Unsubscribe removes the feed with the given ID.
func (c *Client) Unsubscribe(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("feed id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/feeds/"+strconv.FormatInt(id, 10), nil, nil)
}

// TriggerUpdate asks the server to refresh every feed. The request carries
// no payload and the response body is never read.
func (c *Client) TriggerUpdate(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, UpdatePath, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body []byte, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var payload io.Reader
	if body != nil {
		payload = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

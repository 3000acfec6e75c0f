package ovh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Response is the normalized result of one dispatched call. The client sets
// OK from the transport status and keeps the body as raw JSON; it never
// interprets statuses beyond that. Callers decide what a 403 or 404 means.
type Response struct {
	StatusCode int
	OK         bool // 2xx
	Header     http.Header
	Body       json.RawMessage
}

// Into decodes the response body into v.
func (r *Response) Into(v any) error {
	if len(r.Body) == 0 {
		return errors.New("ovh: empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// Client dispatches signed calls against one API endpoint with one set of
// application credentials. The consumer key is the only mutable state; one
// authenticated session per Client instance; concurrent multi-session use
// needs one Client per session.
type Client struct {
	AppKey   string
	Endpoint string // resolved origin, e.g. https://eu.api.ovh.com/1.0

	appSecret string

	mu          sync.RWMutex
	consumerKey string

	HTTP   *http.Client
	Logger zerolog.Logger

	now func() time.Time
}

// NewClient builds a client for the given endpoint alias (see Endpoints) or
// raw http(s) URL. The application key/secret pair is mandatory.
func NewClient(endpoint, appKey, appSecret string) (*Client, error) {
	if appKey == "" || appSecret == "" {
		return nil, errors.New("ovh: missing application key or application secret")
	}

	origin, ok := Endpoints[endpoint]
	if !ok {
		if !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "http://") {
			return nil, fmt.Errorf("ovh: unknown endpoint %q", endpoint)
		}
		origin = strings.TrimRight(endpoint, "/")
	}

	return &Client{
		AppKey:    appKey,
		Endpoint:  origin,
		appSecret: appSecret,
		HTTP:      &http.Client{Timeout: 20 * time.Second},
		Logger:    zerolog.Nop(),
		now:       time.Now,
	}, nil
}

// ConsumerKey returns the current consumer key, empty when unauthenticated.
func (c *Client) ConsumerKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.consumerKey
}

// SetConsumerKey switches the client to authenticated mode. Calls already
// in flight keep the key they snapshotted when their headers were built.
func (c *Client) SetConsumerKey(ck string) {
	c.mu.Lock()
	c.consumerKey = ck
	c.mu.Unlock()
}

// ClearConsumerKey reverts the client to application-only calls.
func (c *Client) ClearConsumerKey() {
	c.SetConsumerKey("")
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}

func (c *Client) request(ctx context.Context, method, path string, body any) (*Response, error) {
	url := c.Endpoint + path

	payload := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ovh: marshal request body: %w", err)
		}
		payload = string(b)
	}

	// Single read, reused for the header and the signature.
	ts := c.now().Unix()

	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Ovh-Application", c.AppKey)
	req.Header.Set("X-Ovh-Timestamp", strconv.FormatInt(ts, 10))

	// Snapshot the consumer key once so a concurrent SetConsumerKey cannot
	// split this call between two sessions.
	if ck := c.ConsumerKey(); ck != "" {
		req.Header.Set("X-Ovh-Consumer", ck)
		req.Header.Set("X-Ovh-Signature", Sign(c.appSecret, ck, method, url, payload, ts))
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.Logger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")

	out := &Response{
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Header:     resp.Header,
	}
	if len(raw) > 0 {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("ovh: non-JSON response body (status %d)", resp.StatusCode)
		}
		out.Body = raw
	}
	return out, nil
}

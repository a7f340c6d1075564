// Package vk is a minimal VK API client covering the wall methods the
// mirror needs.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wallmirror/internal/middleware"
	"wallmirror/internal/models"
)

const defaultBaseURL = "https://api.vk.com/method"

// MaxPageSize is the per-call item cap enforced by the wall API.
const MaxPageSize = 100

// Client issues paginated wall requests and normalizes protocol errors into
// typed failures.
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new VK API client.
func NewClient(token, version string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		version: version,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: middleware.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError is the error envelope the API returns inside a 200 response.
type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

type apiEnvelope struct {
	Error    *apiError       `json:"error"`
	Response json.RawMessage `json:"response"`
}

// WallGet fetches one page of the owner's wall. count is capped at
// MaxPageSize. Extended mode is always requested so the group side-table
// arrives in the same call and owning-group names can be resolved without a
// second round trip.
func (c *Client) WallGet(ctx context.Context, owner string, count, offset int) (*WallPage, error) {
	if count > MaxPageSize {
		count = MaxPageSize
	}

	params := url.Values{}
	params.Set("domain", owner)
	params.Set("count", strconv.Itoa(count))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("extended", "1")
	params.Set("fields", "name")

	var page WallPage
	if err := c.get(ctx, "wall.get", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) get(ctx context.Context, method string, params url.Values, result any) error {
	params.Set("access_token", c.token)
	params.Set("v", c.version)

	endpoint := c.baseURL + "/" + method
	c.logger.InfoContext(ctx, "VK API request",
		slog.String("method", method),
		slog.String("url", endpoint),
		slog.String("access_token", redacted(c.token)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.NewTransportError("create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.NewTransportError("send request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NewTransportError("read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.NewTransportError(
			fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, method), nil)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.NewTransportError("unmarshal response", err)
	}

	if envelope.Error != nil {
		return models.NewRemoteProtocolError(envelope.Error.Code, envelope.Error.Message)
	}

	if result != nil && len(envelope.Response) > 0 {
		if err := json.Unmarshal(envelope.Response, result); err != nil {
			return models.NewTransportError("unmarshal response payload", err)
		}
	}

	return nil
}

func redacted(token string) string {
	if token == "" {
		return ""
	}
	return "<redacted>"
}

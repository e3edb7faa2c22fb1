// Package ipapi looks up countries through the ip-api.com JSON endpoint.
package ipapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"oceangate/internal/geo"
)

const (
	// DefaultBaseURL is the public ip-api JSON endpoint.
	DefaultBaseURL = "http://ip-api.com/json"

	// SourceName identifies this locator in logs and metrics.
	SourceName = "ip-api"

	maxResponseBytes = 4 << 10
)

// Client queries ip-api for the country code of an address. Only the
// countryCode field is requested. Requests are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for baseURL. timeout bounds each request in addition
// to any deadline on the caller's context.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is the subset of the ip-api payload we read. status and message
// only appear when the service reports a failed query.
type response struct {
	CountryCode string `json:"countryCode"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// Locate resolves ip. An address ip-api cannot place (private range,
// malformed input) yields an empty Result and no error.
func (c *Client) Locate(ctx context.Context, ip string) (geo.Result, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(ip) + "?fields=countryCode"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return geo.Result{}, geo.NewLocatorError(geo.ErrorInternal, SourceName, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return geo.Result{}, geo.NewLocatorError(geo.ErrorTimeout, SourceName, "request timed out", err)
		}
		return geo.Result{}, geo.NewLocatorError(geo.ErrorProviderOutage, SourceName, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return geo.Result{}, geo.NewLocatorError(geo.ErrorTimeout, SourceName, "read timed out", err)
		}
		return geo.Result{}, geo.NewLocatorError(geo.ErrorProviderOutage, SourceName, "read response", err)
	}

	return parseResponse(resp.StatusCode, body)
}

func parseResponse(status int, body []byte) (geo.Result, error) {
	if status < 200 || status > 299 {
		return geo.Result{}, geo.NewLocatorError(geo.ErrorProviderOutage, SourceName, fmt.Sprintf("unexpected status %d", status), nil)
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return geo.Result{}, geo.NewLocatorError(geo.ErrorBadData, SourceName, "decode response", err)
	}

	return geo.Result{CountryCode: strings.TrimSpace(r.CountryCode), Source: SourceName}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

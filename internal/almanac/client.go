// Package almanac queries the USNO one-day almanac for the moon's phase.
package almanac

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/litescript/ls-moonphase/internal/version"
)

const (
	// DefaultBaseURL is the USNO "complete sun and moon data for one day"
	// endpoint.
	DefaultBaseURL = "https://aa.usno.navy.mil/api/rstt/oneday"

	// DefaultLocation is the place the almanac is asked about when none is
	// configured.
	DefaultLocation = "San Francisco, CA"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// dateLayout is the MM/DD/YYYY form the endpoint expects.
	dateLayout = "01/02/2006"

	// maxErrorBody caps how much of a failed response is quoted in errors.
	maxErrorBody = 512
)

// Client fetches one-day almanac data.
type Client struct {
	client   *http.Client
	baseURL  string
	location string
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom endpoint URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLocation sets the "City, ST" location sent with each query.
func WithLocation(loc string) Option {
	return func(c *Client) {
		c.location = loc
	}
}

// NewClient creates a new almanac client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		location: DefaultLocation,
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// Fetch retrieves and parses the almanac for the calendar day of t, taken
// in t's location.
func (c *Client) Fetch(ctx context.Context, t time.Time) (*Response, error) {
	body, err := c.FetchRaw(ctx, t)
	if err != nil {
		return nil, err
	}

	resp, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse almanac data: %w", err)
	}

	return resp, nil
}

// FetchRaw retrieves the raw JSON bytes without parsing.
func (c *Client) FetchRaw(ctx context.Context, t time.Time) ([]byte, error) {
	target, err := c.RequestURL(t)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "ls-moonphase/"+version.Version)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch almanac: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(snippet)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// RequestURL builds the query URL for the calendar day of t.
func (c *Client) RequestURL(t time.Time) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("date", t.Format(dateLayout))
	q.Set("loc", c.location)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Location returns the configured location.
func (c *Client) Location() string {
	return c.location
}

// StatusError is returned when the almanac answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}

package ephem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// DefaultProxyURL is the planet-data endpoint served by `ls-orrery -serve :3000`.
	DefaultProxyURL = "http://localhost:3000/planet-data"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// DateLayout is the query date format.
	DateLayout = "2006-01-02"
)

var (
	// ErrStatus is returned for a non-2xx response.
	ErrStatus = errors.New("unexpected status")

	// ErrNoResult is returned when the response JSON lacks a "result" text.
	ErrNoResult = errors.New("response has no result")
)

// Client fetches ephemeris text for a catalog command and date.
type Client struct {
	client  *http.Client
	baseURL string
	mode    Mode
	timeout time.Duration
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the endpoint queried by the client.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithMode selects the query style.
func WithMode(m Mode) Option {
	return func(c *Client) {
		c.mode = m
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

// WithRateLimit paces requests to r per second with the given burst.
// A non-positive r disables pacing.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// NewClient creates an ephemeris client. Without options it queries the
// local planet-data proxy.
func NewClient(opts ...Option) *Client {
	c := &Client{
		mode:    ModeProxy,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		c.baseURL = c.mode.DefaultBaseURL()
	}
	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// Mode returns the configured query style.
func (c *Client) Mode() Mode {
	return c.mode
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchResult contains the result of a fetch operation.
type FetchResult struct {
	Command   string
	Date      time.Time
	Result    string
	FetchedAt time.Time
	Duration  time.Duration
	Error     error
}

// Fetch retrieves the ephemeris text for a command on a date.
func (c *Client) Fetch(ctx context.Context, command string, date time.Time) FetchResult {
	start := time.Now()
	res := FetchResult{
		Command:   command,
		Date:      date,
		FetchedAt: start,
	}

	res.Result, res.Error = c.Query(ctx, command, date)
	res.Duration = time.Since(start)
	return res
}

// Query returns the "result" text of one ephemeris request.
func (c *Client) Query(ctx context.Context, command string, date time.Time) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL, err := c.RequestURL(command, date)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "ls-orrery/1.0 (terminal orrery)")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ephemeris request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, truncate(string(body), 200))
	}

	return parseResponse(body)
}

// RequestURL builds the GET URL for a command and date.
func (c *Client) RequestURL(command string, date time.Time) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", c.baseURL, err)
	}

	var params url.Values
	if c.mode == ModeHorizons {
		params = HorizonsParams(command, date)
	} else {
		params = url.Values{}
		params.Set("command", command)
		params.Set("date", date.Format(DateLayout))
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// HorizonsParams returns the Horizons API query for a one-day astrometric
// RA/Dec table as seen from the geocenter. Values are single-quoted as
// Horizons expects.
func HorizonsParams(command string, date time.Time) url.Values {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%s'", command))
	params.Set("OBJ_DATA", "'NO'")
	params.Set("MAKE_EPHEM", "'YES'")
	params.Set("EPHEM_TYPE", "'OBSERVER'")
	params.Set("CENTER", "'500@399'")
	params.Set("START_TIME", fmt.Sprintf("'%s'", date.Format(DateLayout)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", date.AddDate(0, 0, 1).Format(DateLayout)))
	params.Set("STEP_SIZE", "'1 d'")
	params.Set("QUANTITIES", "'1'") // 1=Astrometric RA/Dec
	return params
}

// response is the JSON body shared by the proxy and Horizons.
type response struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

func parseResponse(body []byte) (string, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Result == "" {
		if resp.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrNoResult, resp.Error)
		}
		return "", ErrNoResult
	}
	return resp.Result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

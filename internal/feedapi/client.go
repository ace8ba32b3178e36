package feedapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hollis/feedform/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 15 * time.Second
)

// Client represents an HTTP client for the feedd REST API
type Client struct {
	// BaseURL is the server base URL (e.g., "http://feedd.local:8080")
	BaseURL string

	// Token is the bearer token used to authenticate requests
	Token string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for retryable failures.
	// Set to 0 to make every call single-shot; the injections form does this
	// so a failed submit is surfaced immediately instead of retried behind
	// the user's back.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool
}

// NewClient creates a new API client for the given server.
// baseURL: server base URL, token: bearer token (may be empty for
// unauthenticated local instances).
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:               baseURL,
		Token:                 token,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// feedPath returns the resource path for a feed id
func feedPath(id string) string {
	return "/api/v1/feeds/" + url.PathEscape(id)
}

// userPath is the fixed resource path for the current user
const userPath = "/api/v1/user"

// pingPath is the fixed health-check path
const pingPath = "/api/v1/ping"

// Ping performs a simple health check against the server.
// Returns nil if the server is reachable and the token is accepted.
func (c *Client) Ping() error {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+pingPath, nil)
	if err != nil {
		return NewNetworkError("failed to create ping request", err)
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("server unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthError("authentication failed (check token)")
	}
	if resp.StatusCode != http.StatusOK {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}
	return nil
}

// GetFeed retrieves a feed by id, including its article injections. The
// injections form loads its initial state from this.
func (c *Client) GetFeed(id string) (*Feed, error) {
	var envelope feedEnvelope
	err := c.doWithRetry(func() error {
		return c.doJSON(http.MethodGet, feedPath(id), nil, &envelope)
	})
	if err != nil {
		return nil, err
	}
	if err := validateFeed(envelope.Result); err != nil {
		return nil, err
	}
	return envelope.Result, nil
}

// UpdateFeed sends a partial feed update as a PATCH to the feed resource.
// The response must contain a result field matching the full feed schema;
// any mismatch fails the call with a schema error.
func (c *Client) UpdateFeed(id string, update *FeedUpdate) (*Feed, error) {
	var envelope feedEnvelope
	err := c.doWithRetry(func() error {
		return c.doJSON(http.MethodPatch, feedPath(id), update, &envelope)
	})
	if err != nil {
		return nil, err
	}
	if err := validateFeed(envelope.Result); err != nil {
		return nil, err
	}
	return envelope.Result, nil
}

// UpdateUserPreferences sends a partial preferences update as a PATCH to the
// current-user resource. The response must contain a result field matching
// the user schema.
func (c *Client) UpdateUserPreferences(update *UserPreferencesUpdate) (*User, error) {
	var envelope userEnvelope
	err := c.doWithRetry(func() error {
		return c.doJSON(http.MethodPatch, userPath, update, &envelope)
	})
	if err != nil {
		return nil, err
	}
	if err := validateUser(envelope.Result); err != nil {
		return nil, err
	}
	return envelope.Result, nil
}

// doWithRetry runs one request attempt, retrying retryable failures with
// exponential backoff up to MaxRetries extra attempts.
func (c *Client) doWithRetry(attempt func() error) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for try := 0; try <= c.MaxRetries; try++ {
		if try > 0 {
			time.Sleep(currentDelay)
			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// doJSON performs a single request with a JSON body and decodes the JSON
// response into out. A nil body sends no payload.
func (c *Client) doJSON(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewSchemaError("failed to serialize request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	requestURL := c.BaseURL + path
	req, err := http.NewRequest(method, requestURL, reader)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.LogRequest(method, requestURL, 0, err)
		return NewNetworkError("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()
	logging.LogRequest(method, requestURL, resp.StatusCode, nil)

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthError("authentication failed (check token)")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("%s %s failed with status %d: %s",
			method, path, resp.StatusCode, string(data)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewSchemaError("failed to decode response body", err)
	}
	return nil
}

// setHeaders applies the headers common to every request
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

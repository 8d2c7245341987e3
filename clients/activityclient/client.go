// Package activityclient provides a client for the activity signup backend.
//
// The backend exposes two endpoints:
//
//   - GET /activities returns every activity keyed by name
//   - POST /activities/{name}/signup?email={email} registers an email
//
// Example usage:
//
//	client, err := activityclient.New("http://localhost:8000")
//	if err != nil {
//	    return err
//	}
//	activities, err := client.ListActivities(ctx)
package activityclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nomis52/signupboard/activity"
)

const (
	activitiesPath   = "/activities"
	defaultUserAgent = "signupboard"
)

// Client talks to the activity backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the HTTP client's own
// timeout. The client passed to WithHTTPClient is never modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the backend at baseURL, which must be an absolute
// http or https URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend URL %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend URL %q has no host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	c.logger = c.logger.With("component", "activityclient")
	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListActivities fetches the full activity collection.
//
// A request that gets no response, or a response that is not JSON, returns a
// *TransportError. A non-2xx response or a document of the wrong shape
// returns an *ApplicationError.
func (c *Client) ListActivities(ctx context.Context) (activity.Collection, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+activitiesPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, newApplicationError(resp)
	}

	collection, err := activity.DecodeCollection(resp.Body)
	if err != nil {
		var syntaxErr *activity.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &TransportError{Op: "list activities", Err: err}
		}
		return nil, &ApplicationError{StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("fetched activities", "count", len(collection))
	return collection, nil
}

// signupResponse covers both the success and the error body shape.
type signupResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Signup registers an email for the named activity.
//
// The body is decoded before the status is looked at, so a response that is
// not JSON is a *TransportError whatever its status. A non-2xx status returns
// an *ApplicationError carrying the backend's detail text, if any.
func (c *Client) Signup(ctx context.Context, req activity.SignupRequest) (activity.SignupResult, error) {
	endpoint := c.baseURL + SignupPath(req.Activity, req.Email)

	resp, err := c.do(ctx, http.MethodPost, endpoint)
	if err != nil {
		return activity.SignupResult{}, err
	}
	defer resp.Body.Close()

	var body signupResponse
	if err := decodeJSON(resp.Body, &body); err != nil {
		return activity.SignupResult{}, &TransportError{Op: "signup", Err: fmt.Errorf("decoding response: %w", err)}
	}

	if resp.StatusCode/100 != 2 {
		return activity.SignupResult{}, &ApplicationError{
			StatusCode: resp.StatusCode,
			Detail:     body.Detail,
		}
	}

	c.logger.Info("signed up", "activity", req.Activity, "status", resp.StatusCode)
	return activity.SignupResult{Message: body.Message}, nil
}

// SignupPath returns the escaped request path and query for a signup.
func SignupPath(activityName, email string) string {
	return activitiesPath + "/" + EncodeURIComponent(activityName) + "/signup?email=" + EncodeURIComponent(email)
}

func (c *Client) do(ctx context.Context, method, endpoint string) (*http.Response, error) {
	op := method + " " + activitiesPath

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("creating HTTP request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return resp, nil
}

// decodeJSON decodes a single JSON value. Any JSON value is accepted; fields
// of a non-object value are simply left empty.
func decodeJSON(r io.Reader, dst *signupResponse) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if s, ok := obj["message"].(string); ok {
		dst.Message = s
	}
	if s, ok := obj["detail"].(string); ok {
		dst.Detail = s
	}
	return nil
}

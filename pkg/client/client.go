// Package client provides an HTTP client for the Skiff platform API.
//
// The client injects bearer tokens from the credential store, composes
// request URLs against the resolved endpoint, and normalizes error
// responses. The token is re-read from the store on every request, so a
// token revoked or expired between commands is caught before anything
// goes on the wire.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	skiffctx "github.com/skiffworks/skiff/pkg/context"
	"github.com/skiffworks/skiff/pkg/credentials"
)

// Client wraps HTTP operations with per-call credential resolution.
type Client struct {
	ctx        *skiffctx.Resolved
	creds      *credentials.Store
	httpClient *http.Client
}

// New creates a client for the resolved account context.
func New(resolved *skiffctx.Resolved) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		ctx:   resolved,
		creds: credentials.Open(resolved.API, resolved.Account),
		// No overall request timeout: uploads and remote compiles are
		// expected to run long. Connection setup is still bounded above.
		httpClient: &http.Client{Transport: transport},
	}
}

// Credentials returns the credential store for this client's account.
func (c *Client) Credentials() *credentials.Store {
	return c.creds
}

// URL joins the endpoint base URL and path verbatim.
// Callers supply the leading slash.
func (c *Client) URL(path string) string {
	return c.ctx.API + path
}

// token fetches the current bearer token. SKIFF_TOKEN overrides the
// credential store when set; otherwise the store is read fresh each call.
func (c *Client) token() (string, error) {
	if c.ctx.Token != "" {
		return c.ctx.Token, nil
	}
	return c.creds.Get()
}

// newRequest builds an authenticated request. Fails without issuing
// anything if the credential is missing or expired.
func (c *Client) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// do sends the request, wrapping transport-level failures.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectError{Endpoint: c.ctx.API, Err: err}
	}
	return resp, nil
}

// Get performs an authenticated GET request to the given path.
func (c *Client) Get(path string) (*http.Response, error) {
	req, err := c.newRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Post performs an authenticated POST request with the given body.
func (c *Client) Post(path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := c.newRequest("POST", path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.do(req)
}

// PostJSON performs an authenticated POST request with a JSON body.
func (c *Client) PostJSON(path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.Post(path, "application/json", bytes.NewReader(data))
}

// LoginResult is the platform's response to a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TTL returns the token lifetime as a duration.
func (r *LoginResult) TTL() time.Duration {
	return time.Duration(r.ExpiresIn) * time.Second
}

// Login exchanges username and password for an access token via HTTP
// Basic auth. It does not consult or update the credential store; the
// caller decides whether to persist the result.
func (c *Client) Login(username, password string) (*LoginResult, error) {
	req, err := http.NewRequest("POST", c.URL("/login"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(username, password)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := CheckResponse("Login error: ", resp); err != nil {
		return nil, err
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return &result, nil
}

// ConnectError indicates a transport-level failure (DNS, refused
// connection, TLS) before any HTTP response arrived.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

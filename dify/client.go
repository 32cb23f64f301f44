package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Client talks to a Dify backend. Console endpoints authenticate with the
// session token obtained via Login; public endpoints authenticate with a
// per-app key passed explicitly by the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	session    *Session
	logger     zerolog.Logger
}

// NewClient creates a new Dify client. The client starts without a session;
// call Login before using console endpoints.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	options := clientOptions{
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		userAgent:  options.userAgent,
		session:    &Session{},
		logger:     logger,
	}, nil
}

// Login exchanges credentials for a session token via the console API.
// On success the token is stored on the client's session and attached to
// all subsequent console calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", ErrInvalidConfig)
	}

	body, err := c.do(ctx, http.MethodPost, "/console/api/login", LoginRequest{
		Email:    email,
		Password: password,
	}, false)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return err
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	if resp.Data.AccessToken == "" {
		return fmt.Errorf("%w: no access token in login response", ErrMalformedResponse)
	}

	c.session.set(resp.Data.AccessToken)
	c.logger.Debug().Str("email", email).Msg("Logged in to Dify")
	return nil
}

// CurrentToken returns the active session token, or empty when logged out.
func (c *Client) CurrentToken() string {
	return c.session.Token()
}

// Logout discards the local session token. No upstream call is made.
func (c *Client) Logout() {
	c.session.Invalidate()
}

// do performs a console API request. Paths are server-relative. When
// authRequired is set and no token is stored, the call fails locally
// without touching the network.
func (c *Client) do(ctx context.Context, method, path string, payload any, authRequired bool) (json.RawMessage, error) {
	token := c.session.Token()
	if authRequired && token == "" {
		return nil, ErrUnauthenticated
	}

	auth := ""
	if authRequired {
		auth = "Bearer " + token
	}
	return c.roundTrip(ctx, method, path, payload, auth, authRequired)
}

// doPublic performs a public API request authenticated with an app key
// instead of the session token. A 401 here does not touch the session.
func (c *Client) doPublic(ctx context.Context, method, path string, payload any, appKey string) (json.RawMessage, error) {
	if appKey == "" {
		return nil, ErrUnauthenticated
	}
	return c.roundTrip(ctx, method, path, payload, "Bearer "+appKey, false)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload any, auth string, sessionScoped bool) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("Dify API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	return c.handleResponse(resp.StatusCode, body, method, path, sessionScoped)
}

// handleResponse maps the HTTP status onto the package error taxonomy.
// A 401/403 on a session-scoped call invalidates the stored token so a
// stale credential is not reused on the next call.
func (c *Client) handleResponse(status int, body []byte, method, path string, sessionScoped bool) (json.RawMessage, error) {
	if status >= 200 && status < 300 {
		if len(bytes.TrimSpace(body)) == 0 {
			return json.RawMessage(`{}`), nil
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("%w: %s %s returned undecodable body", ErrMalformedResponse, method, path)
		}
		return json.RawMessage(body), nil
	}

	apiErr := &APIError{
		StatusCode: status,
		Message:    upstreamMessage(body),
		Body:       string(body),
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if sessionScoped {
			c.session.Invalidate()
			c.logger.Warn().Str("path", path).Int("status", status).
				Msg("Session rejected by Dify, token invalidated")
		}
		return nil, apiErr
	case status == http.StatusNotFound:
		return nil, apiErr
	case status >= 500:
		c.logger.Error().Str("path", path).Int("status", status).Msg("Dify server error")
		return nil, apiErr
	default:
		return nil, apiErr
	}
}

// upstreamMessage extracts a human-readable message from an error body.
func upstreamMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Code != "" {
			return parsed.Code
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return "request failed"
}

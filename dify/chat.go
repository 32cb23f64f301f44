package dify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ChatCompletion sends a chat message to an app through the public API.
// Authentication uses the app's own API key, not the console session.
func (c *Client) ChatCompletion(ctx context.Context, appKey string, req ChatRequest) (*ChatResponse, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidConfig)
	}
	if req.User == "" {
		req.User = "user"
	}
	if req.ResponseMode == "" {
		req.ResponseMode = "blocking"
	}

	body, err := c.doPublic(ctx, http.MethodPost, "/v1/chat-messages", req, appKey)
	if err != nil {
		return nil, err
	}

	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// GetConversations retrieves the conversation history for a user of an app.
func (c *Client) GetConversations(ctx context.Context, appKey, user string) (json.RawMessage, error) {
	if user == "" {
		user = "user"
	}

	params := url.Values{}
	params.Set("user", user)

	return c.doPublic(ctx, http.MethodGet, "/v1/conversations?"+params.Encode(), nil, appKey)
}

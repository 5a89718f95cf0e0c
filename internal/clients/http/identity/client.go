package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every call when the caller does not supply an http.Client.
const DefaultTimeout = 5 * time.Second

// ErrInvalidCredential is returned when the identity service rejects the token.
var ErrInvalidCredential = errors.New("identity: credential rejected")

// User is the identity resolved from a bearer token.
type User struct {
	ID    string
	Email string
}

type verifyResponse struct {
	ID    any    `json:"id"`
	Email string `json:"email"`
}

// Client verifies bearer tokens against the identity service.
type Client struct {
	verifyURL  string
	httpClient *http.Client
}

// NewClient instantiates the identity client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("identity base URL is required")
	}
	server, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse identity base URL: %w", err)
	}
	verify, err := server.Parse("auth/verify")
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{verifyURL: verify.String(), httpClient: httpClient}, nil
}

// Verify resolves a bearer token to a user.
func (c *Client) Verify(ctx context.Context, token string) (*User, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("identity client not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidCredential
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.verifyURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call identity API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrInvalidCredential
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity API unexpected status: %s", resp.Status)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var body verifyResponse
	if err := decoder.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	user := &User{Email: strings.TrimSpace(body.Email)}
	switch id := body.ID.(type) {
	case json.Number:
		user.ID = id.String()
	case string:
		user.ID = strings.TrimSpace(id)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: identity response carries no user id", ErrInvalidCredential)
	}
	return user, nil
}

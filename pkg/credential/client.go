// Package credential is an HTTP client for the credential service's
// public API: account creation, login and the authenticated probe.
package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// Client calls the credential service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Signup registers a new account and returns the issued token.
func (c *Client) Signup(ctx context.Context, username, email, password string) (string, error) {
	return c.postForToken(ctx, "/signup", signupRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.postForToken(ctx, "/login", loginRequest{
		Email:    email,
		Password: password,
	})
}

// Probe hits the protected endpoint with the given token. It returns
// nil when the token is accepted and ErrUnauthorized when rejected.
func (c *Client) Probe(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/protected", nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to create probe request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, "probe request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	default:
		return fmt.Errorf("credential service returned status %d", resp.StatusCode)
	}
}

func (c *Client) postForToken(ctx context.Context, path string, body any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, "credential request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return "", fmt.Errorf("credential service: %s", apiErr.Message)
		}
		return "", fmt.Errorf("credential service returned status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", apperrors.Wrap(err, "failed to decode token response")
	}
	if tok.Token == "" {
		return "", apperrors.ErrTokenMissing
	}
	return tok.Token, nil
}

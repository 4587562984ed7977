// Package authclient is the client side of the auth service: an HTTP client
// for the /auth endpoints, the session state machine built on it and the
// decision of when the password-change gate must be shown.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"salesops-auth/models"

	"github.com/umakantv/go-utils/httpclient"
)

// API is the subset of the auth service the client session needs.
type API interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) (*models.User, error)
	Me(ctx context.Context, token string) (*models.MeResponse, error)
	Logout(ctx context.Context, token string) error
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth service returned %d", e.Status)
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client talks to the auth service over HTTP.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

var _ API = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: httpclient.New(httpclient.ClientConfig{
			Timeout: timeout,
			BaseHeaders: map[string]string{
				"Accept": "application/json",
			},
		}),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type result struct {
	resp *http.Response
	err  error
}

// send runs the request and gives up when ctx is done. An abandoned request
// still ends within the client timeout; its body is closed when it does.
func (c *Client) send(ctx context.Context, method, url string, opts ...httpclient.RequestOption) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan result, 1)
	go func() {
		resp, err := c.http.Do(method, url, opts...)
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.resp != nil {
				r.resp.Body.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var opts []httpclient.RequestOption
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		opts = append(opts,
			httpclient.WithHeaders(map[string]string{"Content-Type": "application/json"}),
			httpclient.WithBody(bytes.NewReader(data)),
		)
	}
	if token != "" {
		opts = append(opts, httpclient.WithAuth("Bearer "+token))
	}

	resp, err := c.send(ctx, method, c.baseURL+path, opts...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) (*models.User, error) {
	var resp models.ChangePasswordResponse
	if err := c.do(ctx, http.MethodPost, "/auth/change-password", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Me(ctx context.Context, token string) (*models.MeResponse, error) {
	var resp models.MeResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// Package api is the typed REST client for the helpdesk identity endpoints.
// Envelope error codes are decoded back into the domain sentinels, so callers
// branch with errors.Is exactly like server-side code does.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Client talks to the identity API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    TokenSource
	onUnauthorized func()
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource wires the session holder in as the bearer source.
func (c *Client) SetTokenSource(ts TokenSource) { c.tokenSource = ts }

// SetUnauthorizedHandler registers the callback invoked when an
// authenticated call comes back 401 (stale or revoked bearer). The public
// endpoints never carry the bearer and never trigger it: a wrong security
// answer mid-recovery must not tear down a live session.
func (c *Client) SetUnauthorizedHandler(fn func()) { c.onUnauthorized = fn }

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	ErrorCode string          `json:"error_code"`
}

type loginData struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type verifyEmailData struct {
	AlreadyVerified bool `json:"already_verified"`
}

// Questions carries the two security-question texts.
type Questions struct {
	Question1 string `json:"question1"`
	Question2 string `json:"question2"`
}

type resetTokenData struct {
	Token string `json:"token"`
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/register", req, nil, false)
}

// Login authenticates and returns the issued bearer plus the user snapshot.
// Storage-tier choice (remember me) is entirely the session holder's concern.
func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var data loginData
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &data, false)
	if err != nil {
		return "", nil, err
	}
	return data.Token, data.User, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error) {
	var data verifyEmailData
	path := "/v1/auth/verify-email?token=" + url.QueryEscape(token)
	if err := c.do(ctx, http.MethodGet, path, nil, &data, false); err != nil {
		return false, err
	}
	return data.AlreadyVerified, nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/resend-verification", map[string]string{"email": email}, nil, false)
}

func (c *Client) RequestPasswordRecovery(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/request-password-recovery", map[string]string{"email": email}, nil, false)
}

func (c *Client) GetSecurityQuestions(ctx context.Context, email string) (*Questions, error) {
	var data Questions
	if err := c.do(ctx, http.MethodPost, "/v1/auth/get-security-questions", map[string]string{"email": email}, &data, false); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) VerifySecurityAnswers(ctx context.Context, email, answer1, answer2 string) (string, error) {
	var data resetTokenData
	err := c.do(ctx, http.MethodPost, "/v1/auth/verify-security-answers", map[string]string{
		"email":   email,
		"answer1": answer1,
		"answer2": answer2,
	}, &data, false)
	if err != nil {
		return "", err
	}
	return data.Token, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/reset-password", map[string]string{
		"token":    token,
		"password": password,
	}, nil, false)
}

func (c *Client) SetSecurityQuestions(ctx context.Context, req domain.SetSecurityQuestionsRequest) error {
	return c.do(ctx, http.MethodPut, "/v1/auth/security-questions", req, nil, true)
}

// CurrentUser fetches the authoritative user for the current bearer. Local
// snapshots are never trusted for authorization decisions.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/v1/auth/current-user", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodPut, "/v1/auth/profile", req, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// do performs one request. authed marks the endpoint as requiring the bearer:
// only those carry the Authorization header, and only their 401s mean the
// session is dead. Public recovery endpoints can 401 (wrong security answer,
// bad credentials) without implying anything about the held session.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	tokenAttached := false
	if authed && c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			tokenAttached = true
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response (%s): %w", resp.Status, err)
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized && tokenAttached && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if sentinel := domain.FromCode(env.ErrorCode); sentinel != nil {
			return fmt.Errorf("%s: %w", env.Error, sentinel)
		}
		return fmt.Errorf("request failed (%s): %s", resp.Status, env.Error)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

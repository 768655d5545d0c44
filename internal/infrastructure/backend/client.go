// Package backend is the HTTP adapter for the library REST API. It
// implements ports.Backend: every call attaches the session cookie, decodes
// the JSON envelope, and turns non-2xx responses into errors whose text is
// the backend's own message when one is present.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/librisys/library-client/internal/api/metrics"
	"github.com/librisys/library-client/internal/core/domain"
	"github.com/librisys/library-client/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// APIError is a backend rejection (non-2xx with a message payload).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the library backend over HTTP. The embedded cookie jar
// holds the session cookie set by login/verify-otp, so one Client is one
// session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Config captures the settings for constructing a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:4000/api/v1".
	BaseURL string
	// Timeout bounds each request end-to-end. Zero means defaultTimeout.
	Timeout time.Duration
}

// New constructs a Client with its own cookie jar.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		log: log,
	}, nil
}

// SessionCookies returns the cookies currently held for the backend, so a
// CLI process can persist its session across invocations.
func (c *Client) SessionCookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// RestoreSessionCookies loads previously persisted cookies into the jar.
func (c *Client) RestoreSessionCookies(cookies []*http.Cookie) {
	u, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return
	}
	c.httpClient.Jar.SetCookies(u, cookies)
}

// ── auth ─────────────────────────────────────────────────────────────────────

type authEnvelope struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (ports.AuthResult, error) {
	var env authEnvelope
	if err := c.doJSON(ctx, "register", http.MethodPost, "/auth/register", in, &env); err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{User: env.User, Message: env.Message}, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (ports.AuthResult, error) {
	payload := map[string]string{"email": email, "otp": otp}
	var env authEnvelope
	if err := c.doJSON(ctx, "verify_otp", http.MethodPost, "/auth/verify-otp", payload, &env); err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{User: env.User, Message: env.Message}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (ports.AuthResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var env authEnvelope
	if err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", payload, &env); err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{User: env.User, Message: env.Message}, nil
}

func (c *Client) Logout(ctx context.Context) (string, error) {
	var env authEnvelope
	if err := c.doJSON(ctx, "logout", http.MethodGet, "/auth/logout", nil, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var env authEnvelope
	if err := c.doJSON(ctx, "me", http.MethodGet, "/auth/me", nil, &env); err != nil {
		return domain.User{}, err
	}
	if env.User == nil {
		return domain.User{}, &APIError{Status: http.StatusOK, Message: "server returned no user"}
	}
	return *env.User, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	payload := map[string]string{"email": email}
	var env authEnvelope
	if err := c.doJSON(ctx, "forgot_password", http.MethodPost, "/auth/forgot-password", payload, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, token string, in ports.ResetPasswordInput) (ports.AuthResult, error) {
	var env authEnvelope
	path := "/auth/reset-password/" + token
	if err := c.doJSON(ctx, "reset_password", http.MethodPost, path, in, &env); err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{User: env.User, Message: env.Message}, nil
}

func (c *Client) UpdatePassword(ctx context.Context, in ports.UpdatePasswordInput) (string, error) {
	var env authEnvelope
	if err := c.doJSON(ctx, "update_password", http.MethodPut, "/auth/update-password", in, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) UpdateCredentials(ctx context.Context, in ports.UpdateCredentialsInput) (ports.AuthResult, error) {
	var env authEnvelope
	if err := c.doJSON(ctx, "update_credentials", http.MethodPut, "/auth/update-credentials", in, &env); err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{User: env.User, Message: env.Message}, nil
}

// ── catalog ──────────────────────────────────────────────────────────────────

func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var env struct {
		Books []domain.Book `json:"books"`
	}
	if err := c.doJSON(ctx, "list_books", http.MethodGet, "/book/all", nil, &env); err != nil {
		return nil, err
	}
	return env.Books, nil
}

func (c *Client) AddBook(ctx context.Context, in ports.BookInput) (domain.Book, error) {
	var env struct {
		Message string      `json:"message"`
		Book    domain.Book `json:"book"`
	}
	if err := c.doJSON(ctx, "add_book", http.MethodPost, "/book/admin/add", in, &env); err != nil {
		return domain.Book{}, err
	}
	return env.Book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) (string, error) {
	var env struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, "delete_book", http.MethodDelete, "/book/delete/"+id, nil, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// ── users ────────────────────────────────────────────────────────────────────

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var env struct {
		Users []domain.User `json:"users"`
	}
	if err := c.doJSON(ctx, "list_users", http.MethodGet, "/user/all", nil, &env); err != nil {
		return nil, err
	}
	return env.Users, nil
}

// AddAdmin uploads the new-admin form as multipart (the avatar rides along
// as a file part when present).
func (c *Client) AddAdmin(ctx context.Context, in ports.AdminInput) (domain.User, string, error) {
	body, contentType, err := adminForm(in)
	if err != nil {
		return domain.User{}, "", err
	}
	var env struct {
		Message string      `json:"message"`
		Admin   domain.User `json:"admin"`
	}
	if err := c.do(ctx, "add_admin", http.MethodPost, "/user/add/new-admin", body, contentType, &env); err != nil {
		return domain.User{}, "", err
	}
	return env.Admin, env.Message, nil
}

// ── borrowing ────────────────────────────────────────────────────────────────

type borrowEnvelope struct {
	Message       string                `json:"message"`
	BorrowedBooks []domain.BorrowRecord `json:"borrowedBooks"`
}

func (c *Client) MyBorrowedBooks(ctx context.Context) ([]domain.BorrowRecord, error) {
	var env borrowEnvelope
	if err := c.doJSON(ctx, "my_borrows", http.MethodGet, "/borrow/my-borrowed-books", nil, &env); err != nil {
		return nil, err
	}
	return env.BorrowedBooks, nil
}

func (c *Client) AllBorrowedBooks(ctx context.Context) ([]domain.BorrowRecord, error) {
	var env borrowEnvelope
	if err := c.doJSON(ctx, "all_borrows", http.MethodGet, "/borrow/borrowed-books-by-users", nil, &env); err != nil {
		return nil, err
	}
	return env.BorrowedBooks, nil
}

func (c *Client) RecordBorrow(ctx context.Context, bookID, email string) (string, error) {
	payload := map[string]string{"email": email}
	var env borrowEnvelope
	if err := c.doJSON(ctx, "record_borrow", http.MethodPost, "/borrow/record-borrow-book/"+bookID, payload, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) ReturnBorrow(ctx context.Context, bookID, email string) (string, error) {
	payload := map[string]string{"email": email}
	var env borrowEnvelope
	if err := c.doJSON(ctx, "return_borrow", http.MethodPut, "/borrow/return-borrowed-books/"+bookID, payload, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// ── request core ─────────────────────────────────────────────────────────────

// doJSON marshals payload (when non-nil) and performs the request.
func (c *Client) doJSON(ctx context.Context, endpoint, method, path string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, endpoint, method, path, body, contentType, out)
}

// do performs one request, records metrics, and decodes the response into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, endpoint, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(endpoint, "transport").Inc()
		c.log.Debug().Err(err).Str("endpoint", endpoint).Msg("transport failure")
		return fmt.Errorf("could not reach the library server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RequestsTotal.WithLabelValues(endpoint, "rejected").Inc()
		return c.apiError(resp)
	}

	metrics.RequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError extracts the backend's message field, falling back to a generic
// string carrying the status code.
func (c *Client) apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &env); err == nil && env.Message != "" {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}
}

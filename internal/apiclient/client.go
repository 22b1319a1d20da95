// Package apiclient is a thin JSON client for the headless blog backend.
// It attaches bearer credentials, transparently refreshes an expired access
// token once per request and reports typed errors for non-2xx responses.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"meetblog/internal/lib/logger/sl"
)

const refreshPath = "/api/auth/refresh/"

// ErrNoRefreshToken is returned when a 401 cannot be recovered because no
// refresh token is held.
var ErrNoRefreshToken = errors.New("no refresh token available")

// APIError is a non-2xx backend response. Body keeps the raw payload so
// callers can surface field-level validation errors.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: unexpected status %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is a 404 backend response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Paginated is the list envelope the backend wraps collections in.
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Client talks to one backend instance. Token state is shared by all
// callers; concurrent 401s trigger a single coalesced refresh.
type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	access  string
	refresh string

	group singleflight.Group
}

func New(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetTokens installs the bearer credentials used for subsequent requests.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = access
	c.refresh = refresh
}

// ClearTokens drops both tokens. Requests continue unauthenticated.
func (c *Client) ClearTokens() {
	c.SetTokens("", "")
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.access
}

func (c *Client) refreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do performs one JSON request. On a 401 it refreshes the access token and
// retries exactly once; if the refresh itself fails the tokens are cleared
// and the original 401 is returned.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	const op = "apiclient.Do"

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
	}

	err := c.doOnce(ctx, method, path, query, payload, out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && c.refreshToken() != "" {
		if refreshErr := c.refreshAccess(ctx); refreshErr != nil {
			c.log.Warn("token refresh failed", slog.String("op", op), sl.Err(refreshErr))
			c.ClearTokens()
			return err
		}
		return c.doOnce(ctx, method, path, query, payload, out)
	}

	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, payload []byte, out any) error {
	const op = "apiclient.doOnce"

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: raw}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	return nil
}

// refreshAccess exchanges the refresh token for a new access token.
// Concurrent callers are coalesced into a single backend round trip.
func (c *Client) refreshAccess(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		refresh := c.refreshToken()
		if refresh == "" {
			return nil, ErrNoRefreshToken
		}

		body, err := json.Marshal(map[string]string{"refresh": refresh})
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(resp.Body)
			return nil, &APIError{Status: resp.StatusCode, Body: raw}
		}

		var parsed struct {
			Access string `json:"access"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.access = parsed.Access
		c.mu.Unlock()

		return nil, nil
	})

	return err
}

// Upload sends a file as multipart form data. onProgress, when non-nil,
// receives the sent percentage from 0 to 100 as the body is consumed.
func (c *Client) Upload(ctx context.Context, path, fieldName, fileName string, file io.Reader, out any, onProgress func(float64)) error {
	const op = "apiclient.Upload"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(fieldName, fileName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body := &progressReader{
		r:          &buf,
		total:      int64(buf.Len()),
		onProgress: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = body.total
	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: raw}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	return nil
}

type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	onProgress func(float64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.onProgress != nil && pr.total > 0 {
			pr.onProgress(float64(pr.sent) / float64(pr.total) * 100)
		}
	}
	return n, err
}

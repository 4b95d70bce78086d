package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domain "user-crud-console/internal/domain/user"
	"user-crud-console/internal/usecase/userlist"
	apperrors "user-crud-console/pkg/errors"
	"user-crud-console/pkg/logger"
)

var _ userlist.Remote = (*Client)(nil)

// maxErrorBody bounds how much of a failed response body ends up in the error.
const maxErrorBody = 512

// remote operation names used in errors and logs
const (
	opList   = "list users"
	opCreate = "create user"
	opUpdate = "update user"
	opDelete = "delete user"
)

// Client talks to a JSONPlaceholder-style /users REST API.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	timeout   *time.Duration
	log       *zap.Logger

	// concurrent list fetches share one round trip
	lists singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout; zero disables it.
// A client passed through WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}
	return c
}

// ListUsers fetches GET /users.
//
// The controller issues one load at a time, but a Client may be shared with
// other callers; concurrent fetches then share one round trip. The shared
// request is detached from any single caller's cancellation and is bounded by
// the client timeout. Each caller stops waiting when its own ctx is done.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTransportError(opList, 0, err)
	}

	ch := c.lists.DoChan("users", func() (any, error) {
		var users []domain.User
		if err := c.do(context.WithoutCancel(ctx), opList, http.MethodGet, "/users", nil, &users); err != nil {
			return nil, err
		}
		return users, nil
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.NewTransportError(opList, 0, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]domain.User)), nil
	}
}

// CreateUser posts u to /users and returns the record the server answered with.
func (c *Client) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	var created domain.User
	if err := c.do(ctx, opCreate, http.MethodPost, "/users", u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateUser puts f to /users/{id}.
func (c *Client) UpdateUser(ctx context.Context, id int64, f domain.Fields) (*domain.User, error) {
	var updated domain.User
	if err := c.do(ctx, opUpdate, http.MethodPut, userPath(id), f.WithID(id), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser sends DELETE /users/{id}.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, opDelete, http.MethodDelete, userPath(id), nil, nil)
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

// do performs one JSON round trip. Every failure comes back as a *errors.TransportError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return apperrors.NewTransportError(op, 0, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.NewTransportError(op, 0, fmt.Errorf("create request: %w", err))
	}

	requestID := logger.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(logger.RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log := c.log.With(zap.String("op", op), zap.String("method", method), zap.String("path", path), zap.String("request_id", requestID))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("remote call failed", zap.Error(err))
		return apperrors.NewTransportError(op, 0, err)
	}
	defer resp.Body.Close()

	log.Debug("remote call finished", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var cause error
		if text := strings.TrimSpace(string(msg)); text != "" {
			cause = errors.New(text)
		}
		return apperrors.NewTransportError(op, resp.StatusCode, cause)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewTransportError(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

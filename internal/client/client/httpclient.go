package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/miguelherrera-611/vetclinic/internal/client/metrics"
	"github.com/miguelherrera-611/vetclinic/internal/client/models"
	"github.com/miguelherrera-611/vetclinic/internal/logging"
)

const (
	HeaderRequestID = "X-Request-ID"
	DefaultTimeout  = 10 * time.Second

	maxBodyBytes = 1 << 20
)

type endpoint struct {
	name   string
	method string
	path   string
	// public endpoints are reachable without a session; a 401 there is a
	// plain credential rejection, not an expired session.
	public bool
}

var (
	epLogin          = endpoint{"login", http.MethodPost, "/auth/login", true}
	epRegister       = endpoint{"register", http.MethodPost, "/auth/register", true}
	epValidate       = endpoint{"validate", http.MethodGet, "/auth/validate", false}
	epRefresh        = endpoint{"refresh", http.MethodPost, "/auth/refresh", false}
	epGetProfile     = endpoint{"get_profile", http.MethodGet, "/auth/profile", false}
	epUpdateProfile  = endpoint{"update_profile", http.MethodPut, "/auth/profile", false}
	epChangePassword = endpoint{"change_password", http.MethodPost, "/auth/change-password", false}
	epForgotPassword = endpoint{"forgot_password", http.MethodPost, "/auth/forgot-password", true}
	epResetPassword  = endpoint{"reset_password", http.MethodPost, "/auth/reset-password", true}
)

type HTTPClient struct {
	baseURL   string
	http      *http.Client
	session   Session
	timeout   time.Duration
	log       logging.Logger
	metrics   *metrics.Metrics
	newID     func() string
	onExpired atomic.Pointer[func(context.Context)]
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// WithTimeout bounds every request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

// WithRequestIDFunc overrides how X-Request-ID values are generated.
func WithRequestIDFunc(f func() string) Option {
	return func(c *HTTPClient) { c.newID = f }
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. "http://localhost:8080/api").
func NewHTTPClient(baseURL string, session Session, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: session,
		timeout: DefaultTimeout,
		log:     logging.Nop{},
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// OnUnauthorized registers the callback run after a credentialed request was
// rejected with 401 and the session store has been cleared.
func (c *HTTPClient) OnUnauthorized(fn func(ctx context.Context)) {
	c.onExpired.Store(&fn)
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, epLogin, req)
}

func (c *HTTPClient) Register(ctx context.Context, draft models.RegistrationDraft) (*models.AuthResponse, error) {
	return c.authenticate(ctx, epRegister, draft)
}

func (c *HTTPClient) authenticate(ctx context.Context, ep endpoint, body any) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, ep, body, &resp); err != nil {
		return nil, err
	}
	if resp.Credential == "" || resp.Profile == nil {
		return nil, &Error{
			Kind:    KindServer,
			Status:  http.StatusOK,
			Message: MsgServer,
			Err:     fmt.Errorf("%s: response without token or user", ep.name),
		}
	}
	return &resp, nil
}

func (c *HTTPClient) ValidateCredential(ctx context.Context) error {
	return c.do(ctx, epValidate, nil, nil)
}

func (c *HTTPClient) RefreshCredential(ctx context.Context) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, epRefresh, nil, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &Error{
			Kind:    KindServer,
			Status:  http.StatusOK,
			Message: MsgServer,
			Err:     errors.New("refresh: response without token"),
		}
	}
	return resp.Token, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := c.do(ctx, epGetProfile, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := c.do(ctx, epUpdateProfile, patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, req models.PasswordChange) error {
	return c.do(ctx, epChangePassword, req, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, req models.PasswordRecovery) error {
	return c.do(ctx, epForgotPassword, req, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, req models.PasswordReset) error {
	return c.do(ctx, epResetPassword, req, nil)
}

// do sends one JSON request and decodes a 2xx body into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, ep endpoint, in, out any) error {
	reqID := c.newID()
	log := c.log.With("request_id", reqID, "endpoint", ep.name)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", ep.name, err)
		}
		body = bytes.NewReader(b)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, ep.method, c.baseURL+ep.path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", ep.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, reqID)
	if cred, ok := c.session.Credential(); ok {
		req.Header.Set("Authorization", "Bearer "+cred)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(ep.name, 0, time.Since(start).Seconds())
		log.Warn(ctx, "request failed", "error", err)
		return unavailable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveRequest(ep.name, resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return unavailable(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Debug(ctx, "request ok", "status", resp.StatusCode)
		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{
				Kind:    KindServer,
				Status:  resp.StatusCode,
				Message: MsgServer,
				Err:     fmt.Errorf("decode %s response: %w", ep.name, err),
			}
		}
		return nil
	}

	e := mapStatus(resp.StatusCode, raw)
	log.Warn(ctx, "request rejected", "status", resp.StatusCode, "kind", e.Kind.String())

	if resp.StatusCode == http.StatusUnauthorized && !ep.public {
		c.expire(ctx, log)
	}
	return e
}

func (c *HTTPClient) expire(ctx context.Context, log logging.Logger) {
	if err := c.session.Clear(ctx); err != nil {
		log.Error(ctx, "clearing rejected session failed", "error", err)
	}
	if fn := c.onExpired.Load(); fn != nil && *fn != nil {
		(*fn)(ctx)
	}
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxBodySize = 10 << 20
)

// Options configures an HTTPClient. Zero RPS disables pacing and zero
// Timeout disables the per-request deadline.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RPS       float64
	Burst     int
	Transport http.RoundTripper
	Logger    logging.Logger
}

type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options, tokens TokenSource) *HTTPClient {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	if tokens == nil {
		tokens = StaticToken("")
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		http:    &http.Client{Transport: otelhttp.NewTransport(base)},
		limiter: rate.NewLimiter(limit, burst),
		tokens:  tokens,
		log:     log,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// do sends r and returns the raw successful response. Non-2xx and
// approval-pending bodies come back as *APIError.
func (c *HTTPClient) do(ctx context.Context, r request) (*response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set(HeaderRequestID, reqID)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth {
		token := c.tokens.Token()
		if token == "" {
			return nil, fmt.Errorf("%w: no bearer token", ErrUnauthorized)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", r.method, "path", r.path, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done",
		"method", r.method, "path", r.path, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))

	var envelope errorBody
	if isJSON(resp.Header) {
		_ = json.Unmarshal(raw, &envelope)
	}
	if apiErr := classify(resp.StatusCode, envelope); apiErr != nil {
		return nil, apiErr
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: raw}, nil
}

func isJSON(h http.Header) bool {
	ct := h.Get("Content-Type")
	return ct == "" || strings.Contains(ct, "json")
}

func decode(resp *response, out any) error {
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) auth(ctx context.Context, path string, payload any) (AuthResponse, error) {
	var out AuthResponse
	resp, err := c.do(ctx, request{method: http.MethodPost, path: path, body: payload})
	if err != nil {
		return out, err
	}
	if err := decode(resp, &out); err != nil {
		return out, err
	}
	if out.Token == "" {
		return out, ErrNoToken
	}
	return out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	return c.auth(ctx, "/api/auth/vc/login", map[string]string{"email": email, "password": password})
}

func (c *HTTPClient) Signup(ctx context.Context, req models.SignupRequest) (AuthResponse, error) {
	return c.auth(ctx, "/api/auth/vc/signup", req)
}

func (c *HTTPClient) Verify(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/verify", auth: true})
	return err
}

// TOTPQR returns the enrollment QR image and its content type.
func (c *HTTPClient) TOTPQR(ctx context.Context) ([]byte, string, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/api/users/totp-qr", auth: true})
	if err != nil {
		return nil, "", err
	}
	ct := resp.header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(resp.body)
	}
	return resp.body, ct, nil
}

func (c *HTTPClient) BackupCode(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/api/users/backup-code", auth: true})
	if err != nil {
		return "", err
	}

	var out struct {
		BackupCode json.RawMessage `json:"backup_code"`
	}
	if err := json.Unmarshal(resp.body, &out); err != nil || len(out.BackupCode) == 0 {
		// Some deployments answer with a bare JSON string or number.
		return scalar(resp.body)
	}
	return scalar(out.BackupCode)
}

// scalar renders a JSON string or number as text.
func scalar(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("decode response: unexpected backup code %s", strconv.Quote(string(raw)))
}

// ForgotPassword exchanges an email plus a backup code or OTP for a reset token.
func (c *HTTPClient) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error) {
	resp, err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/forgot-password", body: req})
	if err != nil {
		return "", err
	}
	var out struct {
		ResetToken string `json:"reset_token"`
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if out.ResetToken == "" {
		return "", ErrNoToken
	}
	return out.ResetToken, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, resetToken, password string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/reset-password/" + url.PathEscape(resetToken),
		body:   map[string]string{"password": password},
	})
	return err
}

// ListCompanies returns the roster keyed by company id.
func (c *HTTPClient) ListCompanies(ctx context.Context) (map[string]models.CompanySummary, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/api/company/list", auth: true})
	if err != nil {
		return nil, err
	}

	var roster map[string]models.CompanySummary
	if err := decode(resp, &roster); err != nil {
		return nil, err
	}
	for id, cs := range roster {
		cs.ID = id
		roster[id] = cs
	}
	return roster, nil
}

func (c *HTTPClient) CompanySnapshot(ctx context.Context, id string, tab models.Tab, period models.Period) ([]models.Snapshot, error) {
	q := url.Values{}
	q.Set("data", string(tab))
	q.Set("quarter", period.Quarter)
	q.Set("year", strconv.Itoa(period.Year))

	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/api/company/" + url.PathEscape(id), query: q, auth: true})
	if err != nil {
		return nil, err
	}

	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return records(out.Data)
}

func (c *HTTPClient) CompanyHistory(ctx context.Context, id, key string) ([]models.Snapshot, error) {
	q := url.Values{}
	q.Set("key", key)

	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/api/company/metrics/" + url.PathEscape(id), query: q, auth: true})
	if err != nil {
		return nil, err
	}

	var out struct {
		Metrics json.RawMessage `json:"metrics"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return records(out.Metrics)
}

// records accepts an array of objects, a single object or null.
func records(raw json.RawMessage) ([]models.Snapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.Snapshot{}, nil
	}

	if trimmed[0] == '{' {
		var one models.Snapshot
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return []models.Snapshot{one}, nil
	}

	var many []models.Snapshot
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if many == nil {
		many = []models.Snapshot{}
	}
	return many, nil
}

// IsTransport reports whether err is a network-level failure rather than a
// server answer.
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.Is(err, ErrUnavailable) && !errors.As(err, &apiErr)
}

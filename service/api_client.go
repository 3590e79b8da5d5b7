package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/version"
)

const maxErrorBodyBytes = 64 << 10

// APIClient talks to the TextScope backend over its REST surface.
type APIClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// APIClientOption configures an APIClient.
type APIClientOption func(*APIClient)

// WithTimeout sets a per-request timeout. Zero means no client-side timeout.
func WithTimeout(timeout time.Duration) APIClientOption {
	return func(c *APIClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) APIClientOption {
	return func(c *APIClient) {
		c.userAgent = userAgent
	}
}

// WithAPILogger sets the logger used for request tracing.
func WithAPILogger(logger *slog.Logger) APIClientOption {
	return func(c *APIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewAPIClient creates a client for the backend at baseURL.
func NewAPIClient(baseURL string, opts ...APIClientOption) (*APIClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, domain.NewConfigError(fmt.Sprintf("invalid API base URL: %q", baseURL), err)
	}

	c := &APIClient{
		baseURL:    u,
		httpClient: &http.Client{},
		userAgent:  version.UserAgent(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend address.
func (c *APIClient) BaseURL() string {
	return c.baseURL.String()
}

// Login exchanges credentials for a bearer token. Any non-success status is
// reported as invalid credentials.
func (c *APIClient) Login(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token domain.TokenResponse
	err := c.do(ctx, http.MethodPost, "/token", "", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &token)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, domain.NewInvalidCredentialsError(se)
		}
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, domain.NewParseFailureError("token response has no access_token", nil)
	}
	return &token, nil
}

// Register creates a new account.
func (c *APIClient) Register(ctx context.Context, reg domain.Registration) (*domain.UserProfile, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to encode registration", err)
	}

	var user domain.UserProfile
	err = c.do(ctx, http.MethodPost, "/users/", "", bytes.NewReader(body), "application/json", &user)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			detail := se.Detail
			if detail == "" {
				detail = "Registration failed"
			}
			return nil, domain.NewRegistrationRejectedError(detail, se)
		}
		return nil, err
	}
	return &user, nil
}

// Profile fetches the user the token belongs to.
func (c *APIClient) Profile(ctx context.Context, token string) (*domain.UserProfile, error) {
	var user domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me/", token, nil, "", &user); err != nil {
		return nil, mapAuthenticatedError(err)
	}
	return &user, nil
}

// Analyze submits text for analysis.
func (c *APIClient) Analyze(ctx context.Context, token string, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to encode analysis request", err)
	}

	var result domain.AnalysisResult
	if err := c.do(ctx, http.MethodPost, "/analyze/", token, bytes.NewReader(body), "application/json", &result); err != nil {
		return nil, mapAuthenticatedError(err)
	}
	return &result, nil
}

// ListAnalyses returns the user's analyses, newest first as ordered by the backend.
func (c *APIClient) ListAnalyses(ctx context.Context, token string, opts domain.ListOptions) ([]domain.AnalysisResult, error) {
	query := url.Values{}
	if opts.Skip > 0 {
		query.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/analyses/"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var results []domain.AnalysisResult
	if err := c.do(ctx, http.MethodGet, path, token, nil, "", &results); err != nil {
		return nil, mapAuthenticatedError(err)
	}
	return results, nil
}

// GetAnalysis fetches one analysis by id.
func (c *APIClient) GetAnalysis(ctx context.Context, token string, id int) (*domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/analyses/%d", id), token, nil, "", &result); err != nil {
		return nil, mapAuthenticatedError(err)
	}
	return &result, nil
}

// DeleteAnalysis deletes one analysis by id.
func (c *APIClient) DeleteAnalysis(ctx context.Context, token string, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/analyses/%d", id), token, nil, "", nil); err != nil {
		return mapAuthenticatedError(err)
	}
	return nil
}

// statusError is a non-2xx backend response.
type statusError struct {
	Status int
	Detail string
}

func (e *statusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// mapAuthenticatedError turns transport results of bearer-authenticated calls
// into the domain taxonomy. A 401 always means the session has expired.
func mapAuthenticatedError(err error) error {
	var se *statusError
	if !errors.As(err, &se) {
		return err
	}
	if se.Status == http.StatusUnauthorized {
		return domain.NewSessionExpiredError(se)
	}
	return domain.NewRequestFailedError(se.Detail, se)
}

func (c *APIClient) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out interface{}) error {
	endpoint := c.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return domain.NewInvalidInputError("failed to create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &statusError{Status: resp.StatusCode, Detail: extractDetail(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewParseFailureError(fmt.Sprintf("could not read response from %s %s", method, path), err)
	}
	return nil
}

// extractDetail reads the FastAPI "detail" field, which is either a string or
// a list of validation errors. Non-JSON bodies yield "".
func extractDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg == "" {
				continue
			}
			if field := lastLocation(item.Loc); field != "" {
				msgs = append(msgs, field+": "+item.Msg)
			} else {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func lastLocation(loc []interface{}) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok && s != "body" {
		return s
	}
	return ""
}

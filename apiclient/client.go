// Package apiclient wraps all HTTP traffic to the collection backend. Its
// core is the authenticated request wrapper: it attaches the bearer token,
// classifies authorization failures by the kind of endpoint being called, and
// reports session invalidation back to the lifecycle owner.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	interrors "github.com/pigmykit/go-agent-client/internal/errors"
)

// RequestKind tags a call site with the meaning of a 401 response on that
// endpoint. The backend overloads 401: on most endpoints it means the session
// is invalid, but on collection-submission endpoints it means the agent typed
// a wrong transaction PIN. The tag replaces URL matching as the way to tell
// the two apart.
type RequestKind int

const (
	// KindSession marks endpoints where 401 means the session is invalid
	// (typically: logged in on another device).
	KindSession RequestKind = iota

	// KindTransaction marks endpoints where 401 means a wrong per-transaction
	// PIN and must be handled locally by the caller, not by ending the session.
	KindTransaction
)

// Reason classifies why the wrapper invalidated the session.
type Reason int

const (
	ReasonOtherDevice Reason = iota
	ReasonDeactivated
)

// TokenSource supplies the current bearer token together with the session
// epoch it belongs to. The epoch increments whenever a session ends, letting
// the wrapper discard responses that complete against a session that no
// longer exists.
type TokenSource interface {
	Token() (token string, epoch uint64, ok bool)
	CurrentEpoch() uint64
}

// InvalidationFunc is called at most once per failing request when the
// backend rejects the session outright.
type InvalidationFunc func(ctx context.Context, reason Reason)

const defaultRequestTimeout = 30 * time.Second

// Client issues requests against the collection backend.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	onInvalid InvalidationFunc
}

// Option modifies a Client during construction.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithInvalidation(fn InvalidationFunc) Option {
	return func(c *Client) {
		c.onInvalid = fn
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[New] baseURL is required")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Do executes an authenticated request against path. The bearer token is
// attached as a base header; caller-supplied headers win on name conflict.
//
// Error contract:
//   - interrors.ErrNoSession: no token was available to attach.
//   - interrors.ErrUnavailable: the transport failed; the outcome is
//     indeterminate and the caller must treat it as neither success nor
//     business failure.
//   - interrors.ErrSessionEnded: the session was invalidated, either by this
//     response (401 on a KindSession endpoint, or 403 anywhere) or by a
//     concurrent logout that finished while this request was in flight.
//
// A 401 on a KindTransaction endpoint is returned unchanged for the caller
// to interpret as a wrong PIN. Any other response is returned unchanged.
func (c *Client) Do(ctx context.Context, kind RequestKind, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	if c.tokens == nil {
		return nil, interrors.ErrNoSession
	}
	token, epoch, ok := c.tokens.Token()
	if !ok {
		return nil, interrors.ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Do] build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, values := range header {
		req.Header[http.CanonicalHeaderKey(name)] = values
	}

	requestID := uuid.NewString()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Err(err).Str("request_id", requestID).Str("path", path).Msg("Request failed")
		return nil, interrors.ErrUnavailable
	}

	// The session may have ended while this request was in flight. Acting on
	// the response would leak a result into a cleared session, so drop it.
	if c.tokens.CurrentEpoch() != epoch {
		resp.Body.Close()
		return nil, interrors.ErrSessionEnded
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if kind == KindTransaction {
			return resp, nil
		}
		resp.Body.Close()
		log.Warn().Str("request_id", requestID).Str("path", path).Msg("Session rejected by backend")
		c.invalidate(ctx, ReasonOtherDevice)
		return nil, interrors.ErrSessionEnded
	case http.StatusForbidden:
		resp.Body.Close()
		log.Warn().Str("request_id", requestID).Str("path", path).Msg("Account forbidden by backend")
		c.invalidate(ctx, ReasonDeactivated)
		return nil, interrors.ErrSessionEnded
	}

	return resp, nil
}

// Login exchanges agent credentials for a session. Unauthenticated; the
// wrapper's policy does not apply. Returns the decoded envelope and the HTTP
// status for the caller to branch on.
func (c *Client) Login(ctx context.Context, creds LoginRequest) (*Envelope, int, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, 0, errors.Wrap(err, "[Login] marshal credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginRoute, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, errors.Wrap(err, "[Login] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "[Login] request")
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, "[Login] decode response")
	}
	return &env, resp.StatusCode, nil
}

// Logout notifies the backend that token's session is ending. Best-effort:
// the caller swallows errors so local teardown always completes.
func (c *Client) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LogoutRoute, nil)
	if err != nil {
		return errors.Wrap(err, "[Logout] build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "[Logout] request")
	}
	resp.Body.Close()
	return nil
}

// VerifyToken probes the dashboard endpoint with only the supplied token and
// reports whether the backend accepts it. Fail closed: any transport failure
// counts as invalid. No side effects on session state.
func (c *Client) VerifyToken(ctx context.Context, token string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+DashboardRoute, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) invalidate(ctx context.Context, reason Reason) {
	if c.onInvalid != nil {
		c.onInvalid(ctx, reason)
	}
}

// Package session owns the client-side authentication lifecycle of the agent
// app: credential exchange and persistence, cold-start restore, the
// inactivity timeout, and forced logout when the backend invalidates the
// session. The UI calls the Manager's surface and reads its observable state;
// all business logic beyond this lifecycle lives behind the backend API.
package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/pigmykit/go-agent-client/apiclient"
	"github.com/pigmykit/go-agent-client/credstore"
	"github.com/pigmykit/go-agent-client/dashboard"
	"github.com/pigmykit/go-agent-client/notify"
)

// defaultInactivityTimeout is the window of agent inactivity after which the
// session is forcibly ended.
const defaultInactivityTimeout = 12 * time.Hour

// LoginResult is the structured outcome of a login attempt. Backend rejection
// messages are carried verbatim in Message; network-layer failures get a
// fixed client-side message.
type LoginResult struct {
	Success bool
	Message string
}

// Profile is the read-only projection of the agent's identity, organization,
// and collection summary that the profile screen renders.
type Profile struct {
	Identity     Identity
	Organization dashboard.Organization
	Collection   dashboard.Summary
}

// Manager is the session lifecycle owner. Constructed once at app start and
// injected into every caller; there is no ambient global session state.
type Manager struct {
	client     *apiclient.Client
	store      credstore.Store
	notifier   notify.Notifier
	timeout    time.Duration
	nowTime    func() time.Time // injectable for testing
	httpClient *http.Client     // only consulted during construction

	mu       sync.Mutex
	state    State
	session  *Session
	snapshot *dashboard.Snapshot

	epoch   atomic.Uint64 // bumped on every session end
	loading atomic.Bool

	timer inactivityTimer
}

// ManagerOption modifies a Manager during construction.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithInactivityTimeout overrides the default 12 hour inactivity window.
func WithInactivityTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client used for all backend calls.
func WithHTTPClient(hc *http.Client) ManagerOption {
	return func(m *Manager) {
		m.httpClient = hc
	}
}

// NewManager initializes a Manager talking to the backend at baseURL.
func NewManager(baseURL string, store credstore.Store, notifier notify.Notifier, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] credential store is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewManager] notifier is required")
	}

	m := &Manager{
		store:    store,
		notifier: notifier,
		timeout:  defaultInactivityTimeout,
		nowTime:  time.Now,
		state:    LoggedOut,
	}
	for _, opt := range options {
		opt(m)
	}

	clientOpts := []apiclient.Option{
		apiclient.WithTokenSource(m),
		apiclient.WithInvalidation(m.handleInvalidation),
	}
	if m.httpClient != nil {
		clientOpts = append(clientOpts, apiclient.WithHTTPClient(m.httpClient))
	}
	client, err := apiclient.New(baseURL, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "[NewManager] api client")
	}
	m.client = client
	return m, nil
}

// Token implements apiclient.TokenSource.
func (m *Manager) Token() (string, uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return "", 0, false
	}
	return m.session.AccessToken, m.epoch.Load(), true
}

// CurrentEpoch implements apiclient.TokenSource.
func (m *Manager) CurrentEpoch() uint64 {
	return m.epoch.Load()
}

// Login exchanges agent credentials for a session. On success the session is
// persisted, the inactivity timer starts, and a best-effort dashboard fetch
// runs before returning. A dashboard fetch failure does not fail the login.
//
// Login never reports success if persistence fails: a storage error rolls the
// in-memory session back and the agent must retry.
func (m *Manager) Login(ctx context.Context, agentNo, password string) LoginResult {
	m.mu.Lock()
	if m.state != LoggedOut {
		m.mu.Unlock()
		return LoginResult{Success: false, Message: MsgAlreadyLoggedIn}
	}
	m.state = Authenticating
	m.mu.Unlock()

	m.loading.Store(true)
	defer m.loading.Store(false)

	env, status, err := m.client.Login(ctx, apiclient.LoginRequest{AgentNo: agentNo, Password: password})
	if err != nil {
		log.Err(err).Msg("Login request failed")
		m.setState(LoggedOut)
		return LoginResult{Success: false, Message: MsgNetworkFailure}
	}
	if status < 200 || status >= 300 || !env.Success {
		// The backend's rejection message is surfaced verbatim.
		message := env.Message
		if message == "" {
			message = MsgNetworkFailure
		}
		m.setState(LoggedOut)
		return LoginResult{Success: false, Message: message}
	}

	var data apiclient.LoginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		log.Err(err).Msg("Login response data malformed")
		m.setState(LoggedOut)
		return LoginResult{Success: false, Message: MsgNetworkFailure}
	}
	var identity Identity
	if err := json.Unmarshal(data.Agent, &identity); err != nil || data.AccessToken == "" {
		log.Err(err).Msg("Login agent block malformed")
		m.setState(LoggedOut)
		return LoginResult{Success: false, Message: MsgNetworkFailure}
	}

	now := m.nowTime()
	m.mu.Lock()
	m.session = &Session{Identity: identity, AccessToken: data.AccessToken, LoginTime: now}
	m.state = LoggedIn
	m.mu.Unlock()

	userJSON, err := json.Marshal(identity)
	if err == nil {
		err = m.store.Save(credstore.StoredSession{UserJSON: userJSON, Token: data.AccessToken, Timestamp: now})
	}
	if err != nil {
		log.Err(err).Msg("Persisting session failed, rolling back login")
		m.mu.Lock()
		m.session = nil
		m.snapshot = nil
		m.state = LoggedOut
		m.epoch.Add(1)
		m.mu.Unlock()
		m.timer.Stop()
		return LoginResult{Success: false, Message: MsgStorageFailure}
	}

	m.timer.Reset(m.timeout, m.onInactivityTimeout)
	m.FetchDashboardData(ctx) // best-effort
	log.Info().Str("agentno", identity.AgentNo).Msg("Agent logged in")
	return LoginResult{Success: true, Message: env.Message}
}

// Restore re-establishes a session from durable storage on cold start. A
// stored session older than the inactivity window, or one whose token the
// backend no longer accepts, ends in LoggedOut with storage cleared and a
// user-visible explanation. Unexpected storage failures end the session
// silently.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	if m.state != LoggedOut {
		m.mu.Unlock()
		return
	}
	m.state = Restoring
	m.mu.Unlock()

	m.loading.Store(true)
	defer m.loading.Store(false)

	stored, err := m.store.Load()
	if err != nil {
		log.Err(err).Msg("Restore failed reading credential store")
		m.forceLogout(ctx, "")
		return
	}
	if stored == nil {
		m.setState(LoggedOut)
		return
	}

	if m.nowTime().Sub(stored.Timestamp) >= m.timeout {
		m.forceLogout(ctx, MsgExpiredInactivity)
		return
	}

	if !m.client.VerifyToken(ctx, stored.Token) {
		m.forceLogout(ctx, MsgSessionExpired)
		return
	}

	var identity Identity
	if err := json.Unmarshal(stored.UserJSON, &identity); err != nil {
		log.Err(err).Msg("Restore failed decoding stored identity")
		m.forceLogout(ctx, "")
		return
	}

	now := m.nowTime()
	m.mu.Lock()
	m.session = &Session{Identity: identity, AccessToken: stored.Token, LoginTime: stored.Timestamp}
	m.state = LoggedIn
	m.mu.Unlock()

	// Restarting the expiry clock: the next cold start measures from this
	// restore, not the original login.
	if err := m.store.Save(credstore.StoredSession{UserJSON: stored.UserJSON, Token: stored.Token, Timestamp: now}); err != nil {
		log.Err(err).Msg("Refreshing stored session timestamp failed")
	}

	m.timer.Reset(m.timeout, m.onInactivityTimeout)
	m.FetchDashboardData(ctx) // best-effort
	log.Info().Str("agentno", identity.AgentNo).Msg("Session restored")
}

// Logout ends the session at the agent's request. No dialog is shown.
func (m *Manager) Logout(ctx context.Context) {
	m.forceLogout(ctx, "")
}

// ResetSessionTimer restarts the inactivity countdown. Call on explicit
// activity signals. No-op when not logged in.
func (m *Manager) ResetSessionTimer() {
	m.mu.Lock()
	loggedIn := m.state == LoggedIn
	m.mu.Unlock()

	if !loggedIn {
		return
	}
	m.timer.Reset(m.timeout, m.onInactivityTimeout)
}

// OnAppForeground is the app-lifecycle hook: a foreground transition counts
// as activity. The UI's lifecycle observer calls this; the core never
// reaches into UI lifecycle internals.
func (m *Manager) OnAppForeground() {
	m.ResetSessionTimer()
}

// MakeAuthenticatedRequest routes a request through the authenticated
// wrapper. See apiclient.Client.Do for the error contract.
func (m *Manager) MakeAuthenticatedRequest(ctx context.Context, kind apiclient.RequestKind, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	return m.client.Do(ctx, kind, method, path, body, header)
}

// Client exposes the underlying API client for request-issuing UI code.
func (m *Manager) Client() *apiclient.Client {
	return m.client
}

// FetchDashboardData fetches the dashboard and replaces the cached snapshot
// wholesale. Returns nil on any failure; a failed fetch leaves the prior
// snapshot untouched. If the wrapper invalidated the session, the logout has
// already happened by the time this returns nil.
func (m *Manager) FetchDashboardData(ctx context.Context) *dashboard.Snapshot {
	resp, err := m.client.Do(ctx, apiclient.KindSession, http.MethodGet, apiclient.DashboardRoute, nil, nil)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}
	var env apiclient.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Err(err).Msg("Dashboard response malformed")
		return nil
	}
	if !env.Success {
		return nil
	}
	var snap dashboard.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		log.Err(err).Msg("Dashboard data malformed")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		// Session ended while the fetch was in flight.
		return nil
	}
	m.snapshot = &snap
	return &snap
}

// RefreshDashboardData re-fetches the dashboard after state-changing
// operations. No-op without an active session.
func (m *Manager) RefreshDashboardData(ctx context.Context) *dashboard.Snapshot {
	m.mu.Lock()
	active := m.session != nil
	m.mu.Unlock()

	if !active {
		return nil
	}
	return m.FetchDashboardData(ctx)
}

// User returns a copy of the logged-in identity, or nil when logged out.
func (m *Manager) User() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil
	}
	identity := m.session.Identity
	return &identity
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsLoading reports whether a login or restore is in flight.
func (m *Manager) IsLoading() bool {
	return m.loading.Load()
}

// DashboardData returns the cached snapshot, or nil when none is held.
func (m *Manager) DashboardData() *dashboard.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// GetUserProfileData projects identity, organization, and collection summary
// for the profile screen. Nil when logged out.
func (m *Manager) GetUserProfileData() *Profile {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil
	}
	p := &Profile{Identity: m.session.Identity}
	if m.snapshot != nil {
		p.Organization = m.snapshot.Organization
		p.Collection = m.snapshot.CollectionSummary()
	}
	return p
}

// HasActiveCollection reports whether an unsubmitted collection batch with at
// least one transaction is cached.
func (m *Manager) HasActiveCollection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.HasActiveCollection()
}

// GetCollectionSummary returns the summary of today's cached batch.
func (m *Manager) GetCollectionSummary() dashboard.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.CollectionSummary()
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) onInactivityTimeout() {
	log.Warn().Msg("Inactivity timeout reached")
	m.forceLogout(context.Background(), MsgInactivityLogout)
}

func (m *Manager) handleInvalidation(ctx context.Context, reason apiclient.Reason) {
	switch reason {
	case apiclient.ReasonDeactivated:
		m.forceLogout(ctx, MsgDeactivated)
	default:
		m.forceLogout(ctx, MsgOtherDevice)
	}
}

// forceLogout tears the session down and, when message is non-empty,
// surfaces it to the user as a modal notice. The state machine is the
// re-entrancy guard: teardown only runs from LoggedIn or Restoring, so
// concurrent triggers (two 401s, a 401 racing a user logout) collapse into
// exactly one storage clear and at most one dialog.
func (m *Manager) forceLogout(ctx context.Context, message string) {
	m.mu.Lock()
	if m.state != LoggedIn && m.state != Restoring {
		m.mu.Unlock()
		return
	}
	var token string
	if m.session != nil {
		token = m.session.AccessToken
	}
	m.state = LoggedOut
	m.session = nil
	m.snapshot = nil
	m.epoch.Add(1)
	m.mu.Unlock()

	// Best-effort: local teardown always completes even if the backend is
	// unreachable.
	if token != "" {
		if err := m.client.Logout(ctx, token); err != nil {
			log.Err(err).Msg("Backend logout notification failed")
		}
	}

	m.timer.Stop()

	if err := m.store.Clear(); err != nil {
		log.Err(err).Msg("Clearing credential store failed")
	}

	log.Info().Str("reason", message).Msg("Session ended")
	if message != "" {
		m.notifier.Show(notify.Notice{Severity: notify.Classify(message), Message: message})
	}
}

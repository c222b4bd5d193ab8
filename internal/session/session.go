// Package session owns the session-token lifecycle: creating anonymous
// sessions, logging users in and out, rotating tokens sniffed from response
// headers, and the single-flight refresh that replays requests rejected with
// a recoverable token error.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-retry"

	"github.com/tilbuda/go-shoplist-sdk/internal/config"
	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/internal/network"
	"github.com/tilbuda/go-shoplist-sdk/internal/utils"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

// Refresh backoff: first retry after refreshBase, doubling, at most
// refreshAttempts tries in total.
const (
	refreshBase     = 500 * time.Millisecond
	refreshAttempts = 3
)

// payload is the session resource as the server represents it.
type payload struct {
	Token   string           `json:"token"`
	Expires models.Timestamp `json:"expires"`
	User    models.User      `json:"user"`
}

// credentials is the body of session create/update calls.
type credentials struct {
	APIKey   string `json:"api_key,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	TokenTTL int    `json:"token_ttl,omitempty"`
}

// Requeuer resubmits a parked request after a successful refresh, or
// completes it when replay is impossible. The queue satisfies it.
type Requeuer interface {
	Enqueue(*network.Request) error
	Complete(*network.Request, network.Result)
}

// Manager implements [network.SessionRecoverer]. All session endpoint calls
// go straight through the transport, never the queue: the queue's dispatchers
// are the ones waiting on us, and session requests must not be subject to
// session recovery themselves.
type Manager struct {
	apiKey    string
	apiSecret string
	net       network.Network
	queue     Requeuer
	log       *logger.Logger

	mu         sync.Mutex
	session    models.Session
	parked     []*network.Request
	refreshing bool
}

// NewManager builds a manager with no session established. Call Ensure (or
// Login) before starting the sync loop.
func NewManager(cfg config.API, net network.Network, log *logger.Logger) *Manager {
	return &Manager{
		apiKey:    cfg.Key,
		apiSecret: cfg.Secret,
		net:       net,
		log:       log,
	}
}

// AttachQueue wires the queue used to resubmit recovered requests. Set once
// during SDK construction, before any dispatcher starts.
func (m *Manager) AttachQueue(q Requeuer) { m.queue = q }

// Session returns a copy of the current session.
func (m *Manager) Session() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// User returns the current session user. Anonymous sessions carry a zero ID.
func (m *Manager) User() models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.User
}

// LoggedIn reports whether the session belongs to a named account.
func (m *Manager) LoggedIn() bool {
	return m.User().LoggedIn()
}

// AuthHeaders implements [network.SessionRecoverer].
func (m *Manager) AuthHeaders() map[string]string {
	m.mu.Lock()
	token := m.session.Token
	m.mu.Unlock()

	if token == "" {
		return map[string]string{}
	}
	return map[string]string{
		network.HeaderToken:     token,
		network.HeaderSignature: utils.Signature(m.apiSecret, token),
	}
}

// UpdateTokens implements [network.SessionRecoverer]. A token identical to
// the current one is ignored; a rotated token replaces it together with its
// expiry. When the server sent no parsable expiry the token itself is probed
// for a JWT exp claim as a fallback.
func (m *Manager) UpdateTokens(token string, expires time.Time) {
	if expires.IsZero() {
		expires = jwtExpiry(token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if token == m.session.Token {
		if !expires.IsZero() {
			m.session.Expires = models.Timestamp{Time: expires}
		}
		return
	}
	m.session.Token = token
	m.session.Expires = models.Timestamp{Time: expires}
	m.log.Debug().Time("expires", expires).Msg("session token rotated")
}

// jwtExpiry extracts the exp claim from a JWT-shaped token without verifying
// the signature. Opaque tokens yield a zero time.
func jwtExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Ensure establishes a session if none exists, creating an anonymous one.
// Safe to call repeatedly; an existing unexpired session is kept.
func (m *Manager) Ensure(ctx context.Context) error {
	m.mu.Lock()
	have := m.session.Token != "" && !m.session.Expired()
	m.mu.Unlock()
	if have {
		return nil
	}
	return m.create(ctx, credentials{APIKey: m.apiKey})
}

// Login exchanges email/password credentials for an authenticated session.
// The previous session (anonymous or not) is replaced wholesale.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, error) {
	err := m.create(ctx, credentials{APIKey: m.apiKey, Email: email, Password: password})
	if err != nil {
		return models.User{}, err
	}
	return m.User(), nil
}

// Logout deletes the server-side session and clears local state. A new
// anonymous session is created on the next Ensure.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	headers := map[string]string{}
	if m.session.Token != "" {
		headers[network.HeaderToken] = m.session.Token
		headers[network.HeaderSignature] = utils.Signature(m.apiSecret, m.session.Token)
	}
	m.session = models.Session{}
	m.mu.Unlock()

	resp, err := m.net.Perform(http.MethodDelete, network.EndpointSessions, nil, headers, nil)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return fmt.Errorf("logout: unexpected status %d", resp.Status)
	}
	return nil
}

// create POSTs the session endpoint and installs the returned session.
func (m *Manager) create(ctx context.Context, creds credentials) error {
	resp, err := m.net.Perform(http.MethodPost, network.EndpointSessions, nil, nil, creds)
	if err != nil {
		return fmt.Errorf("create session: %w", models.NoResponseError(err))
	}
	return m.install(resp)
}

// install decodes a session payload response and stores it. Non-2xx statuses
// surface the structured server error.
func (m *Manager) install(resp network.Response) error {
	if resp.Status < 200 || resp.Status >= 300 {
		return network.DecodeServerError(resp)
	}

	p, err := network.DecodeJSON[payload](network.Result{Status: resp.Status, Body: resp.Body})
	if err != nil {
		return fmt.Errorf("decode session: %w", err)
	}

	expires := p.Expires.Time
	if expires.IsZero() {
		expires = jwtExpiry(p.Token)
	}

	m.mu.Lock()
	m.session = models.Session{
		Token:   p.Token,
		Expires: models.Timestamp{Time: expires},
		User:    p.User,
	}
	m.mu.Unlock()

	m.log.Info().
		Int64("user_id", p.User.ID).
		Time("expires", expires).
		Msg("session established")
	return nil
}

// Recover implements [network.SessionRecoverer]. The rejected request is
// parked; the first caller to park also starts the single-flight refresh
// goroutine. After a successful refresh every parked request is re-enqueued
// exactly once; after a failed refresh they all complete with the refresh
// error.
func (m *Manager) Recover(serr *models.ServerError, req *network.Request) bool {
	if m.queue == nil {
		return false
	}

	m.mu.Lock()
	m.parked = append(m.parked, req)
	starting := !m.refreshing
	m.refreshing = true
	m.mu.Unlock()

	req.AddEvent("parked-for-session-recovery")
	if starting {
		go m.refresh(serr)
	}
	return true
}

// refresh renews the session with backoff and releases the parked requests.
func (m *Manager) refresh(cause *models.ServerError) {
	ctx := context.Background()
	backoff := retry.WithMaxRetries(refreshAttempts-1, retry.NewExponential(refreshBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if rerr := m.renew(ctx); rerr != nil {
			var serr *models.ServerError
			if errors.As(rerr, &serr) && serr.Code == models.CodeNoResponse {
				return retry.RetryableError(rerr)
			}
			return rerr
		}
		return nil
	})

	m.mu.Lock()
	parked := m.parked
	m.parked = nil
	m.refreshing = false
	m.mu.Unlock()

	if err != nil {
		m.log.Warn().
			Int("cause_code", cause.Code).
			Int("parked", len(parked)).
			Err(err).
			Msg("session refresh failed")
		for _, r := range parked {
			r.AddEvent("session-recovery-failed")
			m.queue.Complete(r, network.Result{Err: err})
		}
		return
	}

	m.log.Debug().Int("parked", len(parked)).Msg("session refreshed, replaying requests")
	for _, r := range parked {
		r.AddEvent("resubmitted-after-refresh")
		if qerr := m.queue.Enqueue(r); qerr != nil {
			m.queue.Complete(r, network.Result{Err: qerr})
		}
	}
}

// renew issues one refresh round-trip: PUT /v2/sessions with the current
// token, falling back to creating a fresh anonymous session when no token
// survives to refresh.
func (m *Manager) renew(ctx context.Context) error {
	m.mu.Lock()
	token := m.session.Token
	m.mu.Unlock()

	if token == "" {
		return m.create(ctx, credentials{APIKey: m.apiKey})
	}

	headers := map[string]string{
		network.HeaderToken:     token,
		network.HeaderSignature: utils.Signature(m.apiSecret, token),
	}
	resp, err := m.net.Perform(http.MethodPut, network.EndpointSessions, nil, headers, credentials{APIKey: m.apiKey})
	if err != nil {
		return models.NoResponseError(err)
	}

	if resp.Status < 200 || resp.Status >= 300 {
		serr := network.DecodeServerError(resp)
		var typed *models.ServerError
		if errors.As(serr, &typed) && typed.IsSessionError() {
			// The old token is beyond refreshing. Drop it and start over
			// with a fresh anonymous session.
			m.mu.Lock()
			m.session = models.Session{}
			m.mu.Unlock()
			return m.create(ctx, credentials{APIKey: m.apiKey})
		}
		return serr
	}
	return m.install(resp)
}

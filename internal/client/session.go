package client

import (
	"context"
	"sync"
	"time"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// AuthEvent is an auth-state change delivered to subscribers.
type AuthEvent string

const (
	EventSignedIn  AuthEvent = "SIGNED_IN"
	EventSignedOut AuthEvent = "SIGNED_OUT"
	EventRestored  AuthEvent = "SESSION_RESTORED"
)

// Paths the provider navigates between on auth transitions.
const (
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
)

// AuthAPI is the slice of the server API the session provider needs.
type AuthAPI interface {
	Register(ctx context.Context, email, password, name string) (string, error)
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	SessionProfile(ctx context.Context, token string) (*model.Profile, error)
}

// SessionStore persists the session across process restarts.
type SessionStore interface {
	Load() (*model.Session, error)
	Save(model.Session) error
	Clear() error
}

// Navigator is the routing surface the provider redirects through.
type Navigator interface {
	Current() string
	Navigate(path string)
}

// SignUpResult reports a registration outcome. Session is nil when no
// session was established (the confirm-your-email style path); the caller
// still treats the sign-up as successful.
type SignUpResult struct {
	UserID  string
	Session *model.Session
}

// Provider is the single source of truth for "who is logged in". It is
// constructed once at startup and lives for the process lifetime. All
// session mutations converge on setSession, which is idempotent: the most
// recent writer wins, no ordering guarantee beyond that.
type Provider struct {
	api   AuthAPI
	store SessionStore
	nav   Navigator

	mu      sync.Mutex
	loading bool
	session *model.Session
	subs    map[int]func(AuthEvent, *model.Session)
	nextSub int
}

// NewProvider constructs the provider in the loading state. Consumers must
// not redirect until Restore has resolved.
func NewProvider(api AuthAPI, store SessionStore, nav Navigator) *Provider {
	return &Provider{
		api:     api,
		store:   store,
		nav:     nav,
		loading: true,
		subs:    map[int]func(AuthEvent, *model.Session){},
	}
}

// Loading reports whether the initial restore is still in flight.
func (p *Provider) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Session returns the current session, nil when signed out.
func (p *Provider) Session() *model.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil
	}
	s := *p.session
	return &s
}

// Subscribe registers an auth-state listener and returns its unsubscribe func.
func (p *Provider) Subscribe(fn func(AuthEvent, *model.Session)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Restore performs the single load-time session restore: a persisted,
// unexpired token is validated against the server and becomes the current
// session. Runs exactly once per process; errors degrade to signed-out.
func (p *Provider) Restore(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	saved, err := p.store.Load()
	if err != nil || saved == nil || saved.Expired(time.Now()) {
		return
	}
	prof, err := p.api.SessionProfile(ctx, saved.AccessToken)
	if err != nil {
		_ = p.store.Clear()
		return
	}
	saved.UserID = prof.ID
	saved.Email = prof.Email
	p.setSession(EventRestored, saved)
}

// SignIn authenticates and establishes the session. On success the view is
// navigated to the dashboard when it currently sits on login or register.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := p.api.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	// Best-effort persist; the in-memory session stands either way.
	_ = p.store.Save(sess)
	p.setSession(EventSignedIn, &sess)
	return &sess, nil
}

// SignUp registers an account and attempts to establish a session. A
// failed auto sign-in is not an error: the result simply carries no session.
func (p *Provider) SignUp(ctx context.Context, email, password, name string) (SignUpResult, error) {
	userID, err := p.api.Register(ctx, email, password, name)
	if err != nil {
		return SignUpResult{}, err
	}
	sess, err := p.SignIn(ctx, email, password)
	if err != nil {
		return SignUpResult{UserID: userID}, nil
	}
	return SignUpResult{UserID: userID, Session: sess}, nil
}

// SignOut clears the persisted and in-memory session and navigates to login.
func (p *Provider) SignOut(ctx context.Context) {
	_ = p.store.Clear()
	p.setSession(EventSignedOut, nil)
}

// setSession is the single convergence point for all session mutations.
func (p *Provider) setSession(ev AuthEvent, s *model.Session) {
	p.mu.Lock()
	p.session = s
	subs := make([]func(AuthEvent, *model.Session), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(ev, s)
	}

	switch {
	case ev == EventSignedOut:
		p.nav.Navigate(PathLogin)
	case s != nil && (p.nav.Current() == PathLogin || p.nav.Current() == PathRegister):
		p.nav.Navigate(PathDashboard)
	}
}

package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

type AuthState int

const (
	StateUnknown AuthState = iota
	StateSignedOut
	StateSignedIn
)

func (s AuthState) String() string {
	switch s {
	case StateSignedIn:
		return "signed_in"
	case StateSignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// SessionAPI is the part of the API client the provider needs.
type SessionAPI interface {
	SetToken(token string)
	LoginWithGoogle(ctx context.Context, idToken string) (*Session, error)
	Me(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context, googleToken string) error
}

var _ SessionAPI = (*Client)(nil)

// AuthProvider holds the signed-in user for the client process. It starts in
// StateUnknown and leaves it exactly once, on the first call to Resolve,
// SignIn or SignOut. Listeners are told about every later transition.
type AuthProvider struct {
	api    SessionAPI
	source FederatedSource
	store  CredentialStore
	now    func() time.Time

	mu        sync.Mutex
	state     AuthState
	user      *domain.User
	creds     *Credentials
	listeners map[int]func(*domain.User)
	nextID    int
	ready     chan struct{}
}

func NewAuthProvider(api SessionAPI, source FederatedSource, store CredentialStore) *AuthProvider {
	return &AuthProvider{
		api:       api,
		source:    source,
		store:     store,
		now:       time.Now,
		listeners: make(map[int]func(*domain.User)),
		ready:     make(chan struct{}),
	}
}

func (p *AuthProvider) CurrentUser() *domain.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

func (p *AuthProvider) State() AuthState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// IsLoading is true until the first state resolution and never again after.
func (p *AuthProvider) IsLoading() bool {
	return p.State() == StateUnknown
}

// Ready is closed once the first state resolution has happened.
func (p *AuthProvider) Ready() <-chan struct{} {
	return p.ready
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (p *AuthProvider) Subscribe(fn func(*domain.User)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// Resolve restores the stored session and checks it against the API. A
// rejected or expired session is discarded and the provider resolves to
// signed out. Other failures also resolve to signed out but keep the stored
// credentials so a later run can retry.
func (p *AuthProvider) Resolve(ctx context.Context) error {
	if p.State() != StateUnknown {
		return nil
	}

	creds, err := p.store.Load()
	if err != nil {
		p.transition(StateSignedOut, nil, nil)
		return err
	}
	if creds.Expired(p.now()) {
		if creds != nil {
			_ = p.store.Clear()
		}
		p.transition(StateSignedOut, nil, nil)
		return nil
	}

	p.api.SetToken(creds.SessionToken)
	user, err := p.api.Me(ctx)
	switch {
	case err == nil:
		p.transition(StateSignedIn, user, creds)
		return nil
	case errors.Is(err, domain.ErrAuth):
		p.api.SetToken("")
		_ = p.store.Clear()
		p.transition(StateSignedOut, nil, nil)
		return nil
	default:
		p.api.SetToken("")
		p.transition(StateSignedOut, nil, nil)
		return fmt.Errorf("restore session: %w", err)
	}
}

// SignIn obtains a Google ID token and exchanges it for an API session.
func (p *AuthProvider) SignIn(ctx context.Context) (*domain.User, error) {
	fed, err := p.source.Token(ctx)
	if err != nil {
		p.resolveIfUnknown()
		if errors.Is(err, domain.ErrAuth) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	if fed == nil || strings.TrimSpace(fed.IDToken) == "" {
		p.resolveIfUnknown()
		return nil, fmt.Errorf("%w: no identity token was returned", domain.ErrAuth)
	}

	session, err := p.api.LoginWithGoogle(ctx, fed.IDToken)
	if err != nil {
		p.resolveIfUnknown()
		return nil, fmt.Errorf("%w: sign-in rejected: %v", domain.ErrAuth, err)
	}

	creds := Credentials{
		SessionToken:      session.Token,
		ExpiresAt:         session.ExpiresAt,
		User:              session.User,
		GoogleAccessToken: fed.AccessToken,
	}
	p.api.SetToken(session.Token)
	if err := p.store.Save(creds); err != nil {
		// The session is usable for this process even if it could not be persisted.
		p.transition(StateSignedIn, session.User, &creds)
		return session.User, fmt.Errorf("save credentials: %w", err)
	}
	p.transition(StateSignedIn, session.User, &creds)
	return session.User, nil
}

// SignOut ends the API session and clears the local credentials. Both steps
// run even when one fails; the provider ends up signed out either way.
func (p *AuthProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	creds := p.creds
	p.mu.Unlock()
	if creds == nil {
		stored, err := p.store.Load()
		if err == nil && stored != nil {
			creds = stored
			p.api.SetToken(stored.SessionToken)
		}
	}

	var errs []error
	if creds != nil && creds.SessionToken != "" {
		googleToken := creds.GoogleAccessToken
		if err := p.api.Logout(ctx, googleToken); err != nil {
			errs = append(errs, fmt.Errorf("end session: %w", err))
		}
	}
	if err := p.store.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear credentials: %w", err))
	}

	p.api.SetToken("")
	p.transition(StateSignedOut, nil, nil)
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrAuth, errors.Join(errs...))
	}
	return nil
}

func (p *AuthProvider) resolveIfUnknown() {
	if p.State() == StateUnknown {
		p.transition(StateSignedOut, nil, nil)
	}
}

func (p *AuthProvider) transition(state AuthState, user *domain.User, creds *Credentials) {
	p.mu.Lock()
	first := p.state == StateUnknown
	changed := first || p.state != state || !sameUser(p.user, user)
	p.state = state
	p.user = user
	p.creds = creds
	listeners := make([]func(*domain.User), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	if first {
		close(p.ready)
	}
	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(user)
	}
}

func sameUser(a, b *domain.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Email == b.Email
}

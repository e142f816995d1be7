// Package identity tracks who is signed in on this client and tells the rest
// of the client when that changes.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/andrewpaige1/studydeck/apperrors"
	"github.com/andrewpaige1/studydeck/logger"
)

// StorageName is the snapshot key the signed-in identity is kept under.
const StorageName = "auth-session"

type Identity struct {
	UserID      string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Token       string `json:"token,omitempty"`
}

// Present reports whether the identity names a user.
func (i Identity) Present() bool {
	return i.UserID != ""
}

// Provider is the identity service.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Identity, error)
	SignUp(ctx context.Context, email, password, displayName string) (Identity, error)
	SignOut(ctx context.Context, current Identity) error
}

// Persister keeps the signed-in identity across restarts.
type Persister interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Listener receives the new identity; an absent identity means sign-out.
type Listener func(ctx context.Context, id Identity)

type Session struct {
	mu        sync.Mutex
	provider  Provider
	persister Persister
	current   Identity
	listeners []Listener
	log       *logger.Logger
}

// NewSession restores the last saved identity from p without notifying
// anyone. p may be nil.
func NewSession(ctx context.Context, provider Provider, p Persister, log *logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &Session{provider: provider, persister: p, log: log.With("component", "identity")}
	if p == nil {
		return s, nil
	}
	data, err := p.Load(ctx, StorageName)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", StorageName, err)
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StorageName, err)
	}
	return s, nil
}

func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Session) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current.Present()
}

// Token is the bearer token of the current identity, empty when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

func (s *Session) SignIn(ctx context.Context, email, password string) (Identity, error) {
	id, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}
	s.set(ctx, id)
	return id, nil
}

func (s *Session) SignUp(ctx context.Context, email, password, displayName string) (Identity, error) {
	id, err := s.provider.SignUp(ctx, email, password, displayName)
	if err != nil {
		return Identity{}, err
	}
	s.set(ctx, id)
	return id, nil
}

// SignOut clears the local identity even when the provider call fails.
func (s *Session) SignOut(ctx context.Context) error {
	cur, ok := s.Current()
	if !ok {
		return nil
	}
	err := s.provider.SignOut(ctx, cur)
	if err != nil {
		s.log.Warn("sign out", "error", err)
	}
	s.set(ctx, Identity{})
	return err
}

// Resume replays the current identity to the listeners, as a client does on
// start-up when a saved sign-in is still present.
func (s *Session) Resume(ctx context.Context) {
	s.mu.Lock()
	cur := s.current
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range listeners {
		l(ctx, cur)
	}
}

func (s *Session) set(ctx context.Context, id Identity) {
	s.mu.Lock()
	changed := s.current.UserID != id.UserID
	s.current = id
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.save(ctx, id)
	if !changed {
		return
	}
	s.log.Info("identity changed", "user_id", id.UserID)
	for _, l := range listeners {
		l(ctx, id)
	}
}

func (s *Session) save(ctx context.Context, id Identity) {
	if s.persister == nil {
		return
	}
	data, err := json.Marshal(id)
	if err != nil {
		s.log.Error("encode identity", "error", err)
		return
	}
	if err := s.persister.Save(ctx, StorageName, data); err != nil {
		s.log.Error("save identity", "error", err)
	}
}

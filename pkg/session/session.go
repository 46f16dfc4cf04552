package session

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type contextKey string

const sessionKey contextKey = "session"

var ErrNoSession = errors.New("no session in context")

type Profile struct {
	Id        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsCompany bool
}

func (p Profile) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.Username
	}
}

// tokenHolder is shared by every copy of a Session so concurrent calls within one request see the same token.
type tokenHolder struct {
	mu    sync.RWMutex
	token oauth2.Token
}

// Session is the authenticated state of one API user. It is passed down explicitly
// through context.Context instead of living in a process-wide store.
type Session struct {
	tokens  *tokenHolder
	Profile *Profile
}

// New wraps token in a session. A nil token yields an unauthenticated session.
func New(token *oauth2.Token) Session {
	if token == nil {
		return Session{}
	}
	return Session{tokens: &tokenHolder{token: *token}}
}

// FromToken builds a session around a bearer access token and an optional refresh token.
func FromToken(access, refresh string) Session {
	return New(&oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"})
}

// Token returns a copy of the current token, or nil for an unauthenticated session.
func (s Session) Token() *oauth2.Token {
	if s.tokens == nil {
		return nil
	}
	s.tokens.mu.RLock()
	defer s.tokens.mu.RUnlock()
	if s.tokens.token.AccessToken == "" {
		return nil
	}
	copied := s.tokens.token
	return &copied
}

// holdsToken reports whether the session was created with a token, even one cleared since.
func (s Session) holdsToken() bool {
	return s.tokens != nil
}

func (s Session) setToken(token oauth2.Token) {
	s.tokens.mu.Lock()
	defer s.tokens.mu.Unlock()
	s.tokens.token = token
}

func (s Session) Authenticated() bool {
	return s.Token() != nil
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// Current retrieves the session from ctx. Returns ErrNoSession if none was attached.
func Current(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionKey).(Session)
	if !ok {
		log.Trace("session not found in context")
		return Session{}, ErrNoSession
	}
	return s, nil
}

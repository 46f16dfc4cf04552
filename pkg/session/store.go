package session

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// TokenStore keeps the access and refresh tokens between requests.
type TokenStore interface {
	// Load returns the stored token or nil when there is none.
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

func NewMemoryStore(token *oauth2.Token) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load(ctx context.Context) (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil, nil
	}
	copied := *m.token
	return &copied, nil
}

func (m *MemoryStore) Save(ctx context.Context, token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == nil {
		m.token = nil
		return nil
	}
	copied := *token
	m.token = &copied
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	return nil
}

// ContextStore prefers the tokens of a session found in the context and falls back to another store.
// Tokens refreshed or cleared for a context session never reach the fallback.
type ContextStore struct {
	Fallback TokenStore
}

func (c ContextStore) Load(ctx context.Context) (*oauth2.Token, error) {
	if s, err := Current(ctx); err == nil && s.holdsToken() {
		return s.Token(), nil
	}
	if c.Fallback == nil {
		return nil, nil
	}
	return c.Fallback.Load(ctx)
}

func (c ContextStore) Save(ctx context.Context, token *oauth2.Token) error {
	if s, err := Current(ctx); err == nil && s.holdsToken() {
		// the session token belongs to the caller; update it in place for the rest of the request
		if token == nil {
			s.setToken(oauth2.Token{})
			return nil
		}
		s.setToken(*token)
		return nil
	}
	if c.Fallback == nil {
		return nil
	}
	return c.Fallback.Save(ctx, token)
}

func (c ContextStore) Clear(ctx context.Context) error {
	if s, err := Current(ctx); err == nil && s.holdsToken() {
		s.setToken(oauth2.Token{})
		return nil
	}
	if c.Fallback == nil {
		return nil
	}
	return c.Fallback.Clear(ctx)
}

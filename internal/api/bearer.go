package api

import "sync"

// TokenSource provides the bearer credential attached to outgoing requests.
// An empty string means no session is active.
type TokenSource interface {
	Token() string
}

// Bearer is a shared mutable token holder. The session manager is its single
// writer; the client only ever reads it.
type Bearer struct {
	mu    sync.RWMutex
	token string
}

// NewBearer creates an empty bearer holder.
func NewBearer() *Bearer {
	return &Bearer{}
}

// Token returns the current bearer token, or "" when none is set.
func (b *Bearer) Token() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token
}

// Set replaces the current token.
func (b *Bearer) Set(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

// Clear removes the current token.
func (b *Bearer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
}

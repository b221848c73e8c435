// Package auth implements the shared-secret gate used for both session login
// and destructive-action confirmation. There is no per-user identity; actor
// attribution in the history is best-effort free text.
package auth

import (
	"crypto/subtle"
	"sync/atomic"
)

// Gate validates the shared administrative secret. It is injected as a
// dependency instead of read from ambient storage so callers can be tested
// against a known secret.
type Gate struct {
	secret        []byte
	authenticated atomic.Bool
}

// NewGate creates a gate for the given shared secret
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Confirm checks a credential against the shared secret without changing
// session state. The comparison is constant-time.
func (g *Gate) Confirm(credential string) bool {
	if len(g.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(credential)) == 1
}

// Login validates the credential and marks the session authenticated
func (g *Gate) Login(credential string) bool {
	if !g.Confirm(credential) {
		return false
	}
	g.authenticated.Store(true)
	return true
}

// Authenticated reports whether a successful login has occurred
func (g *Gate) Authenticated() bool {
	return g.authenticated.Load()
}

// Logout clears the session flag
func (g *Gate) Logout() {
	g.authenticated.Store(false)
}

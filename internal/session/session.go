// Package session carries the operator identity for a request. The
// session is built once by the auth middleware and passed explicitly
// through context into every store call; there is no package-level
// current user.
package session

import (
	"context"
	"errors"
)

// State is the lifecycle state of a session
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
	StateRevoked       State = "revoked"
)

// ErrUnauthenticated is returned when an operation requires an
// authenticated session and the request has none
var ErrUnauthenticated = errors.New("unauthenticated session")

// Session identifies the operator behind a request
type Session struct {
	UID   string
	Email string
	State State
}

// Anonymous returns the session for an unauthenticated request
func Anonymous() Session {
	return Session{State: StateAnonymous}
}

// Authenticated builds a session for a verified identity
func Authenticated(uid, email string) Session {
	return Session{UID: uid, Email: email, State: StateAuthenticated}
}

// Revoked builds a session for a cookie whose backing credentials were
// revoked at the identity provider
func Revoked(uid string) Session {
	return Session{UID: uid, State: StateRevoked}
}

// Valid reports whether the session may perform store operations
func (s Session) Valid() bool {
	return s.State == StateAuthenticated && s.UID != ""
}

type contextKey struct{}

// NewContext returns a context carrying the session
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session from a context. Requests that never
// passed the auth middleware yield the anonymous session.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(contextKey{}).(Session); ok {
		return s
	}
	return Anonymous()
}

// Require returns the session or ErrUnauthenticated if it cannot
// perform store operations
func Require(ctx context.Context) (Session, error) {
	s := FromContext(ctx)
	if !s.Valid() {
		return s, ErrUnauthenticated
	}
	return s, nil
}

// Package auth checks method call tokens.
//
// Regular callers sign with sha512(account + login + salt). The admin login signs
// with sha512(YYYYMMDDHH + adminSalt) using the local clock, so an admin token is
// valid only during the hour it was issued for.
package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/janisto/scoring-api/internal/api"
	"github.com/janisto/scoring-api/internal/platform/timeutil"
)

// Authenticator computes and compares request signatures.
type Authenticator struct {
	salt      string
	adminSalt string
	now       func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithClock overrides the clock used for admin tokens.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

// New creates an Authenticator for the given salts.
func New(salt, adminSalt string, opts ...Option) *Authenticator {
	a := &Authenticator{salt: salt, adminSalt: adminSalt, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Token returns the signature expected for a regular caller.
func (a *Authenticator) Token(account, login string) string {
	return digest(account + login + a.salt)
}

// AdminToken returns the admin signature valid during the hour containing t.
func (a *Authenticator) AdminToken(t time.Time) string {
	return digest(timeutil.HourStamp(t) + a.adminSalt)
}

// Authorize reports whether req carries the signature expected for its caller.
// A regular caller without an account is never authorized.
func (a *Authenticator) Authorize(req *api.MethodRequest) bool {
	var want string
	switch {
	case req.IsAdmin():
		want = a.AdminToken(a.now())
	case req.Account == nil:
		return false
	default:
		want = a.Token(*req.Account, req.Login)
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(req.Token)) == 1
}

func digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

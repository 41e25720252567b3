// Package guard gates commands that need a signed-in user.
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vcdash/internal/client/session"
	"github.com/dmitrijs2005/vcdash/internal/logging"
)

// ErrLoginRequired means the caller has to sign in before going on.
var ErrLoginRequired = errors.New("login required")

type Session interface {
	State() session.State
	Restore(ctx context.Context) (session.State, error)
	BeginVerify() session.State
	Verified() session.State
}

// Verifier checks the stored token with the backend and ends the session on
// failure.
type Verifier interface {
	VerifyToken(ctx context.Context) bool
}

type Guard struct {
	session  Session
	verifier Verifier
	log      logging.Logger
}

func New(s Session, v Verifier, log logging.Logger) *Guard {
	if log == nil {
		log = logging.Nop()
	}
	return &Guard{session: s, verifier: v, log: log}
}

// Require restores the session if it was never read, then verifies the token
// with the backend. Every call verifies again; nothing is cached.
func (g *Guard) Require(ctx context.Context) error {
	st := g.session.State()
	if st.Kind == session.Unknown {
		var err error
		if st, err = g.session.Restore(ctx); err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
	}

	if st.Kind == session.Unauthenticated {
		return ErrLoginRequired
	}

	g.session.BeginVerify()
	if !g.verifier.VerifyToken(ctx) {
		g.log.Info(ctx, "session rejected, login required")
		return ErrLoginRequired
	}
	g.session.Verified()
	return nil
}

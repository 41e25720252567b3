package session

import "github.com/dmitrijs2005/vcdash/internal/client/models"

// Kind is the discrete phase of the session.
type Kind int

const (
	// Unknown means storage has not been read yet.
	Unknown Kind = iota
	Unauthenticated
	// Verifying is Authenticated with a token check in flight.
	Verifying
	Authenticated
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Unauthenticated:
		return "unauthenticated"
	case Verifying:
		return "verifying"
	case Authenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// State is an immutable view of the session. Token and User are set only in
// Verifying and Authenticated.
type State struct {
	Kind  Kind
	Token string
	User  *models.UserRecord
}

type eventKind int

const (
	evRestored eventKind = iota
	evLoggedIn
	evVerifyStarted
	evVerified
	evLoggedOut
)

type event struct {
	kind  eventKind
	token string
	user  *models.UserRecord
}

// next is the transition function. Events that make no sense in the current
// phase leave the state unchanged.
func next(cur State, ev event) State {
	switch ev.kind {
	case evRestored, evLoggedIn:
		if ev.token == "" {
			return State{Kind: Unauthenticated}
		}
		return State{Kind: Authenticated, Token: ev.token, User: ev.user}
	case evVerifyStarted:
		if cur.Kind == Authenticated {
			cur.Kind = Verifying
		}
		return cur
	case evVerified:
		if cur.Kind == Verifying {
			cur.Kind = Authenticated
		}
		return cur
	case evLoggedOut:
		return State{Kind: Unauthenticated}
	}
	return cur
}

// Package session keeps the signed-in identity of the client: the bearer
// token and the user record, persisted under the authToken and userData keys
// of the local session database.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/repositories/kv"
	"github.com/dmitrijs2005/vcdash/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
)

var (
	ErrEmptyToken  = errors.New("session: empty token")
	ErrOpaqueToken = errors.New("session: token carries no readable claims")
	ErrNotSignedIn = errors.New("session: not signed in")
)

// RepositoryFunc opens the key/value repository on a database or a
// transaction.
type RepositoryFunc func(db dbx.DBTX) kv.Repository

func sqliteRepository(db dbx.DBTX) kv.Repository { return kv.NewSQLiteRepository(db) }

// Store is safe for concurrent use.
type Store struct {
	db   *sql.DB
	repo RepositoryFunc

	mu    sync.Mutex
	state State
}

// New stores the session in the session_storage table of db.
func New(db *sql.DB) *Store {
	return NewWithRepository(db, sqliteRepository)
}

// NewWithRepository stores the session through repositories built by repo.
func NewWithRepository(db *sql.DB, repo RepositoryFunc) *Store {
	return &Store{db: db, repo: repo}
}

func (s *Store) apply(ev event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next(s.state, ev)
	return s.state
}

// State returns a snapshot of the current session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Restore reads the persisted session. A half-written session (only one of
// the two keys present) is cleared and reported as signed out.
func (s *Store) Restore(ctx context.Context) (State, error) {
	repo := s.repo(s.db)

	token, err := repo.Get(ctx, KeyAuthToken)
	if err != nil {
		return s.State(), fmt.Errorf("restore session: %w", err)
	}
	raw, err := repo.Get(ctx, KeyUserData)
	if err != nil {
		return s.State(), fmt.Errorf("restore session: %w", err)
	}

	if (len(token) == 0) != (raw == nil) {
		if err := s.clear(ctx); err != nil {
			return s.State(), fmt.Errorf("restore session: %w", err)
		}
		return s.apply(event{kind: evLoggedOut}), nil
	}

	var user *models.UserRecord
	if len(raw) > 0 {
		u := &models.UserRecord{}
		if err := json.Unmarshal(raw, u); err == nil {
			user = u
		}
	}

	return s.apply(event{kind: evRestored, token: string(token), user: user}), nil
}

// Login persists token and user atomically and marks the session authenticated.
func (s *Store) Login(ctx context.Context, token string, user *models.UserRecord) error {
	if token == "" {
		return ErrEmptyToken
	}

	raw := []byte("null")
	if user != nil {
		b, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		raw = b
	}

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, KeyAuthToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUserData, raw)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.apply(event{kind: evLoggedIn, token: token, user: user})
	return nil
}

// Logout removes both keys. The in-memory session is signed out even when
// storage fails. Calling it twice is harmless.
func (s *Store) Logout(ctx context.Context) error {
	err := s.clear(ctx)
	s.apply(event{kind: evLoggedOut})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Delete(ctx, KeyAuthToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyUserData)
	})
}

// BeginVerify moves an authenticated session into Verifying.
func (s *Store) BeginVerify() State { return s.apply(event{kind: evVerifyStarted}) }

// Verified ends a successful verification.
func (s *Store) Verified() State { return s.apply(event{kind: evVerified}) }

// Token returns the bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *models.UserRecord {
	return s.State().User
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Kind == Authenticated || s.state.Kind == Verifying
}

// Claims is what whoami shows about a JWT bearer token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims decodes the bearer token without verifying its signature.
func (s *Store) Claims() (Claims, error) {
	token := s.Token()
	if token == "" {
		return Claims{}, ErrNotSignedIn
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

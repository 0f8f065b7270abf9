package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jo-hoe/hoasite/internal/backend/database"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// UserFinder is the part of the database the authenticator needs.
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*database.User, error)
	GetUserByID(ctx context.Context, id string) (*database.User, error)
}

// Authenticator checks credentials and opens sessions.
type Authenticator struct {
	users    UserFinder
	sessions SessionStore
	ttl      time.Duration
	// dummyHash is compared against when the user does not exist so both
	// failure paths take about the same time.
	dummyHash string
}

func NewAuthenticator(users UserFinder, sessions SessionStore, ttl time.Duration) (*Authenticator, error) {
	dummy, err := HashPassword("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &Authenticator{
		users:     users,
		sessions:  sessions,
		ttl:       ttl,
		dummyHash: dummy,
	}, nil
}

// Authenticate returns the user for valid credentials and ErrInvalidCredentials
// for an unknown user or a wrong password.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	user, err := a.users.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		CheckPassword(a.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and stores a new session, returning its id.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, *Session, error) {
	user, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	role, err := ParseRole(user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("user %q: %w", user.Username, err)
	}
	s := Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      role,
		ExpiresAt: time.Now().Add(a.ttl),
	}
	id, err := a.sessions.Create(ctx, s)
	if err != nil {
		return "", nil, err
	}
	return id, &s, nil
}

// Session resolves a session id against the current user record. Username
// and role come from the database, so a renamed or demoted resident is seen
// as such on the next request and a deleted resident's session is dropped.
func (a *Authenticator) Session(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	s, err := a.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := a.users.GetUserByID(ctx, s.UserID)
	if errors.Is(err, database.ErrNotFound) {
		if err := a.sessions.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to drop session of deleted user: %w", err)
		}
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session user: %w", err)
	}
	role, err := ParseRole(user.Role)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", user.Username, err)
	}
	s.Username = user.Username
	s.Role = role
	return s, nil
}

// Logout forgets the session.
func (a *Authenticator) Logout(ctx context.Context, id string) error {
	return a.sessions.Delete(ctx, id)
}

// TTL is how long new sessions last.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

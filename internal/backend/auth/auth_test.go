package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jo-hoe/hoasite/internal/backend/database"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Errorf("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Errorf("expected wrong password to be rejected")
	}
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRole_AtLeast(t *testing.T) {
	cases := []struct {
		role, min Role
		want      bool
	}{
		{RoleAdmin, RoleMember, true},
		{RoleBoard, RoleBoard, true},
		{RoleMember, RoleBoard, false},
		{Role("guest"), RoleMember, false},
	}
	for _, c := range cases {
		if got := c.role.AtLeast(c.min); got != c.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", c.role, c.min, got, c.want)
		}
	}
	if _, err := ParseRole("owner"); err == nil {
		t.Errorf("expected ParseRole to reject unknown role")
	}
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                      "/",
		"/dashboard":            "/dashboard",
		"/dashboard?start=2024": "/dashboard?start=2024",
		"//evil.example":        "/",
		"https://evil.example":  "/",
		"dashboard":             "/",
		"/\\evil.example":       "/",
		"javascript:alert(1)":   "/",
	}
	for in, want := range cases {
		if got := SafeRedirect(in); got != want {
			t.Errorf("SafeRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}

type fakeUsers map[string]*database.User

func (f fakeUsers) GetUserByUsername(_ context.Context, username string) (*database.User, error) {
	u, ok := f[database.NormalizeUsername(username)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*database.User, error) {
	for _, u := range f {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, database.ErrNotFound
}

func TestAuthenticator_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	users := fakeUsers{"alice": {ID: "u1", Username: "alice", PasswordHash: hash, Role: "board"}}
	store := NewMemoryStore()
	a, err := NewAuthenticator(users, store, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthenticator error: %v", err)
	}

	if _, _, err := a.Login(ctx, "alice", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := a.Login(ctx, "mallory", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	id, sess, err := a.Login(ctx, "Alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if sess.Role != RoleBoard || sess.UserID != "u1" {
		t.Errorf("unexpected session: %+v", sess)
	}
	got, err := a.Session(ctx, id)
	if err != nil || got.Username != "alice" {
		t.Fatalf("Session(%q) = %+v, %v", id, got, err)
	}

	if err := a.Logout(ctx, id); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if _, err := a.Session(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}
	if _, err := a.Session(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for empty id, got %v", err)
	}
}

func TestAuthenticator_SessionFollowsUserRecord(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	users := fakeUsers{"carol": {ID: "u3", Username: "carol", PasswordHash: hash, Role: "board"}}
	store := NewMemoryStore()
	a, err := NewAuthenticator(users, store, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthenticator error: %v", err)
	}
	id, _, err := a.Login(ctx, "carol", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	users["carol"].Role = "member"
	got, err := a.Session(ctx, id)
	if err != nil {
		t.Fatalf("Session error: %v", err)
	}
	if got.Role != RoleMember {
		t.Errorf("expected demoted role %q, got %q", RoleMember, got.Role)
	}

	delete(users, "carol")
	if _, err := a.Session(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for deleted user, got %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected the session of a deleted user to be removed from the store, got %v", err)
	}
}

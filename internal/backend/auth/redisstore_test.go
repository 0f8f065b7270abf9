package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	in := Session{UserID: "u1", Username: "alice", Role: RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}
	id, err := store.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !mr.Exists(redisKeyPrefix + id) {
		t.Fatalf("expected session key in redis")
	}
	if ttl := mr.TTL(redisKeyPrefix + id); ttl <= 0 || ttl > time.Hour {
		t.Errorf("unexpected TTL %v", ttl)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.UserID != in.UserID || got.Role != RoleAdmin || !got.ExpiresAt.Equal(in.ExpiresAt) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	id, err := store.Create(ctx, Session{UserID: "u1", ExpiresAt: time.Now().Add(time.Minute)})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session to expire, got %v", err)
	}
}

func TestRedisStore_RejectsExpiredSession(t *testing.T) {
	store, _ := newTestRedisStore(t)
	_, err := store.Create(context.Background(), Session{ExpiresAt: time.Now().Add(-time.Second)})
	if err == nil {
		t.Fatalf("expected error for already expired session")
	}
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	if _, err := NewRedisStore(context.Background(), addr, "", 0); err == nil {
		t.Fatalf("expected error connecting to closed redis")
	}
}

package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/repository"
)

func newTestStore(t *testing.T) (repository.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client, "console:"), mr
}

func testSession() *domain.Session {
	return &domain.Session{
		User:  &domain.User{ID: "1", Name: "Amy", Email: "a@b.com", Role: domain.RoleAdmin},
		Token: "tok123",
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !loaded.Valid() || loaded.Token != "tok123" || loaded.User.Name != "Amy" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestSessionStore_LoadEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected absent session, got %+v", loaded)
	}
}

func TestSessionStore_PartialPairClearsRemainder(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	mr.Del("console:user")

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("half a session must read as absent, got %+v", loaded)
	}
	if mr.Exists("console:token") {
		t.Error("token key must not survive without its user")
	}
}

func TestSessionStore_CorruptUserClearsBothKeys(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := mr.Set("console:user", "{not json"); err != nil {
		t.Fatalf("corrupting user key: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("corrupt session must read as absent, got %+v", loaded)
	}
	if mr.Exists("console:token") || mr.Exists("console:user") {
		t.Error("expected both keys removed after corruption")
	}
}

func TestSessionStore_ClearIdempotent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
	if mr.Exists("console:token") || mr.Exists("console:user") {
		t.Error("expected no keys after Clear")
	}
}

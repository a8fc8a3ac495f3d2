package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/dishboard/console/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession() *domain.Session {
	return &domain.Session{
		User:  &domain.User{ID: "1", Name: "Amy", Email: "a@b.com", Role: domain.RoleAdmin},
		Token: "tok123",
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !loaded.Valid() {
		t.Fatalf("loaded session invalid: %+v", loaded)
	}
	if loaded.Token != "tok123" || loaded.User.Name != "Amy" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	store := openTestStore(t)

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected absent session, got %+v", loaded)
	}
}

func TestStore_CorruptUserClearsBothKeys(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(keyUser, []byte("{not json"))
	}); err != nil {
		t.Fatalf("corrupting user key: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("corrupt session must read as absent, got %+v", loaded)
	}

	if err := store.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get(keyToken) != nil || b.Get(keyUser) != nil {
			t.Error("expected both keys removed after corruption")
		}
		return nil
	}); err != nil {
		t.Fatalf("inspecting bucket: %v", err)
	}
}

func TestStore_PartialPairClearsRemainder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(keyUser)
	}); err != nil {
		t.Fatalf("deleting user key: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("half a session must read as absent, got %+v", loaded)
	}

	if err := store.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketName).Get(keyToken) != nil {
			t.Error("token key must not survive without its user")
		}
		return nil
	}); err != nil {
		t.Fatalf("inspecting bucket: %v", err)
	}
}

func TestStore_ClearIdempotent(t *testing.T) {
	store := openTestStore(t)
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

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected absent session after Clear, got %+v", loaded)
	}
}

func TestStore_SaveRejectsHalfSessions(t *testing.T) {
	store := openTestStore(t)

	err := store.Save(context.Background(), &domain.Session{Token: "tok123"})
	if err == nil {
		t.Fatal("expected Save to reject a session without a user")
	}
}

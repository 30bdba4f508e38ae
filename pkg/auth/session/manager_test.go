package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStore) AccessSessionKey(accessID string) string {
	return "ss:session:access:" + accessID
}

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}

	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("HasSession failed: %v", err)
	}
	if !ok {
		t.Fatal("expected session to exist")
	}

	ok, err = mgr.HasSession(ctx, "missing")
	if err != nil {
		t.Fatalf("HasSession failed: %v", err)
	}
	if ok {
		t.Fatal("expected no session for unknown access id")
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	newID, newToken, err := mgr.Rotate(ctx, "jti-1", token)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if newID == "jti-1" || newToken == token {
		t.Fatal("expected rotated credentials to differ")
	}

	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("HasSession failed: %v", err)
	}
	if ok {
		t.Fatal("expected old session to be revoked after rotation")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "jti-1"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, _, err := mgr.Rotate(ctx, "jti-1", "bogus"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "jti-1"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := mgr.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("HasSession failed: %v", err)
	}
	if ok {
		t.Fatal("expected session to be gone after revoke")
	}
}

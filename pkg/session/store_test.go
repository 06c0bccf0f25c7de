package session

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
	"github.com/a1-en/E-Shoe-Store/pkg/jwt"
)

func TestStore_LoginLogout(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	store, err := New(ctx, storage)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if store.IsAuthenticated() {
		t.Error("fresh store should be anonymous")
	}

	if err := store.Login(ctx, "t1"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Error("expected authenticated after Login")
	}
	if got := store.Token(); got != "t1" {
		t.Errorf("Token() = %q, want %q", got, "t1")
	}

	// Token must be persisted
	saved, err := storage.Load(ctx)
	if err != nil {
		t.Fatalf("storage.Load() error: %v", err)
	}
	if saved != "t1" {
		t.Errorf("persisted token = %q, want %q", saved, "t1")
	}

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("expected anonymous after Logout")
	}
	if got := store.Token(); got != "" {
		t.Errorf("Token() after Logout = %q, want empty", got)
	}

	saved, err = storage.Load(ctx)
	if err != nil {
		t.Fatalf("storage.Load() error: %v", err)
	}
	if saved != "" {
		t.Errorf("persisted token after Logout = %q, want empty", saved)
	}

	// Logout is idempotent
	if err := store.Logout(ctx); err != nil {
		t.Errorf("second Logout() error: %v", err)
	}
}

func TestStore_LoginRejectsEmptyToken(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, NewMemoryStorage())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := store.Login(ctx, ""); !apperrors.Is(err, apperrors.ErrTokenMissing) {
		t.Errorf("Login(\"\") error = %v, want ErrTokenMissing", err)
	}
	if store.IsAuthenticated() {
		t.Error("store should stay anonymous after rejected login")
	}
}

func TestStore_LoadsPersistedToken(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	if err := storage.Save(ctx, "persisted"); err != nil {
		t.Fatalf("storage.Save() error: %v", err)
	}

	store, err := New(ctx, storage)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Error("expected authenticated with persisted token")
	}
	if got := store.Token(); got != "persisted" {
		t.Errorf("Token() = %q, want %q", got, "persisted")
	}
}

func TestStore_ExpiredTokenNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	manager := jwt.NewManager("test", "secret")

	expired, err := manager.CreateToken("user-1", -time.Minute)
	if err != nil {
		t.Fatalf("CreateToken() error: %v", err)
	}

	store, err := New(ctx, NewMemoryStorage())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := store.Login(ctx, expired); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if store.IsAuthenticated() {
		t.Error("expired token must not count as authenticated")
	}
	if got := store.Token(); got != expired {
		t.Error("expired token should still be retrievable")
	}
}

func TestStore_ValidTokenAuthenticated(t *testing.T) {
	ctx := context.Background()
	manager := jwt.NewManager("test", "secret")

	token, err := manager.CreateToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("CreateToken() error: %v", err)
	}

	store, err := New(ctx, NewMemoryStorage())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := store.Login(ctx, token); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Error("expected authenticated with unexpired token")
	}
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, NewMemoryStorage())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var got []Snapshot
	unsubscribe := store.Subscribe(func(s Snapshot) {
		got = append(got, s)
	})

	if err := store.Login(ctx, "t1"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if !got[0].Authenticated || got[0].Token != "t1" {
		t.Errorf("first snapshot = %+v, want authenticated with t1", got[0])
	}
	if got[1].Authenticated || got[1].Token != "" {
		t.Errorf("second snapshot = %+v, want anonymous", got[1])
	}

	unsubscribe()
	if err := store.Login(ctx, "t2"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got notification after unsubscribe")
	}
}

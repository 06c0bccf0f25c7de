package storefront

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a1-en/E-Shoe-Store/config"
	"github.com/a1-en/E-Shoe-Store/internal/application/services"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/crypto"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/persistence/memory"
	internalhttp "github.com/a1-en/E-Shoe-Store/internal/interfaces/http"
	"github.com/a1-en/E-Shoe-Store/pkg/cart"
	"github.com/a1-en/E-Shoe-Store/pkg/catalog"
	"github.com/a1-en/E-Shoe-Store/pkg/credential"
	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
	"github.com/a1-en/E-Shoe-Store/pkg/jwt"
	"github.com/a1-en/E-Shoe-Store/pkg/logger"
	"github.com/a1-en/E-Shoe-Store/pkg/session"
)

// startCredentialService runs the real HTTP stack over the in-memory
// repository so the whole client flow is exercised end to end.
func startCredentialService(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		JWT:      config.JWTConfig{Issuer: "test", Secret: "test-secret", TokenTTL: time.Hour},
		Auth:     config.AuthConfig{MinPasswordLength: 6},
		Security: config.SecurityConfig{AllowedOrigins: []string{"*"}},
	}

	repo := memory.NewUserRepository()
	hasher := crypto.NewPasswordHasher(8*1024, 1, 1, 16, 32)
	manager := jwt.NewManager(cfg.JWT.Issuer, cfg.JWT.Secret)
	authService := services.NewAuthService(repo, hasher, manager, cfg)

	router := internalhttp.NewRouter(cfg, &internalhttp.RouterDeps{
		AuthService: authService,
		JWTManager:  manager,
		Logger:      logger.Nop(),
	})

	srv := httptest.NewServer(router.Engine())
	t.Cleanup(srv.Close)
	return srv
}

func newTestStorefront(t *testing.T, baseURL string) *Storefront {
	t.Helper()

	sf, err := New(context.Background(), Config{
		Credentials: credential.NewClient(baseURL),
		Catalog: catalog.NewClient(&config.CatalogConfig{
			BaseURL: baseURL, // unused by these tests
			Timeout: 5 * time.Second,
		}),
		TokenStorage: session.NewMemoryStorage(),
		CartStorage:  cart.NewMemoryStorage(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(sf.Close)
	return sf
}

func TestStorefront_SignupFlow(t *testing.T) {
	ctx := context.Background()
	srv := startCredentialService(t)
	sf := newTestStorefront(t, srv.URL)

	// Anonymous visitors cannot touch the cart
	err := sf.Cart.Add(ctx, cart.Item{ID: 1, Title: "Runner", Price: 59.99})
	if !apperrors.Is(err, apperrors.ErrAuthRequired) {
		t.Fatalf("anonymous Add() error = %v, want ErrAuthRequired", err)
	}

	if err := sf.SignUp(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if !sf.Session.IsAuthenticated() {
		t.Fatal("expected authenticated session after signup")
	}

	// The issued token passes the server-side probe
	if err := sf.credentials.Probe(ctx, sf.Session.Token()); err != nil {
		t.Errorf("Probe() error: %v", err)
	}

	// The cart opens up once signed in
	if err := sf.Cart.Add(ctx, cart.Item{ID: 1, Title: "Runner", Price: 59.99, Quantity: 1}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if sf.Cart.Len() != 1 {
		t.Errorf("cart has %d lines, want 1", sf.Cart.Len())
	}
}

func TestStorefront_SignInFlow(t *testing.T) {
	ctx := context.Background()
	srv := startCredentialService(t)

	first := newTestStorefront(t, srv.URL)
	if err := first.SignUp(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	// A second client signs in with the created account
	second := newTestStorefront(t, srv.URL)
	if err := second.SignIn(ctx, "alice@example.com", "secret1"); err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	if !second.Session.IsAuthenticated() {
		t.Error("expected authenticated session after sign in")
	}

	// Bad credentials leave the session anonymous
	third := newTestStorefront(t, srv.URL)
	if err := third.SignIn(ctx, "alice@example.com", "wrong-password"); err == nil {
		t.Error("expected error for wrong password")
	}
	if third.Session.IsAuthenticated() {
		t.Error("failed sign in must not authenticate the session")
	}
}

func TestStorefront_SignOut(t *testing.T) {
	ctx := context.Background()
	srv := startCredentialService(t)
	sf := newTestStorefront(t, srv.URL)

	if err := sf.SignUp(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if err := sf.Cart.Add(ctx, cart.Item{ID: 1, Price: 10, Quantity: 1}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if err := sf.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if sf.Session.IsAuthenticated() {
		t.Error("expected anonymous session after sign out")
	}

	// The cart gate closes again
	err := sf.Cart.Add(ctx, cart.Item{ID: 2, Price: 5})
	if !apperrors.Is(err, apperrors.ErrAuthRequired) {
		t.Errorf("Add() after sign out error = %v, want ErrAuthRequired", err)
	}
}

func TestStorefront_SessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	srv := startCredentialService(t)

	tokens := session.NewMemoryStorage()
	items := cart.NewMemoryStorage()
	build := func() *Storefront {
		sf, err := New(ctx, Config{
			Credentials:  credential.NewClient(srv.URL),
			Catalog:      catalog.NewClient(&config.CatalogConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}),
			TokenStorage: tokens,
			CartStorage:  items,
		})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		t.Cleanup(sf.Close)
		return sf
	}

	first := build()
	if err := first.SignUp(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if err := first.Cart.Add(ctx, cart.Item{ID: 1, Price: 10, Quantity: 2}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	first.Close()

	// A fresh storefront over the same storage picks up the session and cart
	second := build()
	if !second.Session.IsAuthenticated() {
		t.Error("expected the restored session to be authenticated")
	}
	if second.Cart.Len() != 1 || second.Cart.Total() != 20 {
		t.Errorf("restored cart: %d lines, total %v", second.Cart.Len(), second.Cart.Total())
	}
}

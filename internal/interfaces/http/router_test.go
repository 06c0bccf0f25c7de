package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a1-en/E-Shoe-Store/config"
	"github.com/a1-en/E-Shoe-Store/internal/application/services"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/crypto"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/persistence/memory"
	"github.com/a1-en/E-Shoe-Store/pkg/jwt"
	"github.com/a1-en/E-Shoe-Store/pkg/logger"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	cfg := &config.Config{
		JWT:  config.JWTConfig{Issuer: "test", Secret: "test-secret", TokenTTL: time.Hour},
		Auth: config.AuthConfig{MinPasswordLength: 6},
		Security: config.SecurityConfig{
			AllowedOrigins:   []string{"*"},
			RateLimitEnabled: false,
		},
	}

	repo := memory.NewUserRepository()
	hasher := crypto.NewPasswordHasher(8*1024, 1, 1, 16, 32)
	manager := jwt.NewManager(cfg.JWT.Issuer, cfg.JWT.Secret)
	authService := services.NewAuthService(repo, hasher, manager, cfg)

	return NewRouter(cfg, &RouterDeps{
		AuthService: authService,
		JWTManager:  manager,
		Logger:      logger.Nop(),
	})
}

func doJSON(t *testing.T, router *Router, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.Engine().ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body.Message
}

func decodeToken(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body.Token
}

func signupBody() map[string]string {
	return map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret1",
	}
}

func TestSignupEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/signup", signupBody(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", w.Code, w.Body.String())
	}
	if decodeToken(t, w) == "" {
		t.Error("expected a token in the signup response")
	}
}

func TestSignupEndpointRejections(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(map[string]string)
		wantMessage string
	}{
		{"missing field", func(b map[string]string) { delete(b, "email") }, ""},
		{"bad email", func(b map[string]string) { b["email"] = "nope" }, "invalid email format"},
		{"short password", func(b map[string]string) { b["password"] = "abc" }, "password is too short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)
			body := signupBody()
			tt.mutate(body)

			w := doJSON(t, router, http.MethodPost, "/signup", body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
			}
			if tt.wantMessage != "" {
				if got := decodeMessage(t, w); got != tt.wantMessage {
					t.Errorf("message = %q, want %q", got, tt.wantMessage)
				}
			}
		})
	}
}

func TestSignupEndpointDuplicates(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodPost, "/signup", signupBody(), nil); w.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d", w.Code)
	}

	w := doJSON(t, router, http.MethodPost, "/signup", signupBody(), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup status = %d, want 400", w.Code)
	}
	if got := decodeMessage(t, w); got != "User already exists" {
		t.Errorf("message = %q, want %q", got, "User already exists")
	}

	// Same username under a new email
	body := signupBody()
	body["email"] = "alice2@example.com"
	w = doJSON(t, router, http.MethodPost, "/signup", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate username status = %d, want 400", w.Code)
	}
	if got := decodeMessage(t, w); got != "Username already taken" {
		t.Errorf("message = %q, want %q", got, "Username already taken")
	}
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodPost, "/signup", signupBody(), nil); w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", w.Code)
	}

	w := doJSON(t, router, http.MethodPost, "/login", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if decodeToken(t, w) == "" {
		t.Error("expected a token in the login response")
	}
}

func TestLoginEndpointRejections(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodPost, "/signup", signupBody(), nil); w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", w.Code)
	}

	tests := []struct {
		name        string
		email       string
		password    string
		wantMessage string
	}{
		{"unknown email", "nobody@example.com", "secret1", "Invalid credentials"},
		{"wrong password", "alice@example.com", "wrong", "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/login", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			}, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
			}
			if got := decodeMessage(t, w); got != tt.wantMessage {
				t.Errorf("message = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestProtectedEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/signup", signupBody(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", w.Code)
	}
	token := decodeToken(t, w)

	// With a valid token
	w = doJSON(t, router, http.MethodGet, "/protected", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("protected status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "This is a protected route" {
		t.Errorf("protected body = %q", got)
	}

	// Without a token
	w = doJSON(t, router, http.MethodGet, "/protected", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", w.Code)
	}
	if got := decodeMessage(t, w); got != "Unauthorized, token missing" {
		t.Errorf("message = %q, want %q", got, "Unauthorized, token missing")
	}

	// With a garbage token
	w = doJSON(t, router, http.MethodGet, "/protected", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", w.Code)
	}
	if got := decodeMessage(t, w); got != "Invalid token or token expired" {
		t.Errorf("message = %q, want %q", got, "Invalid token or token expired")
	}
}

func TestMeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/signup", signupBody(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", w.Code)
	}
	token := decodeToken(t, w)

	w = doJSON(t, router, http.MethodGet, "/me", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Username != "alice" || body.Email != "alice@example.com" {
		t.Errorf("me body = %+v", body)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/nope", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if got := decodeMessage(t, w); got != "Route not found" {
		t.Errorf("message = %q, want %q", got, "Route not found")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	router := newTestRouter(t)
	manager := jwt.NewManager("test", "test-secret")

	expired, err := manager.CreateToken("00000000-0000-0000-0000-000000000001", -time.Minute)
	if err != nil {
		t.Fatalf("CreateToken() error: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/protected", nil, map[string]string{
		"Authorization": "Bearer " + expired,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := decodeMessage(t, w); got != "Invalid token or token expired" {
		t.Errorf("message = %q, want %q", got, "Invalid token or token expired")
	}
}

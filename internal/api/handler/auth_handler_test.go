package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func okAuthService() *stubAuthService {
	user := &domain.User{ID: "1", Email: "ana@example.com", Plan: domain.PlanFree}
	return &stubAuthService{
		registerFn: func(_ context.Context, _, _ string) (*domain.User, error) {
			return user, nil
		},
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "token-123", user, nil
		},
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(okAuthService(), newTestProfiles(newMemKV()))

	c, rec := onboardingPost(e, "/auth/register", "", `{"email":"ana@example.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token-123" {
		t.Fatalf("missing token in response: %+v", resp)
	}
}

func TestAuthHandler_Register_WithProfilePersistsSession(t *testing.T) {
	e := newTestEcho()
	kv := newMemKV()
	profiles := newTestProfiles(kv)
	h := NewAuthHandler(okAuthService(), profiles)

	c, rec := onboardingPost(e, "/auth/register", "device-1", `{"email":"ana@example.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if _, ok := kv.data["auth:user:device-1"]; !ok {
		t.Error("device session must be persisted on register")
	}

	p, _ := profiles.Get(context.Background(), "device-1", false)
	if got := p.Route(); got != domain.RouteMain {
		t.Errorf("route after register = %q, want main", got)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(okAuthService(), newTestProfiles(newMemKV()))

	cases := []struct {
		name string
		body string
	}{
		{"not json", "not-json"},
		{"missing email", `{"password":"secret1"}`},
		{"bad email", `{"email":"nope","password":"secret1"}`},
		{"short password", `{"email":"ana@example.com","password":"abc"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := onboardingPost(e, "/auth/register", "", tc.body)
			err := h.Register(c)

			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(okAuthService(), newTestProfiles(newMemKV()))

	c, rec := onboardingPost(e, "/auth/login", "", `{"email":"ana@example.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	svc := okAuthService()
	svc.loginFn = func(_ context.Context, _, _ string) (string, *domain.User, error) {
		return "", nil, domain.ErrInvalidCredentials
	}
	h := NewAuthHandler(svc, newTestProfiles(newMemKV()))

	c, _ := onboardingPost(e, "/auth/login", "", `{"email":"ana@example.com","password":"wrong"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_WithProfilePersistsSession(t *testing.T) {
	e := newTestEcho()
	kv := newMemKV()
	h := NewAuthHandler(okAuthService(), newTestProfiles(kv))

	c, _ := onboardingPost(e, "/auth/login", "device-1", `{"email":"ana@example.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if _, ok := kv.data["auth:user:device-1"]; !ok {
		t.Error("device session must be persisted on login")
	}
}

func TestAuthHandler_Logout_ClearsDeviceSession(t *testing.T) {
	e := newTestEcho()
	kv := newMemKV()
	kv.data["auth:user:device-1"] = `{"id":"1","email":"ana@example.com"}`
	profiles := newTestProfiles(kv)
	h := NewAuthHandler(okAuthService(), profiles)

	c, rec := onboardingPost(e, "/auth/logout", "device-1", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if _, ok := kv.data["auth:user:device-1"]; ok {
		t.Error("logout must remove the persisted session")
	}

	p, _ := profiles.Get(context.Background(), "device-1", false)
	if got := p.Route(); got != domain.RouteOnboarding {
		t.Errorf("route after logout = %q, want onboarding", got)
	}
}

func TestAuthHandler_Logout_MissingProfileHeader(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(okAuthService(), newTestProfiles(newMemKV()))

	c, _ := onboardingPost(e, "/auth/logout", "", "")
	err := h.Logout(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

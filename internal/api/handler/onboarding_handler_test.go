package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
	"github.com/simmerkit/recipe-vault/internal/core/service"
)

// ---------------------------------------------------------------------------
// In-memory KV store
// ---------------------------------------------------------------------------

type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Remove(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestProfiles(kv *memKV) *service.ProfileManager {
	return service.NewProfileManager(kv, service.StubAuthenticator{}, zerolog.Nop())
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func onboardingGet(e *echo.Echo, target, profileID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if profileID != "" {
		req.Header.Set(profileHeader, profileID)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func onboardingPost(e *echo.Echo, target, profileID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if profileID != "" {
		req.Header.Set(profileHeader, profileID)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) service.FlowStatus {
	t.Helper()
	var st service.FlowStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return st
}

func advance(t *testing.T, e *echo.Echo, h *OnboardingHandler, profileID, action, extra string) service.FlowStatus {
	t.Helper()
	body := fmt.Sprintf(`{"action":%q%s}`, action, extra)
	c, rec := onboardingPost(e, "/v1/onboarding/advance", profileID, body)
	if err := h.Advance(c); err != nil {
		t.Fatalf("advance %q failed: %v", action, err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("advance %q: expected 200, got %d (%s)", action, rec.Code, rec.Body.String())
	}
	return decodeStatus(t, rec)
}

// ---------------------------------------------------------------------------
// State
// ---------------------------------------------------------------------------

func TestOnboardingHandler_State_MissingProfileHeader(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(newTestProfiles(newMemKV()))

	c, _ := onboardingGet(e, "/v1/onboarding", "")
	err := h.State(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing header, got %v", err)
	}
}

func TestOnboardingHandler_State_FreshInstall(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(newTestProfiles(newMemKV()))

	c, rec := onboardingGet(e, "/v1/onboarding", "device-1")
	if err := h.State(c); err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	st := decodeStatus(t, rec)
	if st.Screen != domain.ScreenWelcome || st.Completed {
		t.Errorf("fresh install status wrong: %+v", st)
	}
}

func TestOnboardingHandler_State_ResumesAcrossRequests(t *testing.T) {
	e := newTestEcho()
	kv := newMemKV()
	kv.data["onboarding:state:device-1"] = `{"path":"b","step":3,"completed":false,"updatedAt":1}`
	h := NewOnboardingHandler(newTestProfiles(kv))

	c, rec := onboardingGet(e, "/v1/onboarding", "device-1")
	if err := h.State(c); err != nil {
		t.Fatalf("State failed: %v", err)
	}

	st := decodeStatus(t, rec)
	if st.Screen != domain.ScreenImportInfo {
		t.Errorf("resume screen = %q, want import_sources", st.Screen)
	}
}

func TestOnboardingHandler_State_ResetQueryFlag(t *testing.T) {
	e := newTestEcho()
	kv := newMemKV()
	kv.data["onboarding:state:device-1"] = `{"path":"b","step":4,"completed":false,"updatedAt":1}`
	h := NewOnboardingHandler(newTestProfiles(kv))

	c, rec := onboardingGet(e, "/v1/onboarding?reset=1", "device-1")
	if err := h.State(c); err != nil {
		t.Fatalf("State failed: %v", err)
	}

	st := decodeStatus(t, rec)
	if st.Screen != domain.ScreenWelcome || st.Path != domain.PathNone {
		t.Errorf("reset flag must restart the flow: %+v", st)
	}
}

// ---------------------------------------------------------------------------
// Advance
// ---------------------------------------------------------------------------

func TestOnboardingHandler_Advance_FullPathA(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(newTestProfiles(newMemKV()))
	const device = "device-1"

	st := advance(t, e, h, device, actionContinueWelcome, "")
	if st.Screen != domain.ScreenIdentity {
		t.Fatalf("after welcome: %q", st.Screen)
	}

	st = advance(t, e, h, device, actionSubmitIdentity, `,"selected":["meal_planner"]`)
	if st.Screen != domain.ScreenSpaceReady {
		t.Fatalf("after survey: %q", st.Screen)
	}

	st = advance(t, e, h, device, actionChooseAddRecipe, "")
	if st.Screen != domain.ScreenAddRecipe || st.Path != domain.PathA {
		t.Fatalf("after branch: %+v", st)
	}

	st = advance(t, e, h, device, actionSelectMethod, `,"method":"manual"`)
	if st.Screen != domain.ScreenCreateRecipe {
		t.Fatalf("after method: %q", st.Screen)
	}

	st = advance(t, e, h, device, actionRecipeSaved, "")
	if !st.Completed || st.Redirect != domain.RouteRegister {
		t.Fatalf("completion status wrong: %+v", st)
	}
}

func TestOnboardingHandler_Advance_DisabledMethodKeepsScreen(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(newTestProfiles(newMemKV()))
	const device = "device-1"

	advance(t, e, h, device, actionContinueWelcome, "")
	advance(t, e, h, device, actionSubmitIdentity, `,"selected":["x"]`)
	advance(t, e, h, device, actionChooseAddRecipe, "")

	st := advance(t, e, h, device, actionSelectMethod, `,"method":"link"`)
	if st.Screen != domain.ScreenAddRecipe {
		t.Errorf("disabled method moved the screen to %q", st.Screen)
	}
}

func TestOnboardingHandler_Advance_BlockedTransition(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(newTestProfiles(newMemKV()))

	c, _ := onboardingPost(e, "/v1/onboarding/advance", "device-1", `{"action":"recipe_saved"}`)
	err := h.Advance(c)
	if !errors.Is(err, domain.ErrStepBlocked) {
		t.Fatalf("expected ErrStepBlocked, got %v", err)
	}
}

func TestOnboardingHandler_Advance_EmptySurveySelection(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(newTestProfiles(newMemKV()))
	const device = "device-1"

	advance(t, e, h, device, actionContinueWelcome, "")

	c, _ := onboardingPost(e, "/v1/onboarding/advance", device, `{"action":"submit_identity"}`)
	err := h.Advance(c)
	if !errors.Is(err, domain.ErrSelectionRequired) {
		t.Fatalf("expected ErrSelectionRequired, got %v", err)
	}
}

func TestOnboardingHandler_Advance_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(newTestProfiles(newMemKV()))

	cases := []struct {
		name string
		body string
		code int
	}{
		{"not json", "not-json", http.StatusBadRequest},
		{"unknown action", `{"action":"teleport"}`, http.StatusUnprocessableEntity},
		{"unknown method", `{"action":"select_import_method","method":"carrier-pigeon"}`, http.StatusUnprocessableEntity},
		{"missing action", `{}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := onboardingPost(e, "/v1/onboarding/advance", "device-1", tc.body)
			err := h.Advance(c)

			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != tc.code {
				t.Fatalf("expected %d, got %v", tc.code, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Reset
// ---------------------------------------------------------------------------

func TestOnboardingHandler_Reset_AlwaysResets(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(newTestProfiles(newMemKV()))
	const device = "device-1"

	// Unlike the one-shot query flag, the explicit endpoint resets every time.
	for i := 0; i < 2; i++ {
		advance(t, e, h, device, actionContinueWelcome, "")

		c, rec := onboardingPost(e, "/v1/onboarding/reset", device, "")
		if err := h.Reset(c); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		st := decodeStatus(t, rec)
		if st.Screen != domain.ScreenWelcome || st.Step != 0 {
			t.Fatalf("reset %d left the cursor at %+v", i, st)
		}
	}
}

// ---------------------------------------------------------------------------
// Route
// ---------------------------------------------------------------------------

func TestOnboardingHandler_Route_Scenarios(t *testing.T) {
	e := newTestEcho()

	routeFor := func(t *testing.T, h *OnboardingHandler, device string) string {
		t.Helper()
		c, rec := onboardingGet(e, "/v1/route", device)
		if err := h.Route(c); err != nil {
			t.Fatalf("Route failed: %v", err)
		}
		var resp routeResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		return resp.Route
	}

	t.Run("fresh install", func(t *testing.T) {
		h := NewOnboardingHandler(newTestProfiles(newMemKV()))
		if got := routeFor(t, h, "device-1"); got != string(domain.RouteOnboarding) {
			t.Errorf("route = %q, want onboarding", got)
		}
	})

	t.Run("persisted session", func(t *testing.T) {
		kv := newMemKV()
		kv.data["auth:user:device-1"] = `{"id":"1","email":"ana@example.com"}`
		h := NewOnboardingHandler(newTestProfiles(kv))
		if got := routeFor(t, h, "device-1"); got != string(domain.RouteMain) {
			t.Errorf("route = %q, want main", got)
		}
	})

	t.Run("completed but logged out", func(t *testing.T) {
		kv := newMemKV()
		kv.data["onboarding:state:device-1"] = `{"path":"a","step":4,"completed":true,"updatedAt":1}`
		h := NewOnboardingHandler(newTestProfiles(kv))
		if got := routeFor(t, h, "device-1"); got != string(domain.RouteLogin) {
			t.Errorf("route = %q, want login", got)
		}
	})
}

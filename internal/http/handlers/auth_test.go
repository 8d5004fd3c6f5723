package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/modules/auth"
	"github.com/skairipa08/FundEd/internal/modules/users"
)

type mockLogin struct {
	configFunc func() (auth.LoginConfig, error)
	loginFunc  func(ctx context.Context, code string) (users.User, users.Session, error)
}

func (m *mockLogin) Config() (auth.LoginConfig, error) { return m.configFunc() }

func (m *mockLogin) Login(ctx context.Context, code string) (users.User, users.Session, error) {
	return m.loginFunc(ctx, code)
}

type mockAccounts struct {
	profileFunc func(ctx context.Context, userID string) (*users.StudentProfile, error)
	ended       []string
}

func (m *mockAccounts) Profile(ctx context.Context, userID string) (*users.StudentProfile, error) {
	if m.profileFunc != nil {
		return m.profileFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockAccounts) EndSessions(_ context.Context, userID string) error {
	m.ended = append(m.ended, userID)
	return nil
}

func TestAuthHandler_ConfigUnconfigured(t *testing.T) {
	login := &mockLogin{configFunc: func() (auth.LoginConfig, error) { return auth.LoginConfig{}, auth.ErrNotConfigured }}
	r := newEngine(nil)
	r.GET("/api/auth/config", NewAuthHandler(login, &mockAccounts{}, CookieConfig{}).Config)

	if w := doJSON(r, http.MethodGet, "/api/auth/config", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}

func TestAuthHandler_CallbackSetsCookie(t *testing.T) {
	login := &mockLogin{loginFunc: func(_ context.Context, code string) (users.User, users.Session, error) {
		if code != "good" {
			return users.User{}, users.Session{}, auth.ErrExchange
		}
		return users.User{ID: "user_1", Email: "a@example.com", Role: users.RoleDonor},
			users.Session{Token: "tok_123"}, nil
	}}
	h := NewAuthHandler(login, &mockAccounts{}, CookieConfig{Secure: true, MaxAge: 604800})
	r := newEngine(nil)
	r.POST("/api/auth/google/callback", h.GoogleCallback)

	w := doJSON(r, http.MethodPost, "/api/auth/google/callback", map[string]string{"code": "good"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	cookie := w.Header().Get("Set-Cookie")
	for _, want := range []string{middleware.SessionCookie + "=tok_123", "HttpOnly", "Secure", "SameSite=None", "Max-Age=604800"} {
		if !strings.Contains(cookie, want) {
			t.Errorf("Expected cookie to contain %q, got %q", want, cookie)
		}
	}
	data, _ := decodeBody(t, w)["data"].(map[string]any)
	if data["user_id"] != "user_1" || data["session_token"] != "tok_123" {
		t.Errorf("Unexpected login payload %v", data)
	}

	if w := doJSON(r, http.MethodPost, "/api/auth/google/callback", map[string]string{"code": "bad"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for failed exchange, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/api/auth/google/callback", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing code, got %d", w.Code)
	}
}

func TestAuthHandler_MeIncludesStudentProfile(t *testing.T) {
	student := &users.User{ID: "user_s", Role: users.RoleStudent}
	accounts := &mockAccounts{profileFunc: func(_ context.Context, userID string) (*users.StudentProfile, error) {
		return &users.StudentProfile{ID: "profile_1", UserID: userID, VerificationStatus: users.VerificationPending}, nil
	}}
	r := newEngine(student)
	r.GET("/api/auth/me", NewAuthHandler(&mockLogin{}, accounts, CookieConfig{}).Me)

	w := doJSON(r, http.MethodGet, "/api/auth/me", nil)
	data, _ := decodeBody(t, w)["data"].(map[string]any)
	sp, _ := data["student_profile"].(map[string]any)
	if sp["verification_status"] != "pending" {
		t.Errorf("Expected pending student profile, got %v", data)
	}
}

func TestAuthHandler_LogoutEndsSessionsAndClearsCookie(t *testing.T) {
	accounts := &mockAccounts{}
	r := newEngine(&users.User{ID: "user_1"})
	r.POST("/api/auth/logout", NewAuthHandler(&mockLogin{}, accounts, CookieConfig{}).Logout)

	w := doJSON(r, http.MethodPost, "/api/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if len(accounts.ended) != 1 || accounts.ended[0] != "user_1" {
		t.Errorf("Expected sessions of user_1 ended, got %v", accounts.ended)
	}
	if c := w.Header().Get("Set-Cookie"); !strings.Contains(c, "Max-Age=0") {
		t.Errorf("Expected cookie cleared, got %q", c)
	}
}

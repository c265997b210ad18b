package auth

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	a := New("test-password")

	if a == nil {
		t.Fatal("expected auth to be created")
	}
	if a.password != "test-password" {
		t.Error("expected password to be set")
	}
	if a.sessions == nil {
		t.Error("expected sessions map to be initialized")
	}
}

func TestGeneratePassword_Format(t *testing.T) {
	pw := GeneratePassword()

	parts := strings.Split(pw, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 words separated by dashes, got %d parts: %s", len(parts), pw)
	}
	for _, part := range parts {
		if !slices.Contains(passwordWords, part) {
			t.Errorf("word %q not in password word list", part)
		}
	}
}

func TestGeneratePassword_Randomness(t *testing.T) {
	passwords := make(map[string]bool)
	for i := 0; i < 20; i++ {
		passwords[GeneratePassword()] = true
	}
	if len(passwords) < 2 {
		t.Error("expected generated passwords to vary")
	}
}

func TestLogin(t *testing.T) {
	a := New("secret")

	if _, ok := a.Login("wrong"); ok {
		t.Error("expected login with wrong password to fail")
	}

	token, ok := a.Login("secret")
	if !ok {
		t.Fatal("expected login to succeed")
	}
	if len(token) != 64 {
		t.Errorf("expected 64 hex char token, got %d", len(token))
	}
	if !a.ValidateSession(token) {
		t.Error("expected session to be valid")
	}
}

func TestLogout(t *testing.T) {
	a := New("secret")
	token, _ := a.Login("secret")

	a.Logout(token)
	if a.ValidateSession(token) {
		t.Error("expected session to be invalid after logout")
	}
}

func TestValidateSession_Expired(t *testing.T) {
	a := New("secret")
	start := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	token, _ := a.Login("secret")
	if a.SessionCount() != 1 {
		t.Fatalf("expected 1 session, got %d", a.SessionCount())
	}

	a.now = func() time.Time { return start.Add(SessionExpiry + time.Minute) }
	if a.ValidateSession(token) {
		t.Error("expected expired session to be rejected")
	}
	if a.SessionCount() != 0 {
		t.Errorf("expected expired session removed, got %d", a.SessionCount())
	}
}

func TestValidateSession_Unknown(t *testing.T) {
	a := New("secret")
	if a.ValidateSession("not-a-token") {
		t.Error("expected unknown token to be rejected")
	}
}

func TestRequireAuthAPI(t *testing.T) {
	a := New("secret")
	handler := a.RequireAuthAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/tickets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without cookie, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
		t.Errorf("expected UNAUTHORIZED code, got %s", rec.Body.String())
	}

	token, _ := a.Login("secret")
	req = httptest.NewRequest(http.MethodGet, "/api/admin/tickets", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 with valid session, got %d", rec.Code)
	}
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "abc")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != "abc" || !cookies[0].HttpOnly {
		t.Errorf("unexpected session cookie: %+v", cookies)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec)
	cookies = rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expiring cookie, got %+v", cookies)
	}
}

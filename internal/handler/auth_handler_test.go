package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haruka/kaori/internal/auth"
	"github.com/haruka/kaori/internal/middleware"
)

// --- モック定義 ---

type mockAuthService struct {
	loginFn func(username, password string) (string, error)
}

func (m *mockAuthService) Login(username, password string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(username, password)
	}
	return "", nil
}

type mockLoginMetrics struct {
	results []string
}

func (m *mockLoginMetrics) RecordLogin(result string) {
	m.results = append(m.results, result)
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		CookieDomain:  "",
		CookieSecure:  false,
		SessionMaxAge: 86400,
	}
}

func sessionCookieFrom(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// --- テスト ---

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(username, password string) (string, error) {
			if username == "admin" && password == "secret" {
				return "encoded-token-value", nil
			}
			return "", auth.ErrInvalidCredentials
		},
	}
	metrics := &mockLoginMetrics{}
	h := NewAuthHandler(svc, testAuthConfig(), metrics)

	body := strings.NewReader(`{"username":"admin","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth", body)
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cookie := sessionCookieFrom(resp)
	if cookie == nil {
		t.Fatal("session cookie should be set")
	}
	if cookie.Value != "encoded-token-value" {
		t.Errorf("cookie value = %q, want the encoded token", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", cookie.SameSite)
	}
	if cookie.MaxAge != 86400 {
		t.Errorf("MaxAge = %d, want 86400", cookie.MaxAge)
	}
	if cookie.Path != "/" {
		t.Errorf("Path = %q, want /", cookie.Path)
	}

	// 成功時に設定するCookieはセッションCookieの1つだけ
	if n := len(resp.Cookies()); n != 1 {
		t.Errorf("cookies set = %d, want 1", n)
	}

	var respBody map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !respBody["ok"] {
		t.Error("ok should be true")
	}

	if len(metrics.results) != 1 || metrics.results[0] != "success" {
		t.Errorf("login metrics = %v, want [success]", metrics.results)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(username, password string) (string, error) {
			return "", auth.ErrInvalidCredentials
		},
	}
	metrics := &mockLoginMetrics{}
	h := NewAuthHandler(svc, testAuthConfig(), metrics)

	body := strings.NewReader(`{"username":"admin","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth", body)
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if sessionCookieFrom(resp) != nil {
		t.Error("failed login must not set a cookie")
	}

	var respBody middleware.ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if respBody.OK {
		t.Error("ok should be false")
	}

	if len(metrics.results) != 1 || metrics.results[0] != "invalid_credentials" {
		t.Errorf("login metrics = %v, want [invalid_credentials]", metrics.results)
	}
}

func TestAuthHandler_Login_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "this is not json"},
		{"empty body", ""},
		{"missing username", `{"password":"secret"}`},
		{"missing password", `{"username":"admin"}`},
		{"empty fields", `{"username":"","password":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verifierCalled bool
			svc := &mockAuthService{
				loginFn: func(username, password string) (string, error) {
					verifierCalled = true
					return "", auth.ErrInvalidCredentials
				},
			}
			h := NewAuthHandler(svc, testAuthConfig(), nil)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/auth", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.Login(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
			if verifierCalled {
				t.Error("invalid request must be rejected before credential verification")
			}
			if sessionCookieFrom(resp) != nil {
				t.Error("rejected login must not set a cookie")
			}
		})
	}
}

func TestAuthHandler_Login_NotConfigured(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(username, password string) (string, error) {
			return "", auth.ErrCredentialsNotConfigured
		},
	}
	metrics := &mockLoginMetrics{}
	h := NewAuthHandler(svc, testAuthConfig(), metrics)

	body := strings.NewReader(`{"username":"admin","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth", body)
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}
	if sessionCookieFrom(resp) != nil {
		t.Error("misconfigured server must not set a cookie")
	}

	if len(metrics.results) != 1 || metrics.results[0] != "misconfigured" {
		t.Errorf("login metrics = %v, want [misconfigured]", metrics.results)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig(), nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/auth", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cookie := sessionCookieFrom(resp)
	if cookie == nil {
		t.Fatal("logout should issue a delete cookie")
	}
	if cookie.MaxAge != -1 {
		t.Errorf("MaxAge = %d, want -1", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Errorf("value = %q, want empty", cookie.Value)
	}
}

// セッションなしでのログアウトもエラーにしない（冪等）。
func TestAuthHandler_Logout_Idempotent(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig(), nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/auth", nil)
		w := httptest.NewRecorder()
		h.Logout(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("call %d: status = %d, want %d", i+1, w.Result().StatusCode, http.StatusOK)
		}
	}
}

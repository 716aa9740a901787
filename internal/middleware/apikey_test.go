package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haruka/kaori/internal/auth"
)

// --- モック定義 ---

type mockAuthzMetrics struct {
	decisions []bool
}

func (m *mockAuthzMetrics) RecordAuthzDecision(allowed bool) {
	m.decisions = append(m.decisions, allowed)
}

type failingSecretSource struct {
	err error
}

func (f *failingSecretSource) Resolve(_ context.Context) (string, error) {
	return "", f.err
}

// --- テスト ---

func TestAPIKeyMiddleware_ValidKey_Passes(t *testing.T) {
	authorizer := auth.NewAuthorizer(auth.StaticSecretSource("api-key-value"))
	metrics := &mockAuthzMetrics{}
	mw := NewAPIKeyMiddleware(authorizer, metrics)

	var isAdmin bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isAdmin = IsAdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	req.Header.Set(APIKeyHeaderName, "api-key-value")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !isAdmin {
		t.Error("admin flag should be injected into context")
	}
	if len(metrics.decisions) != 1 || !metrics.decisions[0] {
		t.Errorf("decisions = %v, want [true]", metrics.decisions)
	}
}

func TestAPIKeyMiddleware_InvalidKey_Returns401(t *testing.T) {
	authorizer := auth.NewAuthorizer(auth.StaticSecretSource("api-key-value"))
	metrics := &mockAuthzMetrics{}
	mw := NewAPIKeyMiddleware(authorizer, metrics)

	var called bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	req.Header.Set(APIKeyHeaderName, "wrong-key")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if called {
		t.Error("handler should not be reached")
	}
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
	if len(metrics.decisions) != 1 || metrics.decisions[0] {
		t.Errorf("decisions = %v, want [false]", metrics.decisions)
	}
}

func TestAPIKeyMiddleware_MissingKey_Returns401(t *testing.T) {
	authorizer := auth.NewAuthorizer(auth.StaticSecretSource("api-key-value"))
	mw := NewAPIKeyMiddleware(authorizer, nil)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// シークレット解決失敗は認可拒否と同じ401で表現する。
// 内部事情（設定不備・ストア障害）をキー持ち主以外に開示しない。
func TestAPIKeyMiddleware_ResolutionFailure_Returns401(t *testing.T) {
	authorizer := auth.NewAuthorizer(&failingSecretSource{err: errors.New("store unreachable")})
	mw := NewAPIKeyMiddleware(authorizer, nil)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	req.Header.Set(APIKeyHeaderName, "api-key-value")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.OK {
		t.Error("ok should be false")
	}
}

func TestIsAdminFromContext_Default(t *testing.T) {
	if IsAdminFromContext(context.Background()) {
		t.Error("admin flag should default to false")
	}
}

// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haruka/kaori/internal/auth"
	"github.com/haruka/kaori/internal/middleware"
	"github.com/haruka/kaori/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(username, password string) (string, error)
}

// LoginMetrics はログイン試行の結果を記録するインターフェース。
// metrics.Collectorの部分集合として定義する。
type LoginMetrics interface {
	RecordLogin(result string)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は管理者ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	metrics LoginMetrics
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnilを許容する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, metrics LoginMetrics) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		metrics: metrics,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login は認証情報を検証し、成功時にセッションCookieを発行する。
// POST /api/admin/auth
//
// 入力検証は認証情報の比較より前に行い、不正なリクエストが
// Verifierに到達しないようにする。
// 失敗時はCookieを一切設定しない。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrCredentialsNotConfigured):
			// デプロイ不備。認証失敗とは区別して運用アラートとして記録する
			slog.Error("admin credentials are not configured")
			h.recordLogin("misconfigured")
			middleware.WriteErrorResponse(w, http.StatusInternalServerError, model.NewServerMisconfiguredError())
		case errors.Is(err, auth.ErrInvalidCredentials):
			slog.Warn("admin login failed")
			h.recordLogin("invalid_credentials")
			middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialsError())
		default:
			slog.Error("login failed", slog.String("error", err.Error()))
			middleware.WriteInternalServerError(w)
		}
		return
	}

	// セッションCookieを設定（HTTP Only）。成功時に設定するCookieはこの1つだけ
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	slog.Info("admin logged in")
	h.recordLogin("success")
	writeOKResponse(w)
}

// Logout はセッションCookieを無条件にクリアする。
// DELETE /api/admin/auth
// セッションが存在しない状態での呼び出しもエラーにしない（冪等）。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	writeOKResponse(w)
}

func (h *AuthHandler) recordLogin(result string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(result)
	}
}

// writeOKResponse は成功応答を書き込む。機密情報は含めない。
func writeOKResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haruka/kaori/internal/auth"
	"github.com/haruka/kaori/internal/model"
)

const (
	// SessionCookieName は管理者セッションCookieの名前。
	SessionCookieName = "admin_session"

	adminPagePrefix = "/admin"
	adminAPIPrefix  = "/api/admin"
	loginPagePath   = "/admin/login"
	loginAPIPath    = "/api/admin/auth"
)

// AdminGateConfig は管理ゲートミドルウェアの設定。
// Cookie削除時の属性を発行時と一致させるために使う。
type AdminGateConfig struct {
	CookieSecure bool
	CookieDomain string
}

// NewAdminGateMiddleware は管理画面向けパスへのリクエストを
// セッションCookieで検証するミドルウェアを返す。
//
// 保護対象は /admin と /api/admin 配下。ログインページとログイン送信
// エンドポイント自体はセッションなしで到達可能なまま残す。
// Cookieが欠落・不正・期限切れの場合は拒否し、不正・期限切れの場合は
// Cookieを削除して自己修復させる。
// 拒否の表現はリクエスト種別で異なる:
// ページ遷移はログインページへのリダイレクト（元のパスをfromクエリで保持）、
// APIパスはリダイレクトせず401のJSONを返す。
func NewAdminGateMiddleware(config AdminGateConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// 公開ルートはそのまま通過
			if !strings.HasPrefix(path, adminPagePrefix) && !strings.HasPrefix(path, adminAPIPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			// ログインページとログインAPIはセッションなしで許可
			if path == loginPagePath || path == loginAPIPath {
				next.ServeHTTP(w, r)
				return
			}

			// 1. セッションCookieの存在確認
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				denyRequest(w, r, config, false)
				return
			}

			// 2. トークンのデコード。失敗したCookieは削除して自己修復する
			token, err := auth.DecodeToken(cookie.Value)
			if err != nil {
				slog.Warn("invalid session cookie",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)
				denyRequest(w, r, config, true)
				return
			}

			// 3. 有効期限の検証。Cookie自体のmax-ageではなく埋め込み期限を正とする
			if !token.Valid(time.Now()) {
				denyRequest(w, r, config, true)
				return
			}

			// 4. 有効なセッション: リクエストを変更せず通過させる
			next.ServeHTTP(w, r)
		})
	}
}

// denyRequest は未認証リクエストを拒否する。
// clearCookieが真の場合は不正なセッションCookieを削除する。
func denyRequest(w http.ResponseWriter, r *http.Request, config AdminGateConfig, clearCookie bool) {
	if clearCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			Domain:   config.CookieDomain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   config.CookieSecure,
			SameSite: http.SameSiteStrictMode,
		})
	}

	// APIコールはリダイレクトを解釈できないため401のJSONを返す
	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	// ページ遷移: 認証後に元のパスへ戻れるようfromクエリに保持する
	q := url.Values{}
	q.Set("from", r.URL.Path)
	http.Redirect(w, r, loginPagePath+"?"+q.Encode(), http.StatusTemporaryRedirect)
}

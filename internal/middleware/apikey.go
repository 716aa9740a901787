package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/haruka/kaori/internal/auth"
	"github.com/haruka/kaori/internal/model"
)

// APIKeyHeaderName はAPIキーを運ぶリクエストヘッダーの名前。
const APIKeyHeaderName = "x-api-key"

// isAdminContextKey はリクエストコンテキストに認可結果を格納するためのキー。
var isAdminContextKey = contextKey("is_admin")

// AuthzMetrics はAPIキー認可の判定結果を記録するインターフェース。
// metrics.Collectorの部分集合として定義する。
type AuthzMetrics interface {
	RecordAuthzDecision(allowed bool)
}

// NewAPIKeyMiddleware はx-api-keyヘッダーを検証するミドルウェアを返す。
// Cookieセッションのゲートとは独立した、管理データAPI向けの信頼境界。
// 参照シークレットを解決できない場合は拒否し、不正なキーとは区別して
// 運用エラーとしてログに記録する。
// 認可成功時はコンテキストに管理者フラグを注入する。
// metricsはnilを許容する。
func NewAPIKeyMiddleware(authorizer *auth.Authorizer, metrics AuthzMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := authorizer.Authorize(r.Context(), r.Header.Get(APIKeyHeaderName))
			if err != nil {
				// シークレット解決失敗。呼び出し元には通常の401を返し、詳細はログのみに残す
				slog.Error("admin secret resolution failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				recordAuthz(metrics, false)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			if !allowed {
				recordAuthz(metrics, false)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			recordAuthz(metrics, true)
			ctx := context.WithValue(r.Context(), isAdminContextKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAdminFromContext はリクエストコンテキストから管理者フラグを取得する。
// APIキーミドルウェアを通過したリクエストでのみtrueを返す。
func IsAdminFromContext(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(isAdminContextKey).(bool)
	return ok && isAdmin
}

func recordAuthz(metrics AuthzMetrics, allowed bool) {
	if metrics != nil {
		metrics.RecordAuthzDecision(allowed)
	}
}

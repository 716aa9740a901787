package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/haruka/kaori/internal/middleware"
	"github.com/haruka/kaori/internal/model"
)

// BackendCaller はプロキシハンドラーが必要とするバックエンドクライアントのインターフェース。
type BackendCaller interface {
	Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error)
}

// ProxyHandler はWebティアの/api/admin/*をAPIティアの/admin/*へ転送する。
// CookieセッションのゲートキーパーはWebティア側で通過済みであり、
// ここで共有シークレット（APIキー）が付与されて2つ目の信頼境界へ渡る。
type ProxyHandler struct {
	client BackendCaller
}

// NewProxyHandler はProxyHandlerを生成する。
func NewProxyHandler(client BackendCaller) *ProxyHandler {
	return &ProxyHandler{client: client}
}

// webAdminAPIPrefix はWebティア側の管理APIパスプレフィックス。
const webAdminAPIPrefix = "/api/admin"

// Proxy はリクエストをバックエンドへ転送し、ステータスとボディを中継する。
// バックエンドに到達できない場合は502を返す。
func (h *ProxyHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	backendPath := "/admin" + strings.TrimPrefix(r.URL.Path, webAdminAPIPrefix)
	if r.URL.RawQuery != "" {
		backendPath += "?" + r.URL.RawQuery
	}

	resp, err := h.client.Do(r.Context(), r.Method, backendPath, r.Body)
	if err != nil {
		slog.Error("backend proxy request failed",
			slog.String("method", r.Method),
			slog.String("path", backendPath),
			slog.String("error", err.Error()),
		)
		middleware.WriteErrorResponse(w, http.StatusBadGateway, model.NewBackendUnavailableError())
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		slog.Error("failed to relay backend response", slog.String("error", err.Error()))
	}
}

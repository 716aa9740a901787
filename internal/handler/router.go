package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haruka/kaori/internal/auth"
	"github.com/haruka/kaori/internal/metrics"
	"github.com/haruka/kaori/internal/middleware"
)

// WebRouterDeps はNewWebRouterに必要な依存関係をまとめた構造体。
type WebRouterDeps struct {
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig
	Backend     BackendCaller
	Metrics     *metrics.Collector
	GateConfig  middleware.AdminGateConfig
}

// NewWebRouter はWebティア（管理画面とエッジゲート）のルーティングと
// ミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → AdminGate
//
// AdminGateは /admin と /api/admin 配下のみを検査するため
// 全ルートに適用してよい。
func NewWebRouter(deps *WebRouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(deps.Metrics.Middleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewAdminGateMiddleware(deps.GateConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Metrics)
	pageHandler := NewPageHandler()
	proxyHandler := NewProxyHandler(deps.Backend)

	r.Get("/health", healthCheck)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// 管理画面ページ
	r.Get("/admin/login", pageHandler.LoginPage)
	r.Get("/admin", pageHandler.AdminPage)

	// セッション管理
	r.Post("/api/admin/auth", authHandler.Login)
	r.Delete("/api/admin/auth", authHandler.Logout)

	// それ以外の管理APIはバックエンドへ中継する
	r.Handle("/api/admin/*", http.HandlerFunc(proxyHandler.Proxy))

	return r
}

// APIRouterDeps はNewAPIRouterに必要な依存関係をまとめた構造体。
type APIRouterDeps struct {
	PostService       PostServiceInterface
	AdminPostService  AdminPostServiceInterface
	CatalogService    CatalogReaderInterface
	AdminCatalog      AdminCatalogServiceInterface
	Authorizer        *auth.Authorizer
	Metrics           *metrics.Collector
	CORSAllowedOrigin string
}

// NewAPIRouter はAPIティア（公開コンテンツAPIと管理データAPI）の
// ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS
//
// /admin 配下のみAPIキー認可を追加で通す。
func NewAPIRouter(deps *APIRouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(deps.Metrics.Middleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	postHandler := NewPostHandler(deps.PostService)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	adminPostHandler := NewAdminPostHandler(deps.AdminPostService)
	adminCatalogHandler := NewAdminCatalogHandler(deps.AdminCatalog)

	r.Get("/health", healthCheck)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// --- 公開API ---

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.ListPosts)
		r.Get("/{slug}", postHandler.GetPost)
	})

	r.Get("/houses", catalogHandler.ListHouses)
	r.Get("/notes", catalogHandler.ListNotes)
	r.Route("/fragrances", func(r chi.Router) {
		r.Get("/", catalogHandler.ListFragrances)
		r.Get("/{id}", catalogHandler.GetFragrance)
	})

	// --- 管理API（APIキー認可が必要） ---

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewAPIKeyMiddleware(deps.Authorizer, deps.Metrics))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", adminPostHandler.ListPosts)
			r.Post("/", adminPostHandler.CreatePost)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", adminPostHandler.GetPost)
				r.Put("/", adminPostHandler.UpdatePost)
				r.Delete("/", adminPostHandler.DeletePost)
			})
		})

		r.Route("/houses", func(r chi.Router) {
			r.Get("/", adminCatalogHandler.ListHouses)
			r.Post("/", adminCatalogHandler.CreateHouse)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", adminCatalogHandler.UpdateHouse)
				r.Delete("/", adminCatalogHandler.DeleteHouse)
			})
		})

		r.Route("/fragrances", func(r chi.Router) {
			r.Get("/", adminCatalogHandler.ListFragrances)
			r.Post("/", adminCatalogHandler.CreateFragrance)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", adminCatalogHandler.GetFragrance)
				r.Put("/", adminCatalogHandler.UpdateFragrance)
				r.Delete("/", adminCatalogHandler.DeleteFragrance)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", adminCatalogHandler.ListNotes)
			r.Post("/", adminCatalogHandler.CreateNote)
		})
	})

	return r
}

// healthCheck は稼働確認エンドポイント。依存先には触れない。
func healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
}

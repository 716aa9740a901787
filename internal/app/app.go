// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/haruka/kaori/internal/auth"
	"github.com/haruka/kaori/internal/backend"
	"github.com/haruka/kaori/internal/catalog"
	"github.com/haruka/kaori/internal/config"
	"github.com/haruka/kaori/internal/database"
	"github.com/haruka/kaori/internal/handler"
	"github.com/haruka/kaori/internal/logger"
	"github.com/haruka/kaori/internal/metrics"
	"github.com/haruka/kaori/internal/middleware"
	"github.com/haruka/kaori/internal/post"
	"github.com/haruka/kaori/internal/repository"
	"github.com/haruka/kaori/internal/security"
)

// Init はアプリケーションの初期化を行う。
// .envファイル（存在する場合のみ）と環境変数を読み込み、
// JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) {
	// .envは開発用。本番では環境変数を直接設定する。
	_ = godotenv.Load()

	logger.SetupDefault(w)
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	Init(w)

	slog.Info("starting application", slog.String("command", string(cmd)))

	switch cmd {
	case CommandAPI:
		return runAPI()
	case CommandMigrate:
		return runMigrate()
	default:
		return runServe()
	}
}

// runServe はWebティアモードで起動する。
// 管理画面ページ、ログインAPI、バックエンドへの管理プロキシを提供する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe() error {
	cfg, err := config.LoadWeb()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	authService := auth.NewService(
		auth.Credentials{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
		},
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)

	backendClient := backend.NewClient(cfg.BackendAPIURL, cfg.AdminAPIKey)

	deps := &handler.WebRouterDeps{
		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},
		Backend: backendClient,
		Metrics: metrics.NewCollector(),
		GateConfig: middleware.AdminGateConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
	}

	router := handler.NewWebRouter(deps)

	slog.Info("web tier configured",
		slog.String("base_url", cfg.BaseURL),
		slog.String("backend_api_url", cfg.BackendAPIURL),
	)

	return serveHTTP(router, cfg.ServerPort, "web server")
}

// runAPI はAPIティアモードで起動する。
// DB接続を開き、公開コンテンツAPIとAPIキー認可付きの管理データAPIを提供する。
func runAPI() error {
	cfg, err := config.LoadAPI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	postRepo := repository.NewPostgresPostRepo(db)
	houseRepo := repository.NewPostgresHouseRepo(db)
	fragranceRepo := repository.NewPostgresFragranceRepo(db)
	noteRepo := repository.NewPostgresNoteRepo(db)

	// 3. ドメインサービスの初期化
	sanitizer := security.NewContentSanitizer()
	postService := post.NewService(postRepo, sanitizer)
	catalogService := catalog.NewService(houseRepo, fragranceRepo, noteRepo)

	// 4. APIキー認可の初期化
	// シークレットは起動時設定から解決するが、キャッシュ層を挟むことで
	// 解決元を外部ストアに差し替えても呼び出し側は変わらない。
	secretSource := auth.NewCachedSecretSource(
		auth.StaticSecretSource(cfg.AdminAPIKey),
		cfg.SecretCacheTTL,
	)
	authorizer := auth.NewAuthorizer(secretSource)

	// 5. ルーターの構築
	deps := &handler.APIRouterDeps{
		PostService:       postService,
		AdminPostService:  postService,
		CatalogService:    catalogService,
		AdminCatalog:      catalogService,
		Authorizer:        authorizer,
		Metrics:           metrics.NewCollector(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
	}

	router := handler.NewAPIRouter(deps)

	return serveHTTP(router, cfg.ServerPort, "API server")
}

// serveHTTP はHTTPサーバーを起動し、SIGINT/SIGTERMで
// グレースフルシャットダウンする。
func serveHTTP(router http.Handler, port, name string) error {
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info(name+" starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down " + name + "...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info(name + " stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate() error {
	cfg, err := config.LoadAPI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}

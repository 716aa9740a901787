// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// WebConfig はWebティア（管理画面・管理プロキシ）の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type WebConfig struct {
	// Admin credentials
	AdminUsername string
	AdminPassword string

	// Backend
	AdminAPIKey   string
	BackendAPIURL string

	// Session
	SessionMaxAge int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string
}

// APIConfig はAPIティア（コンテンツAPI・管理データAPI）の設定を保持する。
type APIConfig struct {
	// Database
	DatabaseURL string

	// Authorizer
	AdminAPIKey    string
	SecretCacheTTL time.Duration

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// LoadWeb は環境変数からWebConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func LoadWeb() (*WebConfig, error) {
	cfg := &WebConfig{}

	// Required fields
	var missing []string

	cfg.AdminUsername = os.Getenv("ADMIN_USER")
	if cfg.AdminUsername == "" {
		missing = append(missing, "ADMIN_USER")
	}

	cfg.AdminPassword = os.Getenv("ADMIN_PASS")
	if cfg.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASS")
	}

	cfg.AdminAPIKey = os.Getenv("ADMIN_API_KEY")
	if cfg.AdminAPIKey == "" {
		missing = append(missing, "ADMIN_API_KEY")
	}

	cfg.BackendAPIURL = os.Getenv("BACKEND_API_URL")
	if cfg.BackendAPIURL == "" {
		missing = append(missing, "BACKEND_API_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")

	return cfg, nil
}

// LoadAPI は環境変数からAPIConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func LoadAPI() (*APIConfig, error) {
	cfg := &APIConfig{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.AdminAPIKey = os.Getenv("ADMIN_API_KEY")
	if cfg.AdminAPIKey == "" {
		missing = append(missing, "ADMIN_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.SecretCacheTTL = getEnvDuration("SECRET_CACHE_TTL", 5*time.Minute)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8081")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:8080")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

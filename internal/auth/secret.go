package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSecretNotConfigured は参照シークレットが未設定であることを示す。
var ErrSecretNotConfigured = errors.New("admin API secret is not configured")

// SecretSource は認可用参照シークレットの取得元を抽象化する。
// 設定値の直接参照のほか、外部シークレットストアからの取得を想定した抽象化。
type SecretSource interface {
	// Resolve は参照シークレットを取得する。
	Resolve(ctx context.Context) (string, error)
}

// StaticSecretSource は設定値をそのまま返すSecretSource。
type StaticSecretSource string

// Resolve は保持している値を返す。値が空の場合はErrSecretNotConfiguredを返す。
func (s StaticSecretSource) Resolve(_ context.Context) (string, error) {
	if s == "" {
		return "", ErrSecretNotConfigured
	}
	return string(s), nil
}

// CachedSecretSource は下位SecretSourceの解決結果を一定期間キャッシュする。
// TTL内のリクエストはキャッシュ値を再利用し、期限切れ後の最初の利用で遅延再解決する。
// 解決は副作用のない読み取りのため、失敗した結果はキャッシュしない。
type CachedSecretSource struct {
	source SecretSource
	ttl    time.Duration

	mu        sync.Mutex
	value     string
	expiresAt time.Time

	now func() time.Time
}

// NewCachedSecretSource はCachedSecretSourceを生成する。
func NewCachedSecretSource(source SecretSource, ttl time.Duration) *CachedSecretSource {
	return &CachedSecretSource{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Resolve はキャッシュが有効ならキャッシュ値を、期限切れなら再解決した値を返す。
// 再解決に失敗した場合はエラーを返し、キャッシュは更新しない。
func (c *CachedSecretSource) Resolve(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value != "" && c.now().Before(c.expiresAt) {
		return c.value, nil
	}

	value, err := c.source.Resolve(ctx)
	if err != nil {
		return "", err
	}

	c.value = value
	c.expiresAt = c.now().Add(c.ttl)
	return value, nil
}

// compile-time interface checks
var _ SecretSource = StaticSecretSource("")
var _ SecretSource = (*CachedSecretSource)(nil)

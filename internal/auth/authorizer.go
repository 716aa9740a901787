package auth

import (
	"context"
	"fmt"
)

// Authorizer は共有シークレット（APIキー）による認可判定を行う。
// Cookieセッションとは独立した、サーバー間呼び出し向けの信頼境界。
type Authorizer struct {
	secrets SecretSource
}

// NewAuthorizer はAuthorizerを生成する。
// 通常はCachedSecretSourceでラップしたSecretSourceを渡す。
func NewAuthorizer(secrets SecretSource) *Authorizer {
	return &Authorizer{secrets: secrets}
}

// Authorize は候補キーを参照シークレットと比較し、認可可否を返す。
// 参照シークレットを取得できない場合はエラーを返す。
// 呼び出し側はこれを認証失敗とは区別して運用エラーとしてログに記録すること。
// 候補キーが空、または不一致の場合はfalseを返す。
func (a *Authorizer) Authorize(ctx context.Context, candidate string) (bool, error) {
	ref, err := a.secrets.Resolve(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to resolve admin API secret: %w", err)
	}

	if candidate == "" {
		return false, nil
	}

	return ConstantTimeEquals(candidate, ref), nil
}

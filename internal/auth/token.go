package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// ErrMalformedToken はセッショントークンが期待する形式にデコードできないことを示す。
var ErrMalformedToken = errors.New("malformed session token")

// SessionToken は管理者セッションの内容を表す。
// 有効期限のみが認可判定に使われる。ユーザー名は監査ログ用の付随情報。
type SessionToken struct {
	User      string
	ExpiresAt time.Time
}

// sessionClaims はトークンのワイヤ表現。
// expはエポックからのミリ秒。Cookieフォーマット互換性のためこの形式を維持する。
type sessionClaims struct {
	User string `json:"user"`
	Exp  int64  `json:"exp"`
}

// EncodeToken はセッショントークンを可逆なテキスト表現にエンコードする。
// 署名は付与しない。トークンの機密性はHttpOnly Cookieと
// トランスポート層の保護に依存する。
func EncodeToken(token SessionToken) (string, error) {
	raw, err := json.Marshal(sessionClaims{
		User: token.User,
		Exp:  token.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeToken はエンコード済み文字列をセッショントークンに復元する。
// base64として不正、JSONとして不正、または有効期限フィールドを欠く場合は
// ErrMalformedTokenを返す。
func DecodeToken(encoded string) (SessionToken, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return SessionToken{}, ErrMalformedToken
	}

	var claims sessionClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return SessionToken{}, ErrMalformedToken
	}
	if claims.Exp == 0 {
		return SessionToken{}, ErrMalformedToken
	}

	return SessionToken{
		User:      claims.User,
		ExpiresAt: time.UnixMilli(claims.Exp),
	}, nil
}

// Valid は指定時刻においてトークンが有効かを返す。
// 有効期限が現在時刻より厳密に後の場合のみ有効。
func (t SessionToken) Valid(now time.Time) bool {
	return t.ExpiresAt.After(now)
}

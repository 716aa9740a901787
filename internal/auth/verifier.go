// Package auth は管理者認証・認可の中核を提供する。
//
// 2つの独立した信頼境界を扱う:
// Webティアのセッション（Cookie）認証と、APIティアの共有シークレット（APIキー）認可。
// 両者は保護対象の呼び出し元が異なるため、意図的に統合しない。
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
)

// ErrCredentialsNotConfigured は参照認証情報が未設定であることを示す。
// 認証失敗（ErrInvalidCredentials）とは区別され、デプロイ不備として扱う。
var ErrCredentialsNotConfigured = errors.New("admin credentials are not configured")

// Credentials はデプロイ設定から供給される管理者の参照認証情報。
// データベースには保存せず、実行時は不変として扱う。
type Credentials struct {
	Username string
	Password string
}

// VerifyCredentials は提出された認証情報を参照値と比較する。
// どちらかの参照値が空の場合はErrCredentialsNotConfiguredを返し、常に認証失敗とする。
// ユーザー名とパスワードの両方が一致した場合のみtrueを返す。
// 副作用はなく、同一入力に対して常に同一の結果を返す。
func VerifyCredentials(ref Credentials, username, password string) (bool, error) {
	if ref.Username == "" || ref.Password == "" {
		return false, ErrCredentialsNotConfigured
	}

	// 短絡評価を避けるため、両方の比較を先に済ませてから結合する
	userOK := ConstantTimeEquals(username, ref.Username)
	passOK := ConstantTimeEquals(password, ref.Password)

	return userOK && passOK, nil
}

// ConstantTimeEquals は2つの文字列を内容に依存しない時間で比較する。
// 先に固定長ダイジェストへ変換することで、長さ不一致でも比較時間が変わらず、
// 先頭一致長によるタイミングサイドチャネルを防ぐ。
func ConstantTimeEquals(a, b string) bool {
	digestA := sha256.Sum256([]byte(a))
	digestB := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(digestA[:], digestB[:]) == 1
}

// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeServerMisconfigured = "SERVER_MISCONFIGURED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodePostNotFound        = "POST_NOT_FOUND"
	ErrCodeDuplicateSlug       = "DUPLICATE_SLUG"
	ErrCodeHouseNotFound       = "HOUSE_NOT_FOUND"
	ErrCodeFragranceNotFound   = "FRAGRANCE_NOT_FOUND"
	ErrCodeNoteNotFound        = "NOTE_NOT_FOUND"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeBackendUnavailable  = "BACKEND_UNAVAILABLE"
)

// NewInvalidRequestBodyError はリクエストボディ不正エラーを生成する。
func NewInvalidRequestBodyError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequestBody,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewServerMisconfiguredError はサーバー設定不備エラーを生成する。
// デプロイ不備を示すため、呼び出し側で運用アラートとしてログに記録すること。
func NewServerMisconfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodeServerMisconfigured,
		Message:  "サーバーの設定に不備があります。",
		Category: "system",
		Action:   "管理者に連絡してください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー名とパスワードのどちらが誤っているかは意図的に区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewPostNotFoundError は記事未検出エラーを生成する。
func NewPostNotFoundError(slug string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("指定された記事が見つかりません: %s", slug),
		Category: "content",
		Action:   "記事のスラッグを確認してください。",
	}
}

// NewDuplicateSlugError はスラッグ重複エラーを生成する。
func NewDuplicateSlugError(slug string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateSlug,
		Message:  fmt.Sprintf("このスラッグは既に使用されています: %s", slug),
		Category: "validation",
		Action:   "別のスラッグを指定してください。",
	}
}

// NewHouseNotFoundError はブランド未検出エラーを生成する。
func NewHouseNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeHouseNotFound,
		Message:  fmt.Sprintf("指定されたブランドが見つかりません: %s", id),
		Category: "content",
		Action:   "ブランドIDを確認してください。",
	}
}

// NewFragranceNotFoundError は香水未検出エラーを生成する。
func NewFragranceNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeFragranceNotFound,
		Message:  fmt.Sprintf("指定された香水が見つかりません: %s", id),
		Category: "content",
		Action:   "香水IDを確認してください。",
	}
}

// NewNoteNotFoundError はノート未検出エラーを生成する。
func NewNoteNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeNoteNotFound,
		Message:  fmt.Sprintf("指定されたノートが見つかりません: %s", id),
		Category: "content",
		Action:   "ノートIDを確認してください。",
	}
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewBackendUnavailableError はバックエンドAPI到達不能エラーを生成する。
func NewBackendUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeBackendUnavailable,
		Message:  "バックエンドAPIに接続できませんでした。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

package auth

import (
	"errors"
	"time"
)

// ErrInvalidCredentials は認証情報の不一致を示す。
// ユーザー名とパスワードのどちらが誤っていたかは意図的に区別しない。
var ErrInvalidCredentials = errors.New("invalid credentials")

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は管理者ログインのビジネスロジックを提供する。
type Service struct {
	creds  Credentials
	config ServiceConfig

	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(creds Credentials, config ServiceConfig) *Service {
	return &Service{
		creds:  creds,
		config: config,
		now:    time.Now,
	}
}

// Login は認証情報を検証し、成功時にエンコード済みセッショントークンを返す。
// 参照値未設定の場合はErrCredentialsNotConfigured、
// 不一致の場合はErrInvalidCredentialsを返す。
func (s *Service) Login(username, password string) (string, error) {
	ok, err := VerifyCredentials(s.creds, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	expiresAt := s.now().Add(time.Duration(s.config.SessionMaxAge) * time.Second)
	return EncodeToken(SessionToken{User: username, ExpiresAt: expiresAt})
}

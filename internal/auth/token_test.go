package auth

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func TestEncodeDecodeToken_Roundtrip(t *testing.T) {
	expiresAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	encoded, err := EncodeToken(SessionToken{User: "admin", ExpiresAt: expiresAt})
	if err != nil {
		t.Fatalf("EncodeToken failed: %v", err)
	}

	decoded, err := DecodeToken(encoded)
	if err != nil {
		t.Fatalf("DecodeToken failed: %v", err)
	}

	if decoded.User != "admin" {
		t.Errorf("User = %q, want %q", decoded.User, "admin")
	}
	if !decoded.ExpiresAt.Equal(expiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", decoded.ExpiresAt, expiresAt)
	}
}

// エンコード結果はミリ秒精度で切り捨てられる。
func TestEncodeToken_MillisecondPrecision(t *testing.T) {
	expiresAt := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	encoded, err := EncodeToken(SessionToken{User: "admin", ExpiresAt: expiresAt})
	if err != nil {
		t.Fatalf("EncodeToken failed: %v", err)
	}

	decoded, err := DecodeToken(encoded)
	if err != nil {
		t.Fatalf("DecodeToken failed: %v", err)
	}

	if decoded.ExpiresAt.UnixMilli() != expiresAt.UnixMilli() {
		t.Errorf("ExpiresAt(ms) = %d, want %d", decoded.ExpiresAt.UnixMilli(), expiresAt.UnixMilli())
	}
}

func TestDecodeToken_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"not base64", "%%%not-base64%%%"},
		{"base64 but not json", base64.RawURLEncoding.EncodeToString([]byte("plain text"))},
		{"json without exp", base64.RawURLEncoding.EncodeToString([]byte(`{"user":"admin"}`))},
		{"exp zero", base64.RawURLEncoding.EncodeToString([]byte(`{"user":"admin","exp":0}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.encoded)
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("err = %v, want ErrMalformedToken", err)
			}
		})
	}
}

func TestSessionToken_Valid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future expiry", now.Add(time.Hour), true},
		{"past expiry", now.Add(-time.Hour), false},
		{"exactly now", now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := SessionToken{User: "admin", ExpiresAt: tt.expiresAt}
			if got := token.Valid(now); got != tt.want {
				t.Errorf("Valid = %v, want %v", got, tt.want)
			}
		})
	}
}

package auth

import (
	"context"
	"errors"
	"testing"
)

func TestAuthorizer_Authorize_Match(t *testing.T) {
	authorizer := NewAuthorizer(StaticSecretSource("api-key-value"))

	allowed, err := authorizer.Authorize(context.Background(), "api-key-value")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !allowed {
		t.Error("expected authorization to succeed")
	}
}

func TestAuthorizer_Authorize_Mismatch(t *testing.T) {
	authorizer := NewAuthorizer(StaticSecretSource("api-key-value"))

	allowed, err := authorizer.Authorize(context.Background(), "wrong-key")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if allowed {
		t.Error("expected authorization to fail")
	}
}

func TestAuthorizer_Authorize_EmptyCandidate(t *testing.T) {
	authorizer := NewAuthorizer(StaticSecretSource("api-key-value"))

	allowed, err := authorizer.Authorize(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if allowed {
		t.Error("empty candidate must never be authorized")
	}
}

func TestAuthorizer_Authorize_ResolutionFailure(t *testing.T) {
	resolveErr := errors.New("secret store unreachable")
	source := &mockSecretSource{
		resolveFn: func(ctx context.Context) (string, error) { return "", resolveErr },
	}
	authorizer := NewAuthorizer(source)

	allowed, err := authorizer.Authorize(context.Background(), "api-key-value")
	if !errors.Is(err, resolveErr) {
		t.Errorf("err = %v, want wrapped %v", err, resolveErr)
	}
	if allowed {
		t.Error("resolution failure must not authorize")
	}
}

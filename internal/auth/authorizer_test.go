package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "myshop/internal/errors"
	"myshop/internal/testutil"
)

type mockSecretStore struct {
	GetFunc func(ctx context.Context, name string) (string, error)
}

func (m *mockSecretStore) Get(ctx context.Context, name string) (string, error) {
	return m.GetFunc(ctx, name)
}

func fixedSecretStore(value string) *mockSecretStore {
	return &mockSecretStore{
		GetFunc: func(ctx context.Context, name string) (string, error) {
			return value, nil
		},
	}
}

func TestAuthorize_AllowsValidToken(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	authorizer := NewAuthorizer(idp.Verifier(t), fixedSecretStore("shared-secret"), "src-ident", zap.NewNop())

	token := idp.SignToken(t, jwt.MapClaims{"sub": "cust-123"})

	decision, err := authorizer.Authorize(context.Background(), token, "shared-secret", "GET /orders")
	require.NoError(t, err)

	assert.Equal(t, EffectAllow, decision.Effect)
	assert.Equal(t, "cust-123", decision.Principal)
	assert.Equal(t, "GET /orders", decision.Resource)
}

func TestAuthorize_MissingInputsDenyWithoutIdPContact(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	authorizer := NewAuthorizer(idp.Verifier(t), fixedSecretStore("shared-secret"), "src-ident", zap.NewNop())

	token := idp.SignToken(t, jwt.MapClaims{"sub": "cust-123"})

	tests := []struct {
		name  string
		token string
		ident string
	}{
		{"missing token", "", "shared-secret"},
		{"missing ident header", token, ""},
		{"missing both", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := idp.JWKSHits()

			_, err := authorizer.Authorize(context.Background(), tt.token, tt.ident, "GET /orders")
			require.Error(t, err)

			_, ok := apperrors.IsUnauthorizedError(err)
			assert.True(t, ok, "expected UnauthorizedError, got %T", err)
			assert.Equal(t, before, idp.JWKSHits(), "identity provider must not be contacted")
		})
	}
}

func TestAuthorize_SecretMismatchIsExplicitDeny(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	authorizer := NewAuthorizer(idp.Verifier(t), fixedSecretStore("shared-secret"), "src-ident", zap.NewNop())

	token := idp.SignToken(t, jwt.MapClaims{"sub": "cust-123"})

	decision, err := authorizer.Authorize(context.Background(), token, "wrong-secret", "GET /orders")
	require.NoError(t, err)

	assert.Equal(t, EffectDeny, decision.Effect)
	assert.Empty(t, decision.Principal)
}

func TestAuthorize_SecretFetchFailureDenies(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	store := &mockSecretStore{
		GetFunc: func(ctx context.Context, name string) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	authorizer := NewAuthorizer(idp.Verifier(t), store, "src-ident", zap.NewNop())

	token := idp.SignToken(t, jwt.MapClaims{"sub": "cust-123"})

	_, err := authorizer.Authorize(context.Background(), token, "shared-secret", "GET /orders")
	require.Error(t, err)

	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok, "expected UnauthorizedError, got %T", err)
}

func TestAuthorize_WrongSigningKeyDenies(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	authorizer := NewAuthorizer(idp.Verifier(t), fixedSecretStore("shared-secret"), "src-ident", zap.NewNop())

	foreignKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token := idp.SignTokenWithKey(t, jwt.MapClaims{"sub": "cust-123"}, foreignKey)

	_, err = authorizer.Authorize(context.Background(), token, "shared-secret", "GET /orders")
	require.Error(t, err)

	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok, "expected UnauthorizedError, got %T", err)
}

func TestAuthorize_ExpiredTokenDenies(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	authorizer := NewAuthorizer(idp.Verifier(t), fixedSecretStore("shared-secret"), "src-ident", zap.NewNop())

	token := idp.SignToken(t, jwt.MapClaims{
		"sub": "cust-123",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := authorizer.Authorize(context.Background(), token, "shared-secret", "GET /orders")
	require.Error(t, err)

	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok, "expected UnauthorizedError, got %T", err)
}

func TestAuthorize_GarbageTokenDenies(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	authorizer := NewAuthorizer(idp.Verifier(t), fixedSecretStore("shared-secret"), "src-ident", zap.NewNop())

	_, err := authorizer.Authorize(context.Background(), "not-a-jwt", "shared-secret", "GET /orders")
	require.Error(t, err)

	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok, "expected UnauthorizedError, got %T", err)
}

package testutil

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityProvider is a fake OIDC issuer for authorizer tests. It serves
// discovery metadata and a JWKS for a generated RSA key and mints RS256
// tokens signed with it.
type IdentityProvider struct {
	Key    *rsa.PrivateKey
	KeyID  string
	server *httptest.Server

	jwksHits atomic.Int32
}

func NewIdentityProvider(t *testing.T) *IdentityProvider {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating RSA key: %v", err)
	}

	p := &IdentityProvider{
		Key:   key,
		KeyID: "test-key-1",
	}

	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.well-known/openid-configuration":
			p.writeDiscovery(w)
		case "/keys":
			p.jwksHits.Add(1)
			p.writeJWKS(w)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(p.server.Close)

	return p
}

func (p *IdentityProvider) Issuer() string {
	return p.server.URL
}

// JWKSHits reports how many times the signing keys were fetched; tests use
// it to assert the provider was never contacted.
func (p *IdentityProvider) JWKSHits() int {
	return int(p.jwksHits.Load())
}

// Verifier builds an RS256-only token verifier against this issuer, with the
// audience check skipped.
func (p *IdentityProvider) Verifier(t *testing.T) *oidc.IDTokenVerifier {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, p.Issuer())
	if err != nil {
		t.Fatalf("resolving fake identity provider: %v", err)
	}

	return provider.Verifier(&oidc.Config{
		SkipClientIDCheck:    true,
		SupportedSigningAlgs: []string{oidc.RS256},
	})
}

// SignToken mints an RS256 token with this provider's key. Issuer, issued-at
// and expiry claims are filled in unless the caller sets them.
func (p *IdentityProvider) SignToken(t *testing.T, claims jwt.MapClaims) string {
	return p.signWith(t, claims, p.Key, p.KeyID)
}

// SignTokenWithKey mints a token signed by a foreign key, for
// verification-failure tests.
func (p *IdentityProvider) SignTokenWithKey(t *testing.T, claims jwt.MapClaims, key *rsa.PrivateKey) string {
	return p.signWith(t, claims, key, p.KeyID)
}

func (p *IdentityProvider) signWith(t *testing.T, claims jwt.MapClaims, key *rsa.PrivateKey, kid string) string {
	if _, ok := claims["iss"]; !ok {
		claims["iss"] = p.Issuer()
	}
	if _, ok := claims["iat"]; !ok {
		claims["iat"] = time.Now().Unix()
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func (p *IdentityProvider) writeDiscovery(w http.ResponseWriter) {
	issuer := p.server.URL
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"issuer":                                issuer,
		"authorization_endpoint":                issuer + "/auth",
		"token_endpoint":                        issuer + "/token",
		"jwks_uri":                              issuer + "/keys",
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (p *IdentityProvider) writeJWKS(w http.ResponseWriter) {
	pub := p.Key.PublicKey
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"keys": []map[string]string{
			{
				"kty": "RSA",
				"use": "sig",
				"alg": "RS256",
				"kid": p.KeyID,
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	})
}

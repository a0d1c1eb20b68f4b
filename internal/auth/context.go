package auth

import "context"

type contextKey struct{}

var principalKey contextKey

// WithPrincipal stores the authenticated principal id in the context.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFrom returns the authenticated principal id set by the
// authorizer middleware.
func PrincipalFrom(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(principalKey).(string)
	if !ok || principal == "" {
		return "", false
	}
	return principal, true
}

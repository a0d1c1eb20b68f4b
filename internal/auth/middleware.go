package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Middleware authorizes every request before the handler runs: 401 when
// credentials are missing or fail verification, 403 on an explicit deny. On
// allow the resolved principal is stored in the request context.
func (a *Authorizer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		ident := r.Header.Get(IdentHeader)
		resource := r.Method + " " + r.URL.Path

		decision, err := a.Authorize(r.Context(), token, ident, resource)
		if err != nil {
			a.logger.Warn("request unauthorized", zap.String("resource", resource), zap.Error(err))
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
			return
		}

		if decision.Effect != EffectAllow {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "forbidden")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), decision.Principal)))
	})
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}

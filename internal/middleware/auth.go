package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/healthyduck/fitnessapi/internal/auth"
	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"
	"github.com/healthyduck/fitnessapi/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type identityProvider interface {
	TokenIdentity(ctx context.Context, token string) (*auth.Identity, error)
}

type AuthMiddlewareHandler struct {
	provider     identityProvider
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(provider identityProvider) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		provider: provider,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
		},
	}
}

// AuthCheck resolves the bearer token through the identity provider and
// stores the resolved identity in the request context. Handlers still
// compare the identity against the userId path segment themselves.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-bearer-token")
				return
			}

			identity, err := h.provider.TokenIdentity(ctx, token)
			if err != nil {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "token-check-failed")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(ctx, *identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

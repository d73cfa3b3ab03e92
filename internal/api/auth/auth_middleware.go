package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chakulahub/chakula-api/app/observability/metrics"
	"github.com/chakulahub/chakula-api/internal/api"
)

// Typed context key; the identity never travels as a bare string key.
type contextKey string

const identityKey contextKey = "authIdentity"

// IdentityFromContext returns the authenticated identity attached by the
// auth gate, or ok=false when the request is anonymous. This is the one way
// downstream handlers learn who is calling.
func IdentityFromContext(ctx context.Context) (*AuthenticatedIdentity, bool) {
	identity, ok := ctx.Value(identityKey).(*AuthenticatedIdentity)
	return identity, ok
}

// ContextWithIdentity attaches an identity the way the auth gate does.
func ContextWithIdentity(ctx context.Context, identity *AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return "", false
	}
	return headerParts[1], true
}

// resolveIdentity verifies the token and re-fetches the user so a deleted
// account is locked out even while its token is structurally valid.
func resolveIdentity(ctx context.Context, tokens TokenService, repo UserRepo, token string) (*AuthenticatedIdentity, error) {
	userID, err := tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.identity(), nil
}

// Authenticate is the mandatory auth gate. Requests without a verifiable
// bearer token belonging to an existing user are rejected; everything else
// proceeds with the identity attached to the request context.
func Authenticate(logger *slog.Logger, tokens TokenService, repo UserRepo, m *metrics.AppMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			token, ok := extractBearerToken(r)
			if !ok {
				l.WarnContext(ctx, "Missing or malformed Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgTokenRequired)
				return
			}

			identity, err := resolveIdentity(ctx, tokens, repo, token)
			if err != nil {
				if errors.Is(err, api.ErrNotFound) {
					// Token verified but its subject vanished: distinct
					// status from an invalid token.
					l.WarnContext(ctx, "Token subject no longer exists")
					api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgUserNotFound)
					return
				}
				if m != nil {
					m.TokenVerifyFailuresTotal.Add(ctx, 1)
				}
				l.WarnContext(ctx, "Token verification failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusForbidden, api.MsgTokenInvalid)
				return
			}

			ctx = ContextWithIdentity(ctx, identity)
			l.DebugContext(ctx, "Authentication successful", slog.Int64("userID", identity.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate attaches an identity when a valid token is presented
// and silently proceeds anonymous otherwise. For endpoints that adapt to the
// caller but must never hard-fail on absent or bad credentials.
func OptionalAuthenticate(logger *slog.Logger, tokens TokenService, repo UserRepo) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := extractBearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolveIdentity(ctx, tokens, repo, token)
			if err != nil {
				// Anonymous is a valid outcome here, so the error is not surfaced.
				logger.DebugContext(ctx, "Optional auth failed, proceeding anonymous", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, identity)))
		})
	}
}

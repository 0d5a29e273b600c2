package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/responseschema"
)

// SecurityScheme is the OpenAPI security scheme name for bearer tokens.
const SecurityScheme = "bearerAuth"

type userKey struct{}

// Middleware authenticates operations that declare a security requirement.
// Failures are answered with the API's error envelope: 401 with a
// WWW-Authenticate challenge, or 503 with Retry-After when signing keys cannot
// be fetched.
func Middleware(api huma.API, verifier Verifier) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}

		token, err := BearerToken(ctx.Header("Authorization"))
		if err == nil {
			var user *User
			user, err = verifier.Verify(ctx.Context(), token)
			if err == nil && user != nil {
				next(huma.WithValue(ctx, userKey{}, user))
				return
			}
			if err == nil {
				err = ErrInvalidToken
			}
		}

		logging.LogWarn(ctx.Context(), "authentication failed", zap.String("reason", reason(err)))
		_ = responseschema.WriteError(api, ctx, challenge(err))
	}
}

func challenge(err error) error {
	switch {
	case errors.Is(err, ErrCertificateFetch):
		return responseschema.NewHTTPError(http.StatusServiceUnavailable,
			"authentication service temporarily unavailable",
			responseschema.WithHeader("Retry-After", "30"))
	case errors.Is(err, ErrNoToken):
		return responseschema.Unauthorized("missing or invalid authorization header",
			responseschema.WithHeader("WWW-Authenticate", "Bearer"))
	default:
		return responseschema.Unauthorized("invalid or expired token",
			responseschema.WithHeader("WWW-Authenticate", `Bearer error="invalid_token"`))
	}
}

// reason is a log-safe category for err.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return "no_token"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenRevoked):
		return "token_revoked"
	case errors.Is(err, ErrUserDisabled):
		return "user_disabled"
	case errors.Is(err, ErrCertificateFetch):
		return "certificate_fetch_failed"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "unknown"
	}
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userKey{}).(*User)
	return user
}

// Security is the requirement to put on operations that need a user.
func Security() []map[string][]string {
	return []map[string][]string{{SecurityScheme: {}}}
}

// AddSecurityScheme documents the bearer scheme in api's OpenAPI.
func AddSecurityScheme(api huma.API) {
	components := api.OpenAPI().Components
	if components.SecuritySchemes == nil {
		components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	components.SecuritySchemes[SecurityScheme] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
}

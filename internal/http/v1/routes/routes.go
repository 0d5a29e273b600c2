// Package routes registers the v1 operations.
package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/huma-responseschema/internal/http/v1/hello"
	"github.com/janisto/huma-responseschema/internal/http/v1/items"
	"github.com/janisto/huma-responseschema/internal/http/v1/profile"
	"github.com/janisto/huma-responseschema/internal/platform/auth"
	"github.com/janisto/huma-responseschema/internal/platform/logging"
	profilesvc "github.com/janisto/huma-responseschema/internal/service/profile"
)

// Prefix is the path prefix of every v1 operation.
const Prefix = "/v1"

// Deps are the services behind the v1 operations. Profile operations are
// only registered when both Verifier and Profiles are set.
type Deps struct {
	Verifier auth.Verifier
	Profiles profilesvc.Store
}

// Register adds all v1 operations to api. Operations that declare a security
// requirement are authenticated with deps.Verifier.
func Register(api huma.API, deps Deps) {
	hello.Register(api, Prefix)
	items.Register(api, Prefix)

	if deps.Verifier == nil || deps.Profiles == nil {
		logging.Logger().Warn("profile routes disabled: no verifier or profile store configured")
		return
	}
	auth.AddSecurityScheme(api)
	api.UseMiddleware(auth.Middleware(api, deps.Verifier))
	profile.Register(api, deps.Profiles, Prefix)
}

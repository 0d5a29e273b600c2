// Package hello serves greetings. It shows the three handler result forms:
// a plain value, a value with response metadata, and a deferred value.
package hello

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/huma-responseschema/internal/api"
	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/responseschema"
)

// Register adds the hello operations under prefix.
func Register(a huma.API, prefix string) {
	responseschema.Register(a, huma.Operation{
		OperationID: "get-hello",
		Method:      http.MethodGet,
		Path:        prefix + "/hello",
		Summary:     "Say hello",
		Tags:        []string{"Hello"},
	}, func(ctx context.Context, _ *struct{}) (Greeting, error) {
		logging.LogInfo(ctx, "hello get")
		return Greeting{Message: "Hello, World!"}, nil
	})

	responseschema.Register(a, huma.Operation{
		OperationID:   "create-hello",
		Method:        http.MethodPost,
		Path:          prefix + "/hello",
		Summary:       "Create a personalized greeting",
		Tags:          []string{"Hello"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, in *CreateInput) (responseschema.Reply[Greeting], error) {
		logging.LogInfo(ctx, "hello post", zap.String("name", in.Body.Name))
		return responseschema.Respond(greet(in.Body.Name), responseschema.Metadata{
			responseschema.MetaDescription: "Greeting created",
			api.ExtraMessage:               "greeting created",
		}), nil
	}, responseschema.ResponseDescription("Greeting created"))

	responseschema.Register(a, huma.Operation{
		OperationID: "get-hello-name",
		Method:      http.MethodGet,
		Path:        prefix + "/hello/{name}",
		Summary:     "Greet by name",
		Tags:        []string{"Hello"},
	}, func(ctx context.Context, in *NameInput) (*responseschema.Future[Greeting], error) {
		return responseschema.Go(ctx, func(ctx context.Context) (Greeting, error) {
			if err := ctx.Err(); err != nil {
				return Greeting{}, err
			}
			return greet(in.Name), nil
		}), nil
	})
}

func greet(name string) Greeting {
	return Greeting{Message: fmt.Sprintf("Hello, %s!", name)}
}

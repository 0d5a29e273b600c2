// Package items serves a read-only catalogue with page-based pagination.
package items

import (
	"context"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/huma-responseschema/internal/api"
	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/responseschema"
	"github.com/janisto/huma-responseschema/responseschema/pagination"
)

// Register adds the item operations under prefix.
func Register(a huma.API, prefix string) {
	responseschema.Register(a, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        prefix + "/items",
		Summary:     "List items",
		Description: "Returns one page of the catalogue. Pagination links keep the category filter.",
		Tags:        []string{"Items"},
	}, list, responseschema.ResponseDescription("A page of items"))

	responseschema.Register(a, huma.Operation{
		OperationID: "get-item",
		Method:      http.MethodGet,
		Path:        prefix + "/items/{id}",
		Summary:     "Get an item",
		Tags:        []string{"Items"},
		Errors:      []int{http.StatusNotFound},
	}, get)
}

func list(ctx context.Context, in *ListInput) (pagination.Page[Item], error) {
	matching := catalogue
	if in.Category != "" {
		matching = slices.DeleteFunc(slices.Clone(catalogue), func(it Item) bool {
			return it.Category != in.Category
		})
	}
	page := pagination.Paginate(matching, in.Params)
	logging.LogInfo(ctx, "items listed",
		zap.String("category", in.Category),
		zap.Int("page", page.Params.Page),
		zap.Int("returned", len(page.Items)),
	)
	return page, nil
}

func get(_ context.Context, in *GetInput) (Item, error) {
	i := slices.IndexFunc(catalogue, func(it Item) bool { return it.ID == in.ID })
	if i < 0 {
		return Item{}, responseschema.NotFound("item not found",
			responseschema.WithExtra(api.ExtraMessage, "no item with id "+in.ID))
	}
	return catalogue[i], nil
}

package items

import "github.com/janisto/huma-responseschema/responseschema/pagination"

// ListInput holds the query of the list operation.
type ListInput struct {
	pagination.Params
	Category string `query:"category" doc:"Filter by category" example:"electronics" enum:"electronics,tools,accessories,robotics,power,components"`
}

// GetInput selects one item.
type GetInput struct {
	ID string `path:"id" doc:"Item identifier" example:"item-001" maxLength:"32"`
}

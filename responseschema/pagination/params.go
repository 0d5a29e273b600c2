// Package pagination adds page-based pagination to responseschema routes.
//
// Handlers declare [Page] as their result; a [Route] wraps it in the paged
// envelope family, which receives the items, the total and the navigation
// [Metadata] through [PagedSchema.Create].
package pagination

// Default and bound values for Params.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Params embeds into huma input structs for page-based pagination.
type Params struct {
	Page     int `query:"page"      doc:"Page number" default:"1"  minimum:"1"`
	PageSize int `query:"page_size" doc:"Page size"   default:"50" minimum:"1" maximum:"100"`
}

// Normalize returns p with out-of-range values replaced by defaults.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Limit is the page size as a raw limit.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Offset is the number of items before the page.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.PageSize * (n.Page - 1)
}

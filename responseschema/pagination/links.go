package pagination

import (
	"context"
	"net/url"
	"strconv"

	"github.com/janisto/huma-responseschema/responseschema"
)

// Links are relative references to neighbouring pages. Next and Prev are nil
// when there is no such page.
type Links struct {
	First string  `json:"first"          doc:"First page"`
	Last  string  `json:"last"           doc:"Last page"`
	Next  *string `json:"next,omitempty" doc:"Next page, absent on the last page"`
	Prev  *string `json:"prev,omitempty" doc:"Previous page, absent on the first page"`
}

// Metadata describes the position of a page within a collection.
type Metadata struct {
	Total    int   `json:"total"     doc:"Total number of items" minimum:"0"`
	PageSize int   `json:"page_size" doc:"Items per page"        minimum:"0"`
	Page     int   `json:"page"      doc:"Current page"          minimum:"1"`
	Links    Links `json:"links"`
}

// NewMetadata computes the metadata of the page selected by params. Links
// keep the path and the other query parameters of base; a nil base yields
// query-only references.
func NewMetadata(total int, params Params, base *url.URL) Metadata {
	params = params.Normalize()
	if total < 0 {
		total = 0
	}
	last := 1
	if total > 0 {
		last = (total + params.PageSize - 1) / params.PageSize
	}

	md := Metadata{
		Total:    total,
		PageSize: params.PageSize,
		Page:     params.Page,
		Links: Links{
			First: pageRef(base, 1),
			Last:  pageRef(base, last),
		},
	}
	if params.Page*params.PageSize < total {
		next := pageRef(base, params.Page+1)
		md.Links.Next = &next
	}
	if params.Page > 1 {
		prev := pageRef(base, params.Page-1)
		md.Links.Prev = &prev
	}
	return md
}

// MetadataFromContext is NewMetadata with the URL of the request in ctx.
func MetadataFromContext(ctx context.Context, total int, params Params) Metadata {
	base, _ := responseschema.RequestURL(ctx)
	return NewMetadata(total, params, base)
}

func pageRef(base *url.URL, page int) string {
	var (
		path  string
		query url.Values
	)
	if base != nil {
		path = base.Path
		query = cloneValues(base.Query())
	} else {
		query = make(url.Values)
	}
	query.Set("page", strconv.Itoa(page))
	return path + "?" + query.Encode()
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return make(url.Values)
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

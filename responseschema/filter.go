package responseschema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Filter selects the envelope fields written for a route. Paths are dotted
// JSON field names relative to the envelope, e.g. "data.name". A path that
// crosses an array applies to every element.
type Filter struct {
	Include     []string
	Exclude     []string
	ExcludeNone bool
}

func (f Filter) empty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0 && !f.ExcludeNone
}

// Apply returns v filtered as a generic JSON document, or v unchanged when
// the filter is empty.
func (f Filter) Apply(v any) (any, error) {
	if f.empty() {
		return v, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("responseschema: filter envelope: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("responseschema: filter envelope: %w", err)
	}
	if len(f.Include) > 0 {
		doc = pick(doc, newPathTree(f.Include))
	}
	if len(f.Exclude) > 0 {
		drop(doc, newPathTree(f.Exclude))
	}
	if f.ExcludeNone {
		dropNil(doc)
	}
	return doc, nil
}

// pathTree maps a field name to its selected children. A nil child selects
// the whole subtree.
type pathTree map[string]pathTree

func newPathTree(paths []string) pathTree {
	root := pathTree{}
	for _, p := range paths {
		node := root
		parts := strings.Split(p, ".")
		for i, part := range parts {
			child, ok := node[part]
			if i == len(parts)-1 {
				node[part] = nil
				break
			}
			if ok && child == nil {
				break
			}
			if !ok {
				child = pathTree{}
				node[part] = child
			}
			node = child
		}
	}
	return root
}

func pick(v any, tree pathTree) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tree))
		for k, sub := range tree {
			val, ok := t[k]
			if !ok {
				continue
			}
			if sub == nil {
				out[k] = val
			} else {
				out[k] = pick(val, sub)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = pick(e, tree)
		}
		return out
	default:
		return v
	}
}

func drop(v any, tree pathTree) {
	switch t := v.(type) {
	case map[string]any:
		for k, sub := range tree {
			if sub == nil {
				delete(t, k)
				continue
			}
			if val, ok := t[k]; ok {
				drop(val, sub)
			}
		}
	case []any:
		for _, e := range t {
			drop(e, tree)
		}
	}
}

func dropNil(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if val == nil {
				delete(t, k)
				continue
			}
			dropNil(val)
		}
	case []any:
		for _, e := range t {
			dropNil(e)
		}
	}
}

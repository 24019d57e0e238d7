// Package layer merges named configuration maps in priority order.
package layer

import (
	"sort"
	"strings"
)

// DeepMerge recursively merges src into dst and returns dst.
// Nested maps merge key by key; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = Clone(srcVal)
	}
	return dst
}

// Clone returns a deep copy of maps and slices inside v.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// GetByPath retrieves a value from a nested map using a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetByPath sets a value in a nested map using a dot-separated path,
// creating intermediate maps as needed. Non-map intermediates are replaced.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// Flatten returns the leaves of data keyed by dot-separated path.
func Flatten(data map[string]any) map[string]any {
	out := make(map[string]any)
	flatten(data, "", out)
	return out
}

func flatten(data map[string]any, prefix string, out map[string]any) {
	for key, val := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(nested, path, out)
			continue
		}
		out[path] = val
	}
}

// Changed returns the sorted leaf paths that were added, removed or
// modified between old and new.
func Changed(old, new map[string]any) []string {
	oldFlat := Flatten(old)
	newFlat := Flatten(new)

	var paths []string
	for path, newVal := range newFlat {
		oldVal, ok := oldFlat[path]
		if !ok || !equal(oldVal, newVal) {
			paths = append(paths, path)
		}
	}
	for path := range oldFlat {
		if _, ok := newFlat[path]; !ok {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func equal(a, b any) bool {
	switch va := a.(type) {
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !equal(va[i], vb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, item := range va {
			other, ok := vb[k]
			if !ok || !equal(item, other) {
				return false
			}
		}
		return true
	default:
		if _, ok := b.([]any); ok {
			return false
		}
		if _, ok := b.(map[string]any); ok {
			return false
		}
		return a == b
	}
}

// Package token resolves claims templates against session data and issues
// signed integration tokens.
package token

import (
	"fmt"
	"regexp"
	"strings"
)

// Template is a static claims template. String leaves may embed one or more
// {{dotted.path}} placeholders that are resolved against session data at
// issuance time. Arrays and nested objects are walked recursively.
type Template map[string]any

var placeholderRx = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Resolve walks doc one dotted-path segment at a time and returns the value
// reached, or nil when any segment is absent. Missing paths are not errors:
// templates may safely reference optional session fields. Array indices and
// brace escaping are not supported.
func Resolve(path string, doc map[string]any) any {
	var cur any = doc
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = obj[seg]
		if !ok {
			return nil
		}
	}
	return cur
}

// expand replaces every {{path}} occurrence in s with the string form of the
// resolved value, or the empty string when the path is absent.
func expand(s string, doc map[string]any) string {
	return placeholderRx.ReplaceAllStringFunc(s, func(m string) string {
		path := strings.TrimSpace(m[2 : len(m)-2])
		v := Resolve(path, doc)
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

// Merge produces a tree structurally identical to the template with every
// placeholder substituted from doc. Strings without placeholders and all
// non-string scalars pass through unchanged.
func (t Template) Merge(doc map[string]any) map[string]any {
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k] = mergeValue(v, doc)
	}
	return out
}

func mergeValue(v any, doc map[string]any) any {
	switch val := v.(type) {
	case string:
		if strings.Contains(val, "{{") {
			return expand(val, doc)
		}
		return val
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			switch it := item.(type) {
			case string:
				if strings.Contains(it, "{{") {
					out[i] = expand(it, doc)
				} else {
					out[i] = it
				}
			case map[string]any:
				out[i] = Template(it).Merge(doc)
			default:
				out[i] = it
			}
		}
		return out
	case map[string]any:
		return Template(val).Merge(doc)
	default:
		return v
	}
}

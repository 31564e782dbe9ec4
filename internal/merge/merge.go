// Package merge implements the recursive structural merge used to build
// augmented upstream request bodies from configuration fragments.
package merge

// Merge overlays src onto dst and returns dst. When both sides hold a
// nested object under the same key the objects are merged recursively;
// every other source value (scalars, arrays, objects replacing
// non-objects) replaces the target value entirely. Arrays are never
// concatenated.
//
// Merge mutates dst and may alias subtrees of src into it. Callers that
// reuse a fragment across requests must pass a DeepCopy of it.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		if srcObj, ok := value.(map[string]any); ok {
			if dstObj, ok := dst[key].(map[string]any); ok {
				dst[key] = Merge(dstObj, srcObj)
				continue
			}
		}
		dst[key] = value
	}
	return dst
}

// DeepCopy returns a copy of m that shares no mutable state with the
// original. Scalars are copied by value.
func DeepCopy(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = copyValue(value)
	}
	return out
}

func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return DeepCopy(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

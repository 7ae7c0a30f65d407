package config

// MergeMaps deep-merges src into dst. Nested maps are merged key by key; any
// other value in src replaces the one in dst. src is not retained.
func MergeMaps(dst, src map[string]any) {
	for k, v := range src {
		mv, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		if existing, ok := dst[k].(map[string]any); ok {
			MergeMaps(existing, mv)
			continue
		}
		dst[k] = cloneMap(mv)
	}
}

package common

// UnknownStr is rendered by enum String methods for out-of-range values.
const UnknownStr = "unknown"

// Dedup returns s without repeated elements, keeping the first occurrence of each.
func Dedup[S ~[]E, E comparable](s S) S {
	seen := make(map[E]struct{}, len(s))
	out := make(S, 0, len(s))

	for _, e := range s {
		if _, ok := seen[e]; ok {
			continue
		}

		seen[e] = struct{}{}
		out = append(out, e)
	}

	return out
}

package utils

func Any[T any](xs []T, pred func(T) bool) bool {
	for _, x := range xs {
		if pred(x) {
			return true
		}
	}
	return false
}

// Filter keeps the elements matching pred, in order. The result is never nil.
func Filter[T any](xs []T, pred func(T) bool) []T {
	result := []T{}
	for _, x := range xs {
		if pred(x) {
			result = append(result, x)
		}
	}
	return result
}

func Truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}

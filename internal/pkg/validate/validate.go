package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Merge returns the trimmed override when present, otherwise the current
// value. Used for full-document replacement where blank fields keep the
// stored value.
func Merge(current, override string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed
	}
	return current
}

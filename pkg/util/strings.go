package util

import "strings"

// NormalizeCode trims whitespace and upper-cases a user-supplied code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

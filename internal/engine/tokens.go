package engine

import "strings"

// IsOnToken reports whether a raw state channel value means "on".
// Upstream firmware is not consistent: units emit "1", "on", "true" or
// "1.0" depending on model and firmware version. Anything else is off.
func IsOnToken(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "on", "true", "1.0":
		return true
	default:
		return false
	}
}

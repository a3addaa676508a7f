package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var projectKeyRegex = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// NormalizeProjectKey uppercases a project key and checks that it has 2 to
// 10 letters or digits.
// - "core" -> "CORE"
// - " app2 " -> "APP2"
func NormalizeProjectKey(key string) (string, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if !projectKeyRegex.MatchString(key) {
		return "", fmt.Errorf("invalid project key %q. Use 2-10 letters or digits", key)
	}
	return key, nil
}

// IsValidProjectKey reports whether key normalizes cleanly.
func IsValidProjectKey(key string) bool {
	_, err := NormalizeProjectKey(key)
	return err == nil
}

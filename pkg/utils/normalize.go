package utils

import "strings"

// Normalize folds a free-text identifier (branch, course name) into its
// comparable form: trimmed and lower-cased. Branch and course matching is
// deliberately case-insensitive, so every comparison must go through here.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFold reports whether list contains s after normalization.
func ContainsFold(list []string, s string) bool {
	target := Normalize(s)
	for _, item := range list {
		if Normalize(item) == target {
			return true
		}
	}
	return false
}

// NormalizeEmail lowers and trims an email address for roster matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

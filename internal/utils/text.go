// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "unicode/utf8"

// TruncateRunes clips s to at most n runes, appending an ellipsis when
// anything was cut. n <= 0 returns s unchanged.
//
// Example:
//
//	utils.TruncateRunes("hello world", 5) // "hello…"
func TruncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

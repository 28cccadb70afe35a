package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips non-digits and prefixes the Ethiopian country code.
// e.g. "0911 234 567" -> "+251911234567", "911234567" -> "+251911234567".
// Numbers already carrying 251 keep it.
func NormalizePhone(input string) string {
	value := nonDigits.ReplaceAllString(input, "")
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "251") {
		return "+" + value
	}
	if strings.HasPrefix(value, "0") {
		return "+251" + value[1:]
	}
	return "+251" + value
}

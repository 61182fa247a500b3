package util

import "strings"

// SplitCommaSeparated splits a comma-separated string and trims whitespace from each element.
// Empty input returns nil.
func SplitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// identifierReplacer maps the separators found in interface designators to underscores.
var identifierReplacer = strings.NewReplacer(" ", "_", "-", "_", "/", "_")

// Identifier turns an interface designator into a map key:
// "1/0/3" -> "1_0_3", "1/g1" -> "1_g1", "ch-1" -> "ch_1".
func Identifier(designator string) string {
	return identifierReplacer.Replace(strings.TrimSpace(designator))
}

// Unquote strips one layer of matching single or double quotes.
// A lone leading or trailing quote is also removed, as exports sometimes
// truncate quoted text.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if q := s[0]; q == '\'' || q == '"' {
		s = s[1:]
		return strings.TrimSuffix(s, string(q))
	}
	return strings.TrimRight(s, `'"`)
}

// LeadingDigits returns the leading run of ASCII digits in s and the rest.
func LeadingDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// FirstRun returns the first maximal run of bytes in s satisfying pred.
func FirstRun(s string, pred func(byte) bool) string {
	start := -1
	for i := 0; i < len(s); i++ {
		if pred(s[i]) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			return s[start:i]
		}
	}
	if start < 0 {
		return ""
	}
	return s[start:]
}

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c byte) bool { return c >= '0' && c <= '9' }

// IsLetter reports whether c is an ASCII letter.
func IsLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

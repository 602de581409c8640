package header

import "strings"

// Sanitize makes name usable as a bare SQL identifier: every rune outside
// [A-Za-z0-9_] becomes '_'. A leading digit gets a COL_ prefix, or col_ when
// upper is false so case-preserving names stay consistent.
func Sanitize(name string, upper bool) string {
	name = strings.Map(identRune, name)
	if name == "" || name[0] < '0' || name[0] > '9' {
		return name
	}
	if upper {
		return "COL_" + name
	}
	return "col_" + name
}

func identRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return r
	}
	return '_'
}

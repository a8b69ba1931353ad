package placeholder

import "strings"

// Sanitize elimina todo carácter fuera de la lista blanca de XML 1.0:
// tab, LF, CR, [0x20,0xD7FF], [0xE000,0xFFFD] y [0x10000,0x10FFFF].
// Los bytes UTF-8 inválidos se convierten en U+FFFD.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if allowedRune(r) {
			return r
		}
		return -1
	}, s)
}

func allowedRune(r rune) bool {
	switch {
	case r == 0x9, r == 0xA, r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

package bgformat

import (
	"strings"
	"unicode"
)

// FormatPhone 0888728005 → "0888/728-005", 028705657 → "02/870-5657";
// otros números de más de 6 dígitos → "prefijo/xxx-xxx". Si no, se devuelve tal cual.
func FormatPhone(phone string) string {
	if phone == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	switch {
	case d == "":
		return phone
	case len(d) == 10 && strings.HasPrefix(d, "08"):
		return d[:4] + "/" + d[4:7] + "-" + d[7:]
	case len(d) == 9 && strings.HasPrefix(d, "02"):
		return d[:2] + "/" + d[2:5] + "-" + d[5:]
	case len(d) > 6:
		n := len(d)
		return d[:n-6] + "/" + d[n-6:n-3] + "-" + d[n-3:]
	}
	return phone
}

// SafeFileName conserva letras, dígitos, espacio, '-' y '_'.
func SafeFileName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

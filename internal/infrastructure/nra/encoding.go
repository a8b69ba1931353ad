package nra

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// substitute byte para runas que no existen en Windows-1251.
const substitute = '?'

// EncodeWindows1251 codifica s en Windows-1251; cada runa produce exactamente un byte
// y las no representables se sustituyen por '?'.
func EncodeWindows1251(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1251.EncodeRune(r)
		if !ok {
			b = substitute
		}
		out = append(out, b)
	}
	return out
}

// textField campo de texto de ancho fijo medido en runas: sin CR/LF, alineado a la
// izquierda, relleno con espacios y truncado si sobra.
func textField(s string, width int) string {
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	rs := []rune(s)
	if len(rs) >= width {
		return string(rs[:width])
	}
	return s + strings.Repeat(" ", width-len(rs))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "---"
	}
	return s
}

func spaces(n int) string { return strings.Repeat(" ", n) }

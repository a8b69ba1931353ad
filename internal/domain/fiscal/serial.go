package fiscal

import "strings"

// Transliteración de letras cirílicas a su equivalente latino para números de serie.
var cyrillicToLatin = map[rune]string{
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E", 'Ж': "ZH",
	'З': "Z", 'И': "I", 'Й': "Y", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N",
	'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T", 'У': "U", 'Ф': "F",
	'Х': "X", 'Ц': "TS", 'Ч': "CH", 'Ш': "SH", 'Щ': "SHT", 'Ъ': "A", 'Ь': "Y",
	'Ю': "YU", 'Я': "YA",
}

// Transliterate pasa a mayúsculas, translitera el cirílico y elimina espacios.
func Transliterate(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if lat, ok := cyrillicToLatin[r]; ok {
			b.WriteString(lat)
			continue
		}
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SerialField serial de 8 caracteres para el registro 08: dos letras latinas
// (relleno con 'X') seguidas de 6 dígitos. El resultado siempre cumple [A-Z]{2}[0-9]{6}.
func SerialField(serial string) string {
	s := Transliterate(TrimFloatSuffix(serial))

	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	prefix, digits := s[:i], DigitsOnly(s[i:])

	switch {
	case len(prefix) > 2:
		prefix = prefix[:2]
	case len(prefix) < 2:
		prefix += strings.Repeat("X", 2-len(prefix))
	}
	if len(digits) > 6 {
		digits = digits[:6]
	} else {
		digits = strings.Repeat("0", 6-len(digits)) + digits
	}
	return prefix + digits
}

package fiscal

import "strings"

// TrimFloatSuffix quita el ".0" que dejan las celdas numéricas importadas de Excel.
func TrimFloatSuffix(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, ".0")
}

// DigitsOnly conserva solo los dígitos ASCII.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NumericField campo numérico de ancho fijo: ceros a la izquierda y, si sobran
// dígitos, se conservan los width de la derecha. Sin dígitos → todo ceros.
func NumericField(s string, width int) string {
	return padDigits(DigitsOnly(TrimFloatSuffix(s)), width)
}

// CleanEIK normaliza un ЕИК: la "О" cirílica y la "O" latina (errores de tipeo
// frecuentes) pasan a "0", se descartan los no dígitos y se ajusta a width.
func CleanEIK(s string, width int) string {
	s = strings.ToUpper(TrimFloatSuffix(s))
	s = strings.NewReplacer("О", "0", "O", "0").Replace(s)
	return padDigits(DigitsOnly(s), width)
}

func padDigits(digits string, width int) string {
	if len(digits) >= width {
		return digits[len(digits)-width:]
	}
	return strings.Repeat("0", width-len(digits)) + digits
}

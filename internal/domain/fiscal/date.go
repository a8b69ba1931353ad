// Package fiscal reglas de formato de campos para documentos y reportes de
// dispositivos fiscales (Наредба Н-18): fechas, números, ЕИК y seriales.
package fiscal

import (
	"strconv"
	"strings"
	"time"
)

// Formatos de fecha usados en los datos heredados y en el reporte NRA.
const (
	LayoutISO = "2006-01-02"
	LayoutBG  = "02.01.2006"
)

// ParseISODate interpreta "YYYY-MM-DD" (se tolera un sufijo de hora " HH:MM:SS" o "THH:MM:SS").
// Devuelve ok=false si el valor está vacío o malformado: la fecha se considera ausente.
func ParseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(LayoutISO) && (s[len(LayoutISO)] == ' ' || s[len(LayoutISO)] == 'T') {
		s = s[:len(LayoutISO)]
	}
	t, err := time.ParseInLocation(LayoutISO, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseBGDate interpreta "DD.MM.YYYY".
func ParseBGDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(LayoutBG, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseCertificateDate acepta ISO o "DD.MM.YYYY".
func ParseCertificateDate(s string) (time.Time, bool) {
	if t, ok := ParseISODate(s); ok {
		return t, true
	}
	return ParseBGDate(s)
}

// ParseReportMonth interpreta el mes de reporte "MM.YYYY".
func ParseReportMonth(s string) (time.Month, int, bool) {
	mm, yyyy, found := strings.Cut(strings.TrimSpace(s), ".")
	if !found {
		return 0, 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(yyyy)
	if err != nil || len(yyyy) != 4 {
		return 0, 0, false
	}
	return time.Month(m), y, true
}

// SameDay compara solo año, mes y día.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

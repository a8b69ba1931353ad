package bgformat

import (
	"strings"
	"unicode"
)

// Términos que se mantienen en mayúsculas al pasar a Title Case.
var upperTerms = map[string]bool{
	"ЕООД": true, "ООД": true, "АД": true, "ЕТ": true, "ЕИК": true,
	"ДДС": true, "ЗДДС": true, "Д": true, "И": true,
}

// Formas jurídicas en orden de prioridad de búsqueda.
var legalForms = []string{"ЕООД", "ООД", "АД"}

// TitleCase convierte un texto TODO EN MAYÚSCULAS a Title Case, manteniendo las
// formas jurídicas y abreviaturas. Si el texto ya tiene minúsculas se devuelve igual.
func TitleCase(s string) string {
	if s == "" {
		return ""
	}
	for _, r := range s {
		if unicode.IsLower(r) {
			return s
		}
	}
	words := strings.Fields(s)
	for i, w := range words {
		if upperTerms[lettersOnly(strings.ToUpper(w))] {
			words[i] = strings.ToUpper(w)
			continue
		}
		parts := strings.Split(w, "-")
		for j, p := range parts {
			parts[j] = capitalize(p)
		}
		words[i] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}

// CompanyName normaliza el nombre: `"Име" ЕООД`, `"Име" ООД`, `"Име" АД` o `ЕТ "Име"`.
func CompanyName(name string) string {
	name = TitleCase(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	name = strings.NewReplacer(`"`, "", "„", "", "“", "", "”", "").Replace(name)

	var kept []string
	isET, form := false, ""
	for _, tok := range strings.Fields(name) {
		core := strings.ToUpper(strings.Trim(tok, "-.,"))
		switch {
		case core == "ЕТ":
			isET = true
			continue
		case form == "" && isLegalForm(core):
			form = core
			continue
		case strings.Trim(tok, "-") == "":
			continue
		}
		kept = append(kept, tok)
	}
	clean := strings.Trim(strings.Join(kept, " "), " -")
	if isET {
		clean = strings.Join(strings.Fields(strings.ReplaceAll(clean, "-", " ")), " ")
		return `ЕТ "` + clean + `"`
	}
	if form != "" {
		return `"` + clean + `" ` + form
	}
	return `"` + clean + `"`
}

func isLegalForm(s string) bool {
	for _, f := range legalForms {
		if s == f {
			return true
		}
	}
	return false
}

func lettersOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'А' && r <= 'Я') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func capitalize(s string) string {
	rs := []rune(strings.ToLower(s))
	if len(rs) == 0 {
		return s
	}
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

package placeholder

import "strings"

// ReplaceInParagraph sustituye placeholder por replacement dentro del párrafo.
// Con once=true solo se reemplaza la primera aparición.
//
// Primero intenta el reemplazo dentro de un único run; si el marcador está partido
// entre runs, escribe el texto completo resultante en el primer run y vacía el resto.
// Nunca se eliminan runs. Devuelve true si el párrafo cambió.
func ReplaceInParagraph(p Paragraph, placeholder, replacement string, once bool) bool {
	if placeholder == "" {
		return false
	}
	full := p.Text()
	if !strings.Contains(full, placeholder) {
		return false
	}
	replacement = Sanitize(replacement)
	runs := p.Runs()

	if once {
		for _, r := range runs {
			if t := r.Text(); strings.Contains(t, placeholder) {
				r.SetText(strings.Replace(t, placeholder, replacement, 1))
				return true
			}
		}
	} else if countInRuns(runs, placeholder) == strings.Count(full, placeholder) {
		// Todas las apariciones están completas dentro de algún run.
		for _, r := range runs {
			if t := r.Text(); strings.Contains(t, placeholder) {
				r.SetText(strings.ReplaceAll(t, placeholder, replacement))
			}
		}
		return true
	}

	return mergeReplace(runs, full, placeholder, replacement, once)
}

// mergeReplace reemplazo seguro para marcadores partidos entre runs.
func mergeReplace(runs []Run, full, placeholder, replacement string, once bool) bool {
	if len(runs) == 0 {
		return false
	}
	n := -1
	if once {
		n = 1
	}
	merged := strings.Replace(full, placeholder, replacement, n)
	if merged == full {
		return false
	}
	runs[0].SetText(merged)
	for _, r := range runs[1:] {
		r.SetText("")
	}
	return true
}

func countInRuns(runs []Run, placeholder string) int {
	n := 0
	for _, r := range runs {
		n += strings.Count(r.Text(), placeholder)
	}
	return n
}

// ReplaceEverywhereOnce reemplaza la primera aparición en orden de documento
// (párrafos de primer nivel, luego celdas de tablas). Devuelve si hubo reemplazo.
func ReplaceEverywhereOnce(doc Document, placeholder, replacement string) bool {
	found := false
	walk(doc, func(p Paragraph) bool {
		if ReplaceInParagraph(p, placeholder, replacement, true) {
			found = true
			return false
		}
		return true
	})
	return found
}

// ReplaceEverywhereAll reemplaza todas las apariciones en todo el documento.
// Un marcador ausente no es error: simplemente devuelve false.
func ReplaceEverywhereAll(doc Document, placeholder, replacement string) bool {
	found := false
	walk(doc, func(p Paragraph) bool {
		if ReplaceInParagraph(p, placeholder, replacement, false) {
			found = true
		}
		return true
	})
	return found
}

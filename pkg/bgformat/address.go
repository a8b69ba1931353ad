package bgformat

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	cityRe       = regexp.MustCompile(`(?i)(?:гр\.|с\.|град|село)\.?\s*([\p{L}\d\-]{2,}(?:\s+[\p{L}\d\-]+)*)`)
	cityCutRe    = regexp.MustCompile(`(?i)\s+(?:обл\.|р-н|район)`)
	cityTailRe   = regexp.MustCompile(`\s+\d{4}$`)
	postalRe     = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)
	districtRe   = regexp.MustCompile(`(?i)(?:р-н|район)\.?\s*([\p{L}\d\-\s]+?)(?:[,;.]|ж\.к\.|кв\.|ул\.|бул\.|№|\d{4}|$)`)
	cityTokenRe  = regexp.MustCompile(`(?i)(?:гр\.|град|село|с\.)\.?\s*[\p{L}\d\-]+`)
	postalTokRe  = regexp.MustCompile(`(?i)(?:п\.к\.|пк)?\s*\b\d{4}\b`)
	regionRe     = regexp.MustCompile(`(?i)обл\.\s*[\p{L}\-]+`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	multiSepRe   = regexp.MustCompile(`[,;]\s*[,;]`)
)

// Address dirección búlgara descompuesta.
type Address struct {
	City       string
	PostalCode string
	District   string
}

// ParseAddress extrae ciudad, código postal y distrito ("р-н") de una dirección libre.
func ParseAddress(s string) Address {
	var a Address
	if s == "" {
		return a
	}
	if m := cityRe.FindStringSubmatch(s); m != nil {
		city := strings.TrimSpace(m[1])
		if loc := cityCutRe.FindStringIndex(city); loc != nil {
			city = city[:loc[0]]
		}
		if i := strings.IndexAny(city, ",;"); i >= 0 {
			city = city[:i]
		}
		a.City = strings.TrimSpace(cityTailRe.ReplaceAllString(strings.TrimSpace(city), ""))
	}
	if m := postalRe.FindStringSubmatch(s); m != nil {
		a.PostalCode = m[1]
	}
	if m := districtRe.FindStringSubmatch(s); m != nil {
		a.District = strings.TrimSpace(m[1])
	}
	return a
}

// CleanAddress quita ciudad, región y código postal de la dirección y antepone el distrito.
func CleanAddress(s, district string) string {
	if s == "" {
		return ""
	}
	if district == "" {
		district = ParseAddress(s).District
	}
	out := regionRe.ReplaceAllString(s, "")
	out = cityTokenRe.ReplaceAllString(out, "")
	out = postalTokRe.ReplaceAllString(out, "")
	out = removeDistricts(out)

	var segs []string
	for _, seg := range strings.FieldsFunc(out, func(r rune) bool { return r == ',' || r == ';' }) {
		if seg = strings.TrimSpace(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	out = strings.Join(segs, ", ")
	out = strings.ReplaceAll(out, "№", "No ")
	out = multiSepRe.ReplaceAllString(out, ", ")
	out = multiSpaceRe.ReplaceAllString(out, " ")
	out = strings.Trim(out, " ,;.")

	if !hasLower(out) {
		out = TitleCase(out)
	}
	if district != "" {
		d := "р-н " + TitleCase(district)
		if out == "" {
			return d
		}
		return d + ", " + out
	}
	return out
}

// removeDistricts elimina "р-н Име" conservando el terminador (",", "ул.", ...).
func removeDistricts(s string) string {
	var b strings.Builder
	last := 0
	for _, m := range districtRe.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:m[0]])
		last = m[3]
	}
	b.WriteString(s[last:])
	return b.String()
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

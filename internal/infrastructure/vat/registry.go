package vat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Códigos de campo del Търговски регистър.
const (
	fieldName          = "CR_F_2_L"
	fieldLegalFormLong = "CR_F_3_L"
	fieldLegalForm     = "CR_F_4_L"
	fieldAddress       = "CR_F_5_L"
	fieldManagers      = "CR_F_7_L"
)

var longLegalForms = []struct{ long, short string }{
	{"ЕДНОЛИЧНО ДРУЖЕСТВО С ОГРАНИЧЕНА ОТГОВОРНОСТ", "ЕООД"},
	{"ДРУЖЕСТВО С ОГРАНИЧЕНА ОТГОВОРНОСТ", "ООД"},
	{"АКЦИОНЕРНО ДРУЖЕСТВО", "АД"},
	{"ЕДНОЛИЧЕН ТЪРГОВЕЦ", "ЕТ"},
}

var countrySuffixRe = regexp.MustCompile(`(?i),?\s*(?:Country|Държава):.*$`)

// RegistryResult datos del registro mercantil.
type RegistryResult struct {
	Name    string
	MOL     string
	Address string
}

type deed struct {
	CompanyName string `json:"companyName"`
	LegalForm   *struct {
		Name string `json:"name"`
	} `json:"legalForm"`
	Sections []struct {
		SubDeeds []struct {
			Groups []struct {
				Fields []struct {
					NameCode string `json:"nameCode"`
					HTMLData string `json:"htmlData"`
				} `json:"fields"`
			} `json:"groups"`
		} `json:"subDeeds"`
	} `json:"sections"`
}

// RegistryClient cliente JSON del portal de la Агенция по вписванията.
type RegistryClient struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewRegistryClient baseURL termina en ".../CR/api/Deeds".
func NewRegistryClient(baseURL string, httpClient *http.Client) *RegistryClient {
	return &RegistryClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient, now: time.Now}
}

// Lookup devuelve (nil, nil) si el registro responde distinto de 200.
func (c *RegistryClient) Lookup(ctx context.Context, eik string) (*RegistryResult, error) {
	q := url.Values{}
	q.Set("entryDate", c.now().UTC().Format("2006-01-02T15:04:05.999Z"))
	q.Set("loadFieldsFromAllLegalForms", "false")
	endpoint := c.baseURL + "/" + url.PathEscape(eik) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("registro: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registro: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var d deed
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&d); err != nil {
		return nil, fmt.Errorf("registro: decodificar JSON: %w", err)
	}
	return d.result(), nil
}

func (d *deed) result() *RegistryResult {
	res := &RegistryResult{Name: d.CompanyName}
	legalForm := ""
	if d.LegalForm != nil {
		legalForm = d.LegalForm.Name
	}
	if legalForm != "" && !strings.Contains(res.Name, legalForm) {
		res.Name = strings.TrimSpace(res.Name + " " + legalForm)
	}

	for _, s := range d.Sections {
		for _, sd := range s.SubDeeds {
			for _, g := range sd.Groups {
				for _, f := range g.Fields {
					text := htmlText(f.HTMLData)
					switch f.NameCode {
					case fieldManagers:
						if res.MOL == "" {
							res.MOL = text
						} else if !strings.Contains(res.MOL, text) {
							res.MOL += "; " + text
						}
					case fieldAddress:
						res.Address = text
					case fieldName:
						res.Name = preferName(res.Name, text)
					case fieldLegalFormLong:
						up := strings.ToUpper(text)
						for _, lf := range longLegalForms {
							if strings.Contains(up, lf.long) {
								legalForm = lf.short
								break
							}
						}
					case fieldLegalForm:
						up := strings.ToUpper(text)
						if legalForm == "" && (up == "ЕООД" || up == "ООД" || up == "ЕТ" || up == "АД") {
							legalForm = up
						}
					}
				}
			}
		}
	}

	if legalForm != "" && !strings.Contains(strings.ToUpper(res.Name), strings.ToUpper(legalForm)) {
		res.Name = strings.TrimSpace(res.Name + " " + legalForm)
	}
	res.MOL = strings.TrimSpace(countrySuffixRe.ReplaceAllString(res.MOL, ""))
	return res
}

// preferName el nombre con forma jurídica, o el más largo si el actual no la tiene.
func preferName(current, candidate string) string {
	hasForm := func(s string) bool {
		up := strings.ToUpper(s)
		return strings.Contains(up, "ООД") || strings.Contains(up, "ЕООД")
	}
	up := strings.ToUpper(candidate)
	candidateForm := hasForm(candidate) || strings.Contains(up, "ЕТ") || strings.Contains(up, "АД")
	switch {
	case current == "":
		return candidate
	case candidateForm && !hasForm(current):
		return candidate
	case len([]rune(candidate)) > len([]rune(current)) && !hasForm(current):
		return candidate
	}
	return current
}

// htmlText texto plano de un fragmento HTML con los espacios normalizados.
func htmlText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		default:
			b.WriteByte(' ')
		}
	}
}

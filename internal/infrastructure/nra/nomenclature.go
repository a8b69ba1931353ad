package nra

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
)

// Columnas de FU.csv.
const (
	colCert     = 0
	colApproval = 1
	colModel    = 2
	colActive   = 7
	minColumns  = 8
)

// Entry modelo aprobado de dispositivo fiscal en la nomenclatura de la NAP.
type Entry struct {
	Certificate  string
	Model        string
	Active       bool
	ApprovalDate string // "DD.MM.YYYY" o vacío
}

// Nomenclature entradas agrupadas por certificado base (lo anterior al primer '.').
// Es de solo lectura después de cargarla.
type Nomenclature struct {
	groups map[string][]Entry
	order  []string // orden de aparición de las bases en el archivo
}

// NewNomenclature construye la tabla a partir de entradas ya leídas.
func NewNomenclature(entries []Entry) *Nomenclature {
	n := &Nomenclature{groups: make(map[string][]Entry)}
	for _, e := range entries {
		n.add(e)
	}
	return n
}

func (n *Nomenclature) add(e Entry) {
	base := baseCertificate(e.Certificate)
	if _, ok := n.groups[base]; !ok {
		n.order = append(n.order, base)
	}
	n.groups[base] = append(n.groups[base], e)
}

// Len cantidad total de entradas.
func (n *Nomenclature) Len() int {
	total := 0
	for _, g := range n.groups {
		total += len(g)
	}
	return total
}

// LoadNomenclatureFile carga FU.csv. encodingLabel es una etiqueta WHATWG
// ("utf-8", "windows-1251", ...); vacío equivale a UTF-8.
func LoadNomenclatureFile(path, encodingLabel string) (*Nomenclature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nomenclatura: abrir %s: %w", path, err)
	}
	defer f.Close()
	return LoadNomenclature(f, encodingLabel)
}

// LoadNomenclature lee filas CSV: [0] certificado, [1] "YYYY-MM-DD HH:MM:SS",
// [2] modelo, [7] "ДА" si está activo. Las filas malformadas se descartan.
func LoadNomenclature(r io.Reader, encodingLabel string) (*Nomenclature, error) {
	if encodingLabel == "" {
		encodingLabel = "utf-8"
	}
	decoded, err := charset.NewReaderLabel(encodingLabel, r)
	if err != nil {
		return nil, fmt.Errorf("nomenclatura: codificación %q: %w", encodingLabel, err)
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	n := &Nomenclature{groups: make(map[string][]Entry)}
	first := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				continue
			}
			return nil, fmt.Errorf("nomenclatura: leer CSV: %w", err)
		}
		if first && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], "\ufeff")
			first = false
		}
		if len(row) < minColumns {
			continue
		}
		e := Entry{
			Certificate:  strings.TrimSpace(row[colCert]),
			Model:        strings.TrimSpace(row[colModel]),
			Active:       strings.EqualFold(strings.TrimSpace(row[colActive]), "ДА"),
			ApprovalDate: approvalDate(row[colApproval]),
		}
		if e.Certificate == "" || e.Model == "" {
			continue
		}
		n.add(e)
	}
	return n, nil
}

// Match resuelve el certificado y modelo de un dispositivo:
//  1. coincidencia exacta del certificado dentro de su grupo base;
//  2. mejor entrada del grupo (activa primero, luego certificado mayor);
//  3. búsqueda por modelo (subcadena en ambos sentidos, sin distinguir mayúsculas),
//     devolviendo la mejor entrada del grupo encontrado.
//
// ok=false significa que el dispositivo no está aprobado para el reporte.
func (n *Nomenclature) Match(certificate, model string) (Entry, bool) {
	if n == nil {
		return Entry{}, false
	}
	certificate = strings.TrimSpace(certificate)
	if base := baseCertificate(certificate); base != "" {
		if group, ok := n.groups[base]; ok {
			for _, e := range group {
				if e.Certificate == certificate {
					return e, true
				}
			}
			return best(group), true
		}
	}

	// La subcadena en ambos sentidos puede emparejar modelos más cortos contenidos
	// en otros más largos; ver DESIGN.md.
	m := strings.ToLower(strings.TrimSpace(model))
	if m == "" || m == "---" {
		return Entry{}, false
	}
	for _, base := range n.order {
		group := n.groups[base]
		for _, e := range group {
			known := strings.ToLower(e.Model)
			if strings.Contains(known, m) || strings.Contains(m, known) {
				return best(group), true
			}
		}
	}
	return Entry{}, false
}

// best activa primero y, a igualdad, el certificado mayor (comparación de texto).
func best(group []Entry) Entry {
	sorted := make([]Entry, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Active != sorted[j].Active {
			return sorted[i].Active
		}
		return sorted[i].Certificate > sorted[j].Certificate
	})
	return sorted[0]
}

func baseCertificate(cert string) string {
	base, _, _ := strings.Cut(strings.TrimSpace(cert), ".")
	return base
}

func approvalDate(raw string) string {
	day, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
	t, ok := fiscal.ParseISODate(day)
	if !ok {
		return ""
	}
	return t.Format(fiscal.LayoutBG)
}

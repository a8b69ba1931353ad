// Package pdf genera справки en PDF con Maroto v2.
//
// Layout de la página A4 apaisada:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO: Справка за изтичащи договори - MM.YYYY              │
//	│  Empresa de servicio + fecha de emisión                      │
//	│  Notas (fecha, tipo de cambio), si las hay                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: encabezado azul, filas alternadas                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de filas                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 54, Green: 96, Blue: 146} // #366092
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 235, Green: 235, Blue: 235}
)

// customFamily nombre con el que se registra la fuente TTF configurada.
const customFamily = "report"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reports.TableExporter usando Maroto v2.
type MarotoPDFGenerator struct {
	fontPath string
	issuer   string
	now      func() time.Time
}

// NewMarotoPDFGenerator construye el generador. fontPath apunta a una fuente TTF
// con cirílico; vacío usa helvetica, que no cubre el alfabeto búlgaro.
func NewMarotoPDFGenerator(fontPath, issuer string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{fontPath: fontPath, issuer: issuer, now: time.Now}
}

// Export genera el PDF de la tabla y devuelve sus bytes.
func (g *MarotoPDFGenerator) Export(_ context.Context, table *dto.ReportTable) ([]byte, error) {
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(15).WithBottomMargin(15).
		WithTitle(table.Title, true).
		WithAuthor(g.issuer, true)

	family := "helvetica"
	if g.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFamily, fontstyle.Normal, g.fontPath).
			AddUTF8Font(customFamily, fontstyle.Bold, g.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente %s: %w", g.fontPath, err)
		}
		builder = builder.WithCustomFonts(fonts)
		family = customFamily
	}
	builder = builder.WithDefaultFont(&props.Font{Family: family, Size: 9})

	m := maroto.New(builder.Build())

	m.AddRows(titleRow(table.Title, family))
	m.AddRows(issuerRow(g.issuer, g.now(), family))
	for _, note := range table.Notes {
		m.AddRows(noteRow(note, family))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	sizes := columnSizes(len(table.Headers))
	m.AddRows(tableHeaderRow(table.Headers, sizes, family))
	m.AddRows(tableBodyRows(table.Rows, sizes, family)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(table.Rows), family))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow(title, family string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(text.New(title, props.Text{
			Family: family, Style: fontstyle.Bold, Size: 16,
			Align: align.Center, Color: colorPrimary, Top: 2,
		})),
	)
}

func issuerRow(issuer string, now time.Time, family string) core.Row {
	return row.New(8).Add(
		col.New(8).Add(text.New(issuer, props.Text{
			Family: family, Size: 9, Color: colorGray, Top: 2,
		})),
		col.New(4).Add(text.New(now.Format("02.01.2006 15:04"), props.Text{
			Family: family, Size: 9, Align: align.Right, Color: colorGray, Top: 2,
		})),
	)
}

func noteRow(note, family string) core.Row {
	return row.New(6).Add(col.New(12).Add(text.New(note, props.Text{
		Family: family, Size: 9, Align: align.Center, Top: 1,
	})))
}

// tableHeaderRow: cabecera con fondo azul y texto blanco.
func tableHeaderRow(headers []string, sizes []int, family string) core.Row {
	cols := make([]core.Col, len(headers))
	for i, h := range headers {
		cols[i] = col.New(sizes[i]).Add(text.New(h, props.Text{
			Family: family, Style: fontstyle.Bold, Size: 10,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(9).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableBodyRows: una fila por registro, con fondo alternado.
func tableBodyRows(rows [][]string, sizes []int, family string) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for n, values := range rows {
		cols := make([]core.Col, len(sizes))
		for i := range sizes {
			v := ""
			if i < len(values) {
				v = values[i]
			}
			cols[i] = col.New(sizes[i]).Add(text.New(v, props.Text{
				Family: family, Size: 9, Top: 1.5, Left: 1, Right: 1,
			}))
		}
		r := row.New(7).Add(cols...)
		if n%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

func footerRow(total int, family string) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(
		fmt.Sprintf("Общо: %d", total),
		props.Text{Family: family, Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2},
	)))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnSizes reparte la grilla de 12 columnas. La справка de 7 columnas usa un
// reparto fijo que favorece el nombre de la firma.
func columnSizes(n int) []int {
	if n == 7 {
		return []int{1, 3, 2, 2, 1, 1, 2}
	}
	if n <= 0 {
		return nil
	}
	sizes := make([]int, n)
	base, rest := 12/n, 12%n
	for i := range sizes {
		sizes[i] = max(base, 1)
		if i < rest {
			sizes[i]++
		}
	}
	return sizes
}

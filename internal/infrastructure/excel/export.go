package excel

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
)

// ReportSheet nombre de la hoja exportada.
const ReportSheet = "Справка"

const maxColumnWidth = 50

// Exporter genera tablas de reporte como .xlsx.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export genera el .xlsx de la tabla: encabezado azul con fuente blanca en negrita y
// ancho de columna min(largo máximo + 2, 50).
func (e *Exporter) Export(_ context.Context, table *dto.ReportTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo de encabezado: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo de datos: %w", err)
	}

	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellStr(ReportSheet, cell, h)
		f.SetCellStyle(ReportSheet, cell, cell, headerStyle)
		widths[i] = utf8.RuneCountInString(h)
	}

	for r, values := range table.Rows {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellStr(ReportSheet, cell, v)
			f.SetCellStyle(ReportSheet, cell, cell, bodyStyle)
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(v))
			}
		}
	}

	for i, width := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(ReportSheet, name, name, float64(min(width+2, maxColumnWidth)))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

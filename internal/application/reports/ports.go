package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/domain"
)

// TableExporter serializa una справка tabular (XLSX con excelize, DOCX con etree, PDF con maroto).
type TableExporter interface {
	Export(ctx context.Context, table *dto.ReportTable) ([]byte, error)
}

// Exporters exportadores por formato; un campo nil deshabilita ese formato.
type Exporters struct {
	XLSX TableExporter
	DOCX TableExporter
	PDF  TableExporter
}

// ByFormat índice por nombre de formato, sin los nil.
func (e Exporters) ByFormat() map[string]TableExporter {
	out := make(map[string]TableExporter, 3)
	for format, exp := range map[string]TableExporter{FormatXLSX: e.XLSX, FormatDOCX: e.DOCX, FormatPDF: e.PDF} {
		if exp != nil {
			out[format] = exp
		}
	}
	return out
}

// NormalizeFormat minúsculas y sin espacios.
func NormalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// Lookup exportador del formato o ErrInvalidInput si no está configurado.
func Lookup(exporters map[string]TableExporter, format string) (TableExporter, error) {
	exp, ok := exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, format)
	}
	return exp, nil
}

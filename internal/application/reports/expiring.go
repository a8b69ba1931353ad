// Package reports справки del registro: contratos por vencer y panel de resumen.
package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// Formatos de exportación de la справка.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
)

// ExpiringUseCase contratos que vencen en un mes dado.
type ExpiringUseCase struct {
	clients   repository.ClientRepository
	exporters map[string]TableExporter
	log       *logger.Logger
}

// NewExpiringUseCase construye el caso de uso con los formatos configurados.
func NewExpiringUseCase(clients repository.ClientRepository, exporters Exporters, log *logger.Logger) *ExpiringUseCase {
	return &ExpiringUseCase{clients: clients, exporters: exporters.ByFormat(), log: log.Component("reports")}
}

// ExpiringContracts una fila por dispositivo, ordenadas por fecha de vencimiento.
func (uc *ExpiringUseCase) ExpiringContracts(ctx context.Context, month, year int) ([]dto.ExpiringContractDTO, error) {
	if month < 1 || month > 12 || year < 1900 || year > 9999 {
		return nil, fmt.Errorf("%w: mes %d / año %d", domain.ErrInvalidInput, month, year)
	}
	list, err := uc.clients.ListExpiring(ctx, month, year)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringContractDTO, 0, len(list))
	for _, dc := range list {
		out = append(out, dto.ExpiringContractDTO{
			ContractNumber: dc.Client.ContractNumber,
			CompanyName:    dc.Client.CompanyName,
			Model:          dc.Device.Model,
			SerialNumber:   dc.Device.SerialNumber,
			ContractExpiry: dc.Client.ContractExpiry,
			EIK:            dc.Client.EIK,
			Phone:          dc.Client.Phone1,
		})
	}
	return out, nil
}

// ExportExpiring справка en XLSX, DOCX o PDF.
func (uc *ExpiringUseCase) ExportExpiring(ctx context.Context, month, year int, format string) ([]byte, error) {
	format = NormalizeFormat(format)
	exp, err := Lookup(uc.exporters, format)
	if err != nil {
		return nil, err
	}
	rows, err := uc.ExpiringContracts(ctx, month, year)
	if err != nil {
		return nil, err
	}
	table := ExpiringTable(month, year, rows)
	data, err := exp.Export(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("reports: exportar %s: %w", format, err)
	}
	uc.log.Debug().Str("format", format).Int("rows", len(rows)).Msg("справка exportada")
	return data, nil
}

// ExpiringTable tabla con título "Справка за изтичащи договори - MM.YYYY".
func ExpiringTable(month, year int, rows []dto.ExpiringContractDTO) *dto.ReportTable {
	t := &dto.ReportTable{
		Title:   fmt.Sprintf("Справка за изтичащи договори - %02d.%d", month, year),
		Headers: dto.ExpiringHeaders,
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.Cells())
	}
	return t
}

// ExpiringFileName nombre sugerido para la descarga.
func ExpiringFileName(month, year int, format string) string {
	return fmt.Sprintf("expiring_%02d_%d.%s", month, year, strings.ToLower(format))
}

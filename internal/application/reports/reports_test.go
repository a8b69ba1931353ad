package reports_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/application/reports"
	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/docx"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/excel"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/memory"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type captureExporter struct{ table *dto.ReportTable }

func (c *captureExporter) Export(_ context.Context, t *dto.ReportTable) ([]byte, error) {
	c.table = t
	return []byte("pdf"), nil
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	clients := []entity.Client{
		{ID: "c-1", ContractNumber: "10", CompanyName: "Алфа", Status: entity.StatusActive, ContractExpiry: "2026-03-20", Phone1: "0888"},
		{ID: "c-2", ContractNumber: "2", CompanyName: "Бета", Status: entity.StatusActive, ContractExpiry: "2026-03-05"},
		{ID: "c-3", ContractNumber: "3", CompanyName: "Гама", Status: entity.StatusExpired, ContractExpiry: "2025-12-31"},
	}
	for _, c := range clients {
		c := c
		require.NoError(t, store.Clients().Create(ctx, &c))
	}
	devices := []entity.Device{
		{ID: "d-1", ClientID: "c-1", Model: "DP-25", SerialNumber: "DT1", MaintenancePrice: decimal.RequireFromString("60")},
		{ID: "d-2", ClientID: "c-1", Model: "DP-25", SerialNumber: "DT2", MaintenancePrice: decimal.RequireFromString("60")},
		{ID: "d-3", ClientID: "c-2", Model: "Compact S", SerialNumber: "DY1", MaintenancePrice: decimal.RequireFromString("45.5")},
		{ID: "d-4", ClientID: "c-3", Model: "FP-700", SerialNumber: "ZK1", MaintenancePrice: decimal.RequireFromString("100")},
	}
	for _, d := range devices {
		d := d
		require.NoError(t, store.Devices().Create(ctx, &d))
	}
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// Справка
// ──────────────────────────────────────────────────────────────────────────────

func TestExpiringContracts_OrdenPorVencimiento(t *testing.T) {
	store := seed(t)
	uc := reports.NewExpiringUseCase(store.Clients(), reports.Exporters{}, logger.Nop())

	rows, err := uc.ExpiringContracts(context.Background(), 3, 2026)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2", rows[0].ContractNumber)
	assert.Equal(t, "DT1", rows[1].SerialNumber)
	assert.Equal(t, "0888", rows[1].Phone)
}

func TestExpiringContracts_MesInvalido(t *testing.T) {
	uc := reports.NewExpiringUseCase(memory.NewStore().Clients(), reports.Exporters{}, logger.Nop())

	_, err := uc.ExpiringContracts(context.Background(), 13, 2026)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportExpiring_PDFRecibeTabla(t *testing.T) {
	pdf := &captureExporter{}
	uc := reports.NewExpiringUseCase(seed(t).Clients(), reports.Exporters{PDF: pdf}, logger.Nop())

	data, err := uc.ExportExpiring(context.Background(), 3, 2026, "PDF")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), data)
	require.NotNil(t, pdf.table)
	assert.Equal(t, "Справка за изтичащи договори - 03.2026", pdf.table.Title)
	assert.Equal(t, dto.ExpiringHeaders, pdf.table.Headers)
	assert.Len(t, pdf.table.Rows, 3)
}

func TestExportExpiring_XLSX(t *testing.T) {
	uc := reports.NewExpiringUseCase(seed(t).Clients(), reports.Exporters{XLSX: excel.NewExporter()}, logger.Nop())

	data, err := uc.ExportExpiring(context.Background(), 3, 2026, reports.FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(excel.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "№ Договор", rows[0][0])
}

func TestExportExpiring_DOCX(t *testing.T) {
	uc := reports.NewExpiringUseCase(seed(t).Clients(), reports.Exporters{DOCX: docx.NewTableExporter()}, logger.Nop())

	data, err := uc.ExportExpiring(context.Background(), 3, 2026, " docx ")
	require.NoError(t, err)

	doc, err := docx.Parse(data)
	require.NoError(t, err)
	assert.Contains(t, doc.Text(), "Справка за изтичащи договори - 03.2026")
	tables := doc.Tables()
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows(), 4, "encabezado y tres filas")
}

func TestExportExpiring_FormatoNoConfigurado(t *testing.T) {
	uc := reports.NewExpiringUseCase(seed(t).Clients(), reports.Exporters{}, logger.Nop())

	_, err := uc.ExportExpiring(context.Background(), 3, 2026, reports.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExpiringFileName(t *testing.T) {
	assert.Equal(t, "expiring_03_2026.xlsx", reports.ExpiringFileName(3, 2026, "XLSX"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Panel
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Resumen(t *testing.T) {
	now := time.Date(2026, time.February, 20, 15, 0, 0, 0, time.Local)
	uc := reports.NewDashboardUseCase(seed(t).Stats()).WithClock(func() time.Time { return now })

	s, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.ActiveContracts)
	assert.Equal(t, 1, s.ExpiredContracts)
	assert.Equal(t, 2, s.ExpiringSoon, "03-05 y 03-20 caen dentro de 30 días")
	assert.True(t, decimal.RequireFromString("165.5").Equal(s.MonthlyRevenue))
	assert.Equal(t, 4, s.TotalDevices)
	require.NotEmpty(t, s.TopModels)
	assert.Equal(t, dto.ModelCountDTO{Model: "DP-25", Count: 2}, s.TopModels[0])
}

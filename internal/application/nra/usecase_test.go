package nra_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiskal-servis/internal/application/nra"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/memory"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

const fuCSV = "555,2019-01-02 10:00:00,Daisy Compact S,,,,,ДА\n"

var clock = time.Date(2026, time.February, 10, 9, 0, 0, 0, time.Local)

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{
		ID: "c-1", ContractNumber: "7", CompanyName: "Бета ООД", EIK: "987654321",
		ContractStart: "2025-03-01", ContractExpiry: "2026-03-01",
	}))
	for _, d := range []entity.Device{
		{ID: "d-1", ClientID: "c-1", SerialNumber: "DY111111", FiscalMemory: "36111111", CertificateNumber: "555", NRAReportEnabled: true},
		{ID: "d-2", ClientID: "c-1", SerialNumber: "DT222222", FiscalMemory: "02222222", CertificateNumber: "999", Model: "Unknown", NRAReportEnabled: true},
		{ID: "d-3", ClientID: "c-1", SerialNumber: "DT333333", CertificateNumber: "555", NRAReportEnabled: false},
	} {
		d := d
		require.NoError(t, store.Devices().Create(ctx, &d))
	}
}

func newUseCase(t *testing.T, store *memory.Store, csvPath string) (*nra.ReportUseCase, string) {
	t.Helper()
	out := t.TempDir()
	cfg := nra.Config{
		Service:         entity.ServiceCompany{EIK: "200000001", Name: "Сервиз ООД"},
		OutputDir:       out,
		NomenclatureCSV: csvPath,
	}
	uc := nra.NewReportUseCase(cfg, store.Devices(), store.Audit(), logger.Nop()).WithClock(func() time.Time { return clock })
	return uc, out
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestGenerateReport_ExportaYExcluye(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	csvPath := filepath.Join(t.TempDir(), "FU.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(fuCSV), 0o644))
	uc, out := newUseCase(t, store, csvPath)

	res, err := uc.GenerateReport(context.Background(), entity.Actor{Username: "ivan"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "fiskal.ser"), res.Path)
	assert.Equal(t, 1, res.Exported)
	require.Len(t, res.Excluded, 1, "el deshabilitado ni siquiera se considera")
	assert.Equal(t, "d-2", res.Excluded[0].DeviceID)
	assert.Equal(t, 1, res.Nomenclature)
	assert.Equal(t, "2026-01-01", res.PeriodStart, "sin mes de reporte se usa el mes anterior")
	assert.Equal(t, "2026-01-31", res.PeriodEnd)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "00"))
	assert.True(t, strings.HasSuffix(string(data), "99\r\n"))

	audit := store.Audit().All()
	require.Len(t, audit, 1)
	assert.Equal(t, entity.ActionGenerateFiskalSer, audit[0].Action)
	assert.Contains(t, audit[0].Details, "1 ФУ, 1 изключени")
}

func TestGenerateReport_SinNomenclatura(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	uc, _ := newUseCase(t, store, filepath.Join(t.TempDir(), "no-existe.csv"))

	res, err := uc.GenerateReport(context.Background(), entity.Actor{})
	require.NoError(t, err)
	assert.Zero(t, res.Exported)
	assert.Len(t, res.Excluded, 2)
	assert.FileExists(t, res.Path)
}

package excel_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/excel"
)

// workbook arma un libro en memoria; cada fila es un mapa celda → valor.
func workbook(t *testing.T, rows ...map[string]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for _, row := range rows {
		for cell, v := range row {
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadContracts_AgrupaPorContrato(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	buf := workbook(t,
		map[string]any{"A1": "Договор", "E1": "Фирма"},
		map[string]any{
			"A2": 1001, "B2": "Активен", "C2": start, "D2": "15.01.2026",
			"E2": "Алфа ЕООД", "F2": "София", "G2": 1000, "H2": "ул. Витоша 1",
			"K2": "Иван Иванов", "L2": "FD1", "M2": 123456789, "N2": "да", "O2": "э",
			"Q2": "0888123456", "S2": "Магазин", "T2": "ул. Раковски 2", "V2": "DATECS DP-25",
			"W2": "123", "Y2": "DT012345", "Z2": "02123456",
		},
		map[string]any{"A3": "1001", "E3": "Друго име", "V3": "TREMOL M20", "Y3": "ZK111111"},
		map[string]any{"A4": 1002.0, "E4": "Бета ООД"},
	)

	contracts, err := excel.ReadContracts(buf)
	require.NoError(t, err)
	require.Len(t, contracts, 2)

	first := contracts[0]
	assert.Equal(t, "1001", first.Client.ContractNumber)
	assert.Equal(t, "Алфа ЕООД", first.Client.CompanyName, "el cliente sale de la primera fila")
	assert.Equal(t, "2025-01-15", first.Client.ContractStart)
	assert.Equal(t, "2026-01-15", first.Client.ContractExpiry)
	assert.Equal(t, "1000", first.Client.PostalCode)
	assert.Equal(t, "123456789", first.Client.EIK)
	assert.Equal(t, "да", first.Client.VatRegistered)
	assert.Equal(t, "Иван Иванов", first.Client.MOL)

	require.Len(t, first.Devices, 2)
	dev := first.Devices[0]
	assert.True(t, dev.EuroDone)
	assert.Equal(t, "FD1", dev.FDRID)
	assert.Equal(t, "Магазин", dev.ObjectName)
	assert.Equal(t, "DATECS DP-25", dev.Model)
	assert.Equal(t, "DT012345", dev.SerialNumber)
	assert.Equal(t, "02123456", dev.FiscalMemory)
	assert.True(t, dev.NRAReportEnabled)
	assert.False(t, first.Devices[1].EuroDone)
	assert.Equal(t, "ZK111111", first.Devices[1].SerialNumber)

	assert.Equal(t, "1002", contracts[1].Client.ContractNumber)
	assert.Len(t, contracts[1].Devices, 1)
}

func TestReadContracts_LibroInvalido(t *testing.T) {
	_, err := excel.ReadContracts(bytes.NewBufferString("no es un xlsx"))
	assert.Error(t, err)
}

func TestReadCertificates(t *testing.T) {
	buf := workbook(t,
		map[string]any{"A1": "123", "B1": time.Date(2031, 6, 11, 0, 0, 0, 0, time.UTC)},
		map[string]any{"A2": "", "B2": "2030-01-01"},
		map[string]any{"A3": 456, "B3": "без срок"},
	)

	certs, err := excel.ReadCertificates(buf)
	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, "123", certs[0].Number)
	assert.Equal(t, "2031-06-11", certs[0].ExpiryDate)
	assert.Equal(t, "456", certs[1].Number)
	assert.Equal(t, "без срок", certs[1].ExpiryDate)
}

func TestExporter_Write(t *testing.T) {
	long := "Много дълго име на фирма, което надхвърля петдесет символа без съмнение"
	table := &dto.ReportTable{
		Headers: dto.ExpiringHeaders,
		Rows:    [][]string{{"1001", long, "DP-25", "DT012345", "2026-01-15", "123456789", "0888/123-456"}},
	}

	data, err := excel.NewExporter().Export(context.Background(), table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{excel.ReportSheet}, f.GetSheetList())
	rows, err := f.GetRows(excel.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, dto.ExpiringHeaders, rows[0])
	assert.Equal(t, long, rows[1][1])

	width, err := f.GetColWidth(excel.ReportSheet, "B")
	require.NoError(t, err)
	assert.Equal(t, 50.0, width)
	width, err = f.GetColWidth(excel.ReportSheet, "A")
	require.NoError(t, err)
	assert.Equal(t, 11.0, width, "«№ Договор» tiene 9 runas")
}

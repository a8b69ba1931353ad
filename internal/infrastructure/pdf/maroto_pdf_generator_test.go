package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/pdf"
)

func TestExport_GeneraPDF(t *testing.T) {
	table := &dto.ReportTable{
		Title:   "Expiring contracts - 01.2026",
		Headers: []string{"No", "Company", "Model", "Serial", "Expiry", "EIK", "Phone"},
		Rows: [][]string{
			{"1001", "Alfa", "DP-25", "DT012345", "2026-01-15", "123456789", "0888/123-456"},
			{"1002", "Beta", "M20", "ZK111111", "2026-01-20", "987654321"},
		},
	}

	data, err := pdf.NewMarotoPDFGenerator("", "Service Ltd").Export(context.Background(), table)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExport_FuenteInexistente(t *testing.T) {
	table := &dto.ReportTable{Title: "x", Headers: []string{"a"}}
	_, err := pdf.NewMarotoPDFGenerator("/no/existe.ttf", "").Export(context.Background(), table)
	assert.Error(t, err)
}

func TestExport_ConNotas(t *testing.T) {
	table := &dto.ReportTable{
		Title:   "Price list",
		Notes:   []string{"Date: 14.10.2026", "1 EUR = 1.95583 BGN"},
		Headers: []string{"Name", "Category", "BGN", "EUR"},
		Rows:    [][]string{{"Paper roll", "Supplies", "1.96", "1.00"}},
	}

	data, err := pdf.NewMarotoPDFGenerator("", "Service Ltd").Export(context.Background(), table)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

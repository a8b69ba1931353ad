package docx_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/docx"
)

func zipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	t.Fatalf("falta %s en el paquete", name)
	return ""
}

func TestTableExporter_TituloNotasYTabla(t *testing.T) {
	table := &dto.ReportTable{
		Title:   "Справка за изтичащи договори - 01.2026",
		Notes:   []string{"Дата: 14.10.2026 г."},
		Headers: []string{"№ Договор", "Фирма", "Телефон"},
		Rows: [][]string{
			{"1001", `"Алфа" & Бета ЕООД`, "0888/123-456"},
			{"1002"},
		},
	}

	data, err := docx.NewTableExporter().Export(context.Background(), table)
	require.NoError(t, err)

	doc, err := docx.Parse(data)
	require.NoError(t, err)

	ps := doc.Paragraphs()
	require.Len(t, ps, 3)
	assert.Equal(t, table.Title, ps[0].Text())
	assert.Equal(t, "Дата: 14.10.2026 г.", ps[1].Text())
	assert.Equal(t, "", ps[2].Text())

	tables := doc.Tables()
	require.Len(t, tables, 1)
	rows := tables[0].Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Фирма", rows[0].Cells()[1].Paragraphs()[0].Text())
	assert.Equal(t, `"Алфа" & Бета ЕООД`, rows[1].Cells()[1].Paragraphs()[0].Text())

	short := rows[2].Cells()
	require.Len(t, short, 3, "las filas cortas se completan hasta el número de columnas")
	assert.Equal(t, "", short[2].Paragraphs()[0].Text())
}

func TestTableExporter_EncabezadoEnNegritaYPaquete(t *testing.T) {
	table := &dto.ReportTable{Headers: []string{"Име", "Цена"}, Rows: [][]string{{"Ролка", "1.00", "extra"}}}

	data, err := docx.NewTableExporter().Export(context.Background(), table)
	require.NoError(t, err)

	assert.Contains(t, zipEntry(t, data, "[Content_Types].xml"), "wordprocessingml.document.main+xml")
	assert.Contains(t, zipEntry(t, data, "_rels/.rels"), "word/document.xml")

	xml := zipEntry(t, data, "word/document.xml")
	assert.Contains(t, xml, "<w:tblHeader/>")
	assert.Equal(t, 2, strings.Count(xml, "<w:b/>"), "solo las celdas de encabezado van en negrita")
	assert.NotContains(t, xml, "extra", "las celdas sobrantes se recortan")
}

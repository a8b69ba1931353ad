package nra_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/charset"

	"github.com/jhoicas/fiskal-servis/internal/infrastructure/nra"
)

func TestBuildDeclaration(t *testing.T) {
	svc := testService()
	svc.Name = `"Сервиз" еоод`
	svc.TechEGN = "8001011234"
	svc.TechMiddleName = "Иванов"

	raw, err := nra.BuildDeclaration(svc, "123456789", "4412345")
	require.NoError(t, err)

	assert.Contains(t, string(raw), `encoding="WINDOWS-1251"`)
	assert.NotContains(t, string(raw), "Сервиз", "el texto no queda en UTF-8")

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	require.NoError(t, doc.ReadFromBytes(raw))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "dec44a2", root.Tag)
	assert.Equal(t, "СЕРВИЗ ЕООД", root.SelectElement("name").Text())
	assert.Equal(t, "201234567", root.SelectElement("bulstat").Text())
	assert.Equal(t, "1", root.SelectElement("autorizecode").Text())
	assert.Equal(t, "5", root.SelectElement("code").Text())
	assert.Equal(t, "Иванов", root.SelectElement("sname").Text())
	assert.Equal(t, "4412345", root.FindElement("fuiasutd/rowenum/fdrid").Text())
}

func TestBuildDeclaration_SinFDRID(t *testing.T) {
	_, err := nra.BuildDeclaration(testService(), "123456789", " ")
	assert.Error(t, err)
}

func TestDeclarationFileName(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)
	assert.Equal(t, "NAP_20250304_050607.xml", nra.DeclarationFileName(now))
}

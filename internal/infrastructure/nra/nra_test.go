package nra_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/nra"
)

const fuCSV = "\ufeffcert,date,model,a,b,c,d,active\n" +
	"123.1,2020-05-10 00:00:00,Model A,,,,,НЕ\n" +
	"123.2,2021-06-11 00:00:00,Model A Plus,,,,,ДА\n" +
	"555,2019-01-02 10:00:00,Daisy Compact S,,,,,да\n" +
	"short,row\n" +
	",2019-01-02,No Cert,,,,,ДА\n"

var lineWidths = map[string]int{
	"00": 2 + 10 + 9 + 50 + 50 + 15 + 60 + 10 + 10 + 4,
	"01": 2 + 20 + 9,
	"02": 2 + 60 + 25 + 50 + 40,
	"03": 2 + 50 + 25 + 50 + 15,
	"04": 2 + 25,
	"05": 2 + 60,
	"06": 2 + 240,
	"07": 2 + 6 + 10,
	"08": 2 + 8 + 8,
	"09": 2 + 50 + 25 + 50 + 15,
	"10": 2 + 50,
	"11": 2 + 10 + 10 + 11,
	"99": 2,
}

func loadNomenclature(t *testing.T) *nra.Nomenclature {
	t.Helper()
	n, err := nra.LoadNomenclature(strings.NewReader(fuCSV), "utf-8")
	require.NoError(t, err)
	return n
}

func testService() entity.ServiceCompany {
	return entity.ServiceCompany{
		EIK: "201234567", Name: "Сервиз ЕООД", City: "София", Address: "ул. Витоша 1",
		Phone1: "0888123456", TechFirstName: "Иван", TechLastName: "Петров",
	}
}

func device(serial, cert, model string) *entity.DeviceWithClient {
	return &entity.DeviceWithClient{
		Client: entity.Client{
			ContractNumber: "100", CompanyName: "Фирма ООД", City: "Пловдив", Address: "ул. Главна 5",
			EIK: "123456789.0", MOL: "Георги Георгиев",
			ContractStart: "2026-01-20", ContractExpiry: "2026-01-19",
		},
		Device: entity.Device{
			ID: serial, SerialNumber: serial, FiscalMemory: "02123456",
			CertificateNumber: cert, Model: model, NRAReportMonth: "01.2025",
			ObjectName: "Магазин\r\nЦентър",
		},
	}
}

func TestLoadNomenclature_DescartaFilasInvalidas(t *testing.T) {
	n := loadNomenclature(t)
	// la cabecera tiene 8 columnas y cuenta como entrada válida
	assert.Equal(t, 4, n.Len())
}

func TestMatch_Prioridades(t *testing.T) {
	n := loadNomenclature(t)

	e, ok := n.Match("123.1", "")
	require.True(t, ok)
	assert.Equal(t, "123.1", e.Certificate)
	assert.Equal(t, "10.05.2020", e.ApprovalDate)

	e, ok = n.Match("123.9", "")
	require.True(t, ok)
	assert.Equal(t, "123.2", e.Certificate, "la activa de mayor versión")
	assert.True(t, e.Active)

	e, ok = n.Match("", "daisy compact")
	require.True(t, ok)
	assert.Equal(t, "555", e.Certificate)

	_, ok = n.Match("999", "Unknown")
	assert.False(t, ok)

	_, ok = n.Match("", "---")
	assert.False(t, ok)
}

func TestMatch_NomenclaturaNil(t *testing.T) {
	var n *nra.Nomenclature
	_, ok := n.Match("123", "Model A")
	assert.False(t, ok)
}

func TestEncode_AnchoDeLineas(t *testing.T) {
	enc := nra.NewEncoder(testService(), loadNomenclature(t))
	devices := []*entity.DeviceWithClient{device("ДТ123456", "123.2", "Model A Plus")}
	res := enc.Encode(devices, nra.ResolvePeriod(devices, time.Now()))

	require.Len(t, res.Lines, 13)
	for _, line := range res.Lines {
		width, ok := lineWidths[line[:2]]
		require.True(t, ok, line)
		assert.Equal(t, width, utf8.RuneCountInString(line), "registro %s", line[:2])
	}

	total := 0
	for _, line := range res.Lines {
		total += utf8.RuneCountInString(line) + 2
	}
	assert.Len(t, res.Payload, total, "un byte por runa")
	assert.True(t, strings.HasSuffix(string(res.Payload), "99\r\n"))
}

func TestEncode_CorrigeAnioDeInicio(t *testing.T) {
	enc := nra.NewEncoder(testService(), loadNomenclature(t))
	devices := []*entity.DeviceWithClient{device("DT123456", "555", "")}
	period := nra.PeriodForMonth(time.January, 2025)
	res := enc.Encode(devices, period)

	require.Equal(t, 1, res.Exported)
	var line11 string
	for _, l := range res.Lines {
		if strings.HasPrefix(l, "11") {
			line11 = l
		}
	}
	assert.Equal(t, "20.01.2025", line11[2:12])
	assert.Equal(t, "19.01.2026", line11[12:22], "la fecha final no se corrige")
	assert.True(t, strings.HasPrefix(res.Lines[0][len(res.Lines[0])-24:], "01.01.202531.01.2025"))
}

func TestEncode_ExcluyeDispositivoVacio(t *testing.T) {
	enc := nra.NewEncoder(testService(), loadNomenclature(t))
	empty := device("", "555", "")
	empty.Device.FiscalMemory = ""
	empty.Client.CompanyName = ""

	res := enc.Encode([]*entity.DeviceWithClient{empty}, nra.PeriodForMonth(time.January, 2025))

	assert.Equal(t, 0, res.Exported)
	require.Len(t, res.Lines, 2)
	assert.True(t, strings.HasSuffix(res.Lines[0], "0000"))
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, nra.ReasonEmpty, res.Excluded[0].Reason)
}

func TestEncode_ClienteConDosDispositivos(t *testing.T) {
	enc := nra.NewEncoder(testService(), loadNomenclature(t))
	ok := device("DT000001", "123.1", "Model A")
	bad := device("DT000002", "999", "Неизвестен")

	res := enc.Encode([]*entity.DeviceWithClient{ok, bad}, nra.PeriodForMonth(time.March, 2025))

	assert.Equal(t, 1, res.Exported)
	assert.True(t, strings.HasSuffix(res.Lines[0], "0001"))
	assert.Len(t, res.Lines, 1+11+1)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "DT000002", res.Excluded[0].DeviceID)
	assert.Equal(t, nra.ReasonUnregistered, res.Excluded[0].Reason)
}

func TestEncode_Campos(t *testing.T) {
	enc := nra.NewEncoder(testService(), loadNomenclature(t))
	res := enc.Encode([]*entity.DeviceWithClient{device("ДТ 12345", "123.9", "")}, nra.PeriodForMonth(time.March, 2025))
	require.Equal(t, 1, res.Exported)

	byType := map[string]string{}
	for _, l := range res.Lines {
		byType[l[:2]] = l[2:]
	}
	assert.Equal(t, strings.Repeat(" ", 20)+"123456789", byType["01"])
	assert.True(t, strings.HasPrefix(byType["03"], "МагазинЦентър "))
	assert.Equal(t, "СОФИЯ"+strings.Repeat(" ", 20), byType["04"])
	assert.True(t, strings.HasPrefix(byType["05"], "Model A Plus"))
	assert.Equal(t, "123.2 11.06.2021", byType["07"])
	assert.Equal(t, "DT01234502123456", byType["08"])
	assert.True(t, strings.HasPrefix(byType["10"], "Иван Петров "))
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.Local)

	p := nra.ResolvePeriod(nil, now)
	require.True(t, p.Valid)
	assert.Equal(t, time.February, p.Start.Month())
	assert.Equal(t, 28, p.End.Day())

	d := device("DT1", "", "")
	d.Device.NRAReportMonth = "13.2025"
	p = nra.ResolvePeriod([]*entity.DeviceWithClient{d}, now)
	assert.False(t, p.Valid)
}

func TestEncode_PeriodoInvalidoEnEspacios(t *testing.T) {
	enc := nra.NewEncoder(testService(), loadNomenclature(t))
	res := enc.Encode(nil, nra.Period{})
	assert.Equal(t, strings.Repeat(" ", 20)+"0000", res.Lines[0][len(res.Lines[0])-24:])
}

func TestEncodeWindows1251_Sustituye(t *testing.T) {
	out := nra.EncodeWindows1251("Аб€✓")
	require.Len(t, out, 4)
	assert.Equal(t, byte(0xC0), out[0])
	assert.Equal(t, byte(0xE1), out[1])
	assert.Equal(t, byte(0x88), out[2])
	assert.Equal(t, byte('?'), out[3])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), nra.FileName)
	require.NoError(t, nra.WriteFile(path, []byte("00\r\n99\r\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "00\r\n99\r\n", string(got))

	err = nra.WriteFile(filepath.Join(t.TempDir(), "missing", nra.FileName), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fiskal.ser")
}

// Package nra genera el reporte mensual fiskal.ser (Наредба Н-18) en formato de
// ancho fijo y codificación Windows-1251.
package nra

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
)

// FileName nombre fijo del archivo de reporte.
const FileName = "fiskal.ser"

const crlf = "\r\n"

// Period rango del reporte. Un período inválido se imprime como espacios.
type Period struct {
	Start time.Time
	End   time.Time
	Valid bool
}

// PeriodForMonth del primer al último día del mes.
func PeriodForMonth(month time.Month, year int) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return Period{Start: start, End: start.AddDate(0, 1, -1), Valid: true}
}

// ResolvePeriod toma el mes "MM.YYYY" del primer dispositivo; si está vacío se usa el
// mes anterior a now. Un valor no interpretable produce un período inválido.
func ResolvePeriod(devices []*entity.DeviceWithClient, now time.Time) Period {
	month := ""
	if len(devices) > 0 {
		month = strings.TrimSpace(devices[0].Device.NRAReportMonth)
	}
	if month == "" {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
		return PeriodForMonth(prev.Month(), prev.Year())
	}
	m, y, ok := fiscal.ParseReportMonth(month)
	if !ok {
		return Period{}
	}
	return PeriodForMonth(m, y)
}

func (p Period) startField() string {
	if !p.Valid {
		return spaces(10)
	}
	return p.Start.Format(fiscal.LayoutBG)
}

func (p Period) endField() string {
	if !p.Valid {
		return spaces(10)
	}
	return p.End.Format(fiscal.LayoutBG)
}

// Motivos de exclusión de un dispositivo.
const (
	ReasonEmpty        = "sin serial, memoria fiscal ni empresa"
	ReasonUnregistered = "certificado no encontrado en la nomenclatura"
)

// Exclusion dispositivo omitido del reporte.
type Exclusion struct {
	DeviceID     string
	SerialNumber string
	Reason       string
}

// Result reporte generado en memoria.
type Result struct {
	Lines    []string // sin terminador, antes de codificar
	Payload  []byte   // Windows-1251 con CRLF
	Exported int
	Excluded []Exclusion
	Period   Period
}

// Encoder arma el reporte para una empresa de servicio y una nomenclatura.
type Encoder struct {
	service      entity.ServiceCompany
	nomenclature *Nomenclature
}

// NewEncoder crea un codificador. Con nomenclatura nil ningún dispositivo se exporta.
func NewEncoder(service entity.ServiceCompany, nomenclature *Nomenclature) *Encoder {
	return &Encoder{service: service, nomenclature: nomenclature}
}

// Encode genera cabecera 00, un bloque 01..11 por dispositivo exportado y el cierre 99.
func (e *Encoder) Encode(devices []*entity.DeviceWithClient, period Period) *Result {
	res := &Result{Period: period}
	var blocks []string

	for _, dc := range devices {
		if dc == nil {
			continue
		}
		d, c := dc.Device, dc.Client
		if strings.TrimSpace(d.SerialNumber) == "" &&
			strings.TrimSpace(d.FiscalMemory) == "" &&
			strings.TrimSpace(c.CompanyName) == "" {
			res.Excluded = append(res.Excluded, Exclusion{DeviceID: d.ID, SerialNumber: d.SerialNumber, Reason: ReasonEmpty})
			continue
		}
		entry, ok := e.nomenclature.Match(d.CertificateNumber, d.Model)
		if !ok {
			res.Excluded = append(res.Excluded, Exclusion{DeviceID: d.ID, SerialNumber: d.SerialNumber, Reason: ReasonUnregistered})
			continue
		}
		blocks = append(blocks, e.deviceBlock(c, d, entry, period)...)
		res.Exported++
	}

	res.Lines = make([]string, 0, len(blocks)+2)
	res.Lines = append(res.Lines, e.header(period, res.Exported))
	res.Lines = append(res.Lines, blocks...)
	res.Lines = append(res.Lines, "99")
	res.Payload = EncodeWindows1251(strings.Join(res.Lines, crlf) + crlf)
	return res
}

func (e *Encoder) header(p Period, count int) string {
	s := e.service
	return "00" +
		spaces(10) +
		fiscal.CleanEIK(s.EIK, 9) +
		textField(s.Name, 50) +
		textField(joinAddress(s.City, s.Address), 50) +
		textField(s.Phone1, 15) +
		spaces(60) +
		p.startField() +
		p.endField() +
		fmt.Sprintf("%04d", count)
}

func (e *Encoder) deviceBlock(c entity.Client, d entity.Device, entry Entry, p Period) []string {
	s := e.service
	tech := strings.TrimSpace(s.TechFirstName + " " + s.TechLastName)

	return []string{
		"01" + spaces(20) + fiscal.CleanEIK(c.EIK, 9),
		"02" + textField(c.CompanyName, 60) + textField(orDash(c.City), 25) +
			textField(orDash(c.Address), 50) + textField(orDash(c.MOL), 40),
		"03" + textField(orDash(d.ObjectName), 50) + textField(orDash(c.City), 25) +
			textField(orDash(d.ObjectAddress), 50) + textField(orDash(d.ObjectPhone), 15),
		"04" + textField(d.TaxDirectorate(), 25),
		"05" + textField(orDash(entry.Model), 60),
		"06" + spaces(240),
		"07" + certificateField(entry.Certificate) + textField(certificateDate(entry, d), 10),
		"08" + fiscal.SerialField(d.SerialNumber) + fiscal.NumericField(d.FiscalMemory, 8),
		"09" + textField(s.Name, 50) + textField(s.City, 25) + textField(s.Address, 50) + textField(s.Phone1, 15),
		"10" + textField(tech, 50),
		"11" + contractStart(c.ContractStart, p) + contractEnd(c.ContractExpiry) + spaces(11),
	}
}

// certificateField número puro rellenado con ceros; con versión ("123.2") como texto.
func certificateField(cert string) string {
	cert = strings.TrimSpace(cert)
	if cert != "" && fiscal.DigitsOnly(cert) == cert {
		return fiscal.NumericField(cert, 6)
	}
	return textField(cert, 6)
}

// certificateDate: fecha de aprobación de la nomenclatura, luego bim_date y luego
// la expiración del certificado del dispositivo.
func certificateDate(entry Entry, d entity.Device) string {
	if entry.ApprovalDate != "" {
		return entry.ApprovalDate
	}
	if t, ok := fiscal.ParseCertificateDate(d.BIMDate); ok {
		return t.Format(fiscal.LayoutBG)
	}
	if t, ok := fiscal.ParseCertificateDate(d.CertificateExpiry); ok {
		return t.Format(fiscal.LayoutBG)
	}
	return ""
}

// contractStart corrige el error de digitación 2026 cuando el período cierra en 2025.
func contractStart(iso string, p Period) string {
	t, ok := fiscal.ParseISODate(iso)
	if !ok {
		return spaces(10)
	}
	if p.Valid && t.Year() == 2026 && p.End.Year() == 2025 {
		t = t.AddDate(-1, 0, 0)
	}
	return t.Format(fiscal.LayoutBG)
}

func contractEnd(iso string) string {
	t, ok := fiscal.ParseISODate(iso)
	if !ok {
		return spaces(10)
	}
	return t.Format(fiscal.LayoutBG)
}

func joinAddress(city, address string) string {
	city, address = strings.TrimSpace(city), strings.TrimSpace(address)
	switch {
	case city == "":
		return address
	case address == "":
		return city
	}
	return city + ", " + address
}

// Package excel lee los libros heredados de contratos y certificados BIM y
// exporta справки con excelize.
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
)

// euroMark marca de la columna O para dispositivos ya pasados a euro.
const euroMark = "э"

// Columnas del libro heredado (base 0: A=0 … Z=25).
const (
	colContract      = 0  // A
	colStatus        = 1  // B
	colStart         = 2  // C
	colExpiry        = 3  // D
	colCompany       = 4  // E
	colCity          = 5  // F
	colPostalCode    = 6  // G
	colAddress       = 7  // H
	colMOL           = 10 // K
	colFDRID         = 11 // L
	colEIK           = 12 // M
	colVat           = 13 // N
	colEuro          = 14 // O
	colPhone1        = 16 // Q
	colPhone2        = 17 // R
	colObjectName    = 18 // S
	colObjectAddress = 19 // T
	colObjectPhone   = 20 // U
	colModel         = 21 // V
	colCertificate   = 22 // W
	colCertExpiry    = 23 // X
	colSerial        = 24 // Y
	colFiscalMemory  = 25 // Z
)

// ReadContracts lee la primera hoja del libro y agrupa las filas por número de
// contrato en orden de aparición. El cliente se toma de la primera fila del
// contrato; cada fila aporta un dispositivo. Se omiten las filas cuyo número de
// contrato no contiene dígitos (vacías o de encabezado).
func ReadContracts(r io.Reader) ([]*entity.Contract, error) {
	rows, use1904, err := firstSheetRows(r)
	if err != nil {
		return nil, err
	}

	var (
		contracts []*entity.Contract
		byNumber  = make(map[string]*entity.Contract)
	)
	for _, row := range rows {
		c := cells{row: row, use1904: use1904}
		number := c.text(colContract)
		if fiscal.DigitsOnly(number) == "" {
			continue
		}
		contract, ok := byNumber[number]
		if !ok {
			contract = &entity.Contract{Client: c.client(number)}
			byNumber[number] = contract
			contracts = append(contracts, contract)
		}
		contract.Devices = append(contract.Devices, c.device())
	}
	return contracts, nil
}

// ReadCertificates lee certificados BIM: columna A número, columna B vencimiento.
func ReadCertificates(r io.Reader) ([]*entity.Certificate, error) {
	rows, use1904, err := firstSheetRows(r)
	if err != nil {
		return nil, err
	}
	var certs []*entity.Certificate
	for _, row := range rows {
		c := cells{row: row, use1904: use1904}
		number := c.text(0)
		if number == "" {
			continue
		}
		certs = append(certs, &entity.Certificate{Number: number, ExpiryDate: c.date(1)})
	}
	return certs, nil
}

func firstSheetRows(r io.Reader) ([][]string, bool, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, false, fmt.Errorf("excel: abrir libro: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, false, fmt.Errorf("excel: el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, fmt.Errorf("excel: leer hoja %q: %w", sheets[0], err)
	}
	use1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		use1904 = *props.Date1904
	}
	return rows, use1904, nil
}

// cells acceso tolerante a filas cortas: excelize recorta las celdas vacías finales.
type cells struct {
	row     []string
	use1904 bool
}

func (c cells) raw(i int) string {
	if i >= len(c.row) {
		return ""
	}
	return strings.TrimSpace(c.row[i])
}

// text valor de texto; los enteros guardados como float pierden el ".0".
func (c cells) text(i int) string {
	return fiscal.TrimFloatSuffix(c.raw(i))
}

// date devuelve ISO para números de serie de Excel y fechas "DD.MM.YYYY";
// cualquier otro valor se conserva tal cual.
func (c cells) date(i int) string {
	v := c.raw(i)
	if v == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, c.use1904); err == nil {
			return t.Format(fiscal.LayoutISO)
		}
	}
	if t, ok := fiscal.ParseBGDate(v); ok {
		return t.Format(fiscal.LayoutISO)
	}
	return v
}

func (c cells) client(number string) entity.Client {
	return entity.Client{
		ContractNumber: number,
		Status:         c.text(colStatus),
		ContractStart:  c.date(colStart),
		ContractExpiry: c.date(colExpiry),
		CompanyName:    c.text(colCompany),
		City:           c.text(colCity),
		PostalCode:     c.text(colPostalCode),
		Address:        c.text(colAddress),
		EIK:            c.text(colEIK),
		VatRegistered:  c.text(colVat),
		MOL:            c.text(colMOL),
		Phone1:         c.text(colPhone1),
		Phone2:         c.text(colPhone2),
	}
}

func (c cells) device() entity.Device {
	return entity.Device{
		FDRID:             c.text(colFDRID),
		EuroDone:          c.text(colEuro) == euroMark,
		ObjectName:        c.text(colObjectName),
		ObjectAddress:     c.text(colObjectAddress),
		ObjectPhone:       c.text(colObjectPhone),
		Model:             c.text(colModel),
		CertificateNumber: c.text(colCertificate),
		CertificateExpiry: c.date(colCertExpiry),
		SerialNumber:      c.text(colSerial),
		FiscalMemory:      c.text(colFiscalMemory),
		NRAReportEnabled:  true,
	}
}

// Reader adapta las funciones de lectura al puerto registry.WorkbookReader.
type Reader struct{}

// ReadContracts ver la función ReadContracts.
func (Reader) ReadContracts(r io.Reader) ([]*entity.Contract, error) { return ReadContracts(r) }

// ReadCertificates ver la función ReadCertificates.
func (Reader) ReadCertificates(r io.Reader) ([]*entity.Certificate, error) { return ReadCertificates(r) }

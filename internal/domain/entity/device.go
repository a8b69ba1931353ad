package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultNRATD dirección territorial de la NAP usada cuando el dispositivo no tiene una.
const DefaultNRATD = "СОФИЯ"

// Device dispositivo fiscal (caja registradora) instalado en un objeto del cliente.
type Device struct {
	ID                string
	ClientID          string
	FDRID             string
	EuroDone          bool
	ObjectName        string
	ObjectAddress     string
	ObjectPhone       string
	Model             string
	CertificateNumber string
	CertificateExpiry string // ISO "YYYY-MM-DD" o vacío
	SerialNumber      string
	FiscalMemory      string
	NRAReportEnabled  bool
	NRAReportMonth    string // "MM.YYYY"
	NRATD             string
	BIMModel          string
	BIMDate           string // ISO "YYYY-MM-DD" o vacío
	MaintenancePrice  decimal.Decimal
	LastRenewedAt     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TaxDirectorate devuelve la dirección territorial o DefaultNRATD si está vacía.
func (d *Device) TaxDirectorate() string {
	if d.NRATD == "" {
		return DefaultNRATD
	}
	return d.NRATD
}

// DeviceWithClient dispositivo junto con el cliente titular, tal como lo leen
// los generadores de documentos y el reporte NRA.
type DeviceWithClient struct {
	Client Client
	Device Device
}

package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

// DeviceRequest alta o modificación de un dispositivo fiscal.
type DeviceRequest struct {
	FDRID             string          `json:"fdrid"`
	EuroDone          bool            `json:"euro_done"`
	ObjectName        string          `json:"object_name"`
	ObjectAddress     string          `json:"object_address"`
	ObjectPhone       string          `json:"object_phone"`
	Model             string          `json:"model" validate:"required"`
	CertificateNumber string          `json:"certificate_number"`
	CertificateExpiry string          `json:"certificate_expiry"`
	SerialNumber      string          `json:"serial_number" validate:"required"`
	FiscalMemory      string          `json:"fiscal_memory"`
	NRAReportEnabled  *bool           `json:"nra_report_enabled"` // nil = true
	NRAReportMonth    string          `json:"nra_report_month"`   // MM.YYYY
	NRATD             string          `json:"nra_td"`
	BIMModel          string          `json:"bim_model"`
	BIMDate           string          `json:"bim_date"`
	MaintenancePrice  decimal.Decimal `json:"maintenance_price"`
}

// Validate comprueba campos obligatorios, fechas y mes de reporte.
func (r *DeviceRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Model) == "" {
		errs = append(errs, fmt.Errorf("model: requerido"))
	}
	if strings.TrimSpace(r.SerialNumber) == "" {
		errs = append(errs, fmt.Errorf("serial_number: requerido"))
	}
	errs = append(errs, isoDate("certificate_expiry", r.CertificateExpiry), isoDate("bim_date", r.BIMDate))
	if r.NRAReportMonth != "" {
		if _, _, ok := fiscal.ParseReportMonth(r.NRAReportMonth); !ok {
			errs = append(errs, fmt.Errorf("nra_report_month: formato MM.YYYY"))
		}
	}
	if r.MaintenancePrice.IsNegative() {
		errs = append(errs, fmt.Errorf("maintenance_price: no puede ser negativo"))
	}
	return errors.Join(errs...)
}

// Apply copia la petición sobre el dispositivo.
func (r *DeviceRequest) Apply(d *entity.Device) {
	d.FDRID = r.FDRID
	d.EuroDone = r.EuroDone
	d.ObjectName = r.ObjectName
	d.ObjectAddress = r.ObjectAddress
	d.ObjectPhone = r.ObjectPhone
	d.Model = r.Model
	d.CertificateNumber = r.CertificateNumber
	d.CertificateExpiry = r.CertificateExpiry
	d.SerialNumber = strings.TrimSpace(r.SerialNumber)
	d.FiscalMemory = r.FiscalMemory
	d.NRAReportEnabled = r.NRAReportEnabled == nil || *r.NRAReportEnabled
	d.NRAReportMonth = r.NRAReportMonth
	d.NRATD = r.NRATD
	d.BIMModel = r.BIMModel
	d.BIMDate = r.BIMDate
	d.MaintenancePrice = r.MaintenancePrice
}

// DeviceResponse salida de un dispositivo.
type DeviceResponse struct {
	ID                string          `json:"id"`
	ClientID          string          `json:"client_id"`
	FDRID             string          `json:"fdrid"`
	EuroDone          bool            `json:"euro_done"`
	ObjectName        string          `json:"object_name"`
	ObjectAddress     string          `json:"object_address"`
	ObjectPhone       string          `json:"object_phone"`
	Model             string          `json:"model"`
	CertificateNumber string          `json:"certificate_number"`
	CertificateExpiry string          `json:"certificate_expiry"`
	SerialNumber      string          `json:"serial_number"`
	FiscalMemory      string          `json:"fiscal_memory"`
	NRAReportEnabled  bool            `json:"nra_report_enabled"`
	NRAReportMonth    string          `json:"nra_report_month"`
	NRATD             string          `json:"nra_td"`
	BIMModel          string          `json:"bim_model"`
	BIMDate           string          `json:"bim_date"`
	MaintenancePrice  decimal.Decimal `json:"maintenance_price"`
	LastRenewedAt     *time.Time      `json:"last_renewed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewDeviceResponse mapea la entidad.
func NewDeviceResponse(d *entity.Device) DeviceResponse {
	return DeviceResponse{
		ID:                d.ID,
		ClientID:          d.ClientID,
		FDRID:             d.FDRID,
		EuroDone:          d.EuroDone,
		ObjectName:        d.ObjectName,
		ObjectAddress:     d.ObjectAddress,
		ObjectPhone:       d.ObjectPhone,
		Model:             d.Model,
		CertificateNumber: d.CertificateNumber,
		CertificateExpiry: d.CertificateExpiry,
		SerialNumber:      d.SerialNumber,
		FiscalMemory:      d.FiscalMemory,
		NRAReportEnabled:  d.NRAReportEnabled,
		NRAReportMonth:    d.NRAReportMonth,
		NRATD:             d.NRATD,
		BIMModel:          d.BIMModel,
		BIMDate:           d.BIMDate,
		MaintenancePrice:  d.MaintenancePrice,
		LastRenewedAt:     d.LastRenewedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// DeviceWithClientResponse fila de búsqueda: dispositivo y su contrato.
type DeviceWithClientResponse struct {
	Client ClientResponse `json:"client"`
	Device DeviceResponse `json:"device"`
}

// NewDeviceWithClientResponse mapea la entidad.
func NewDeviceWithClientResponse(dc *entity.DeviceWithClient) DeviceWithClientResponse {
	return DeviceWithClientResponse{Client: NewClientResponse(&dc.Client), Device: NewDeviceResponse(&dc.Device)}
}

// DeviceSearchRequest parámetros de GET /api/devices/search.
type DeviceSearchRequest struct {
	Company  string `query:"company"`
	EIK      string `query:"eik"`
	Contract string `query:"contract"`
	Phone    string `query:"phone"`
	Address  string `query:"address"`
	Serial   string `query:"serial"`
	EuroOnly bool   `query:"euro_only"`
}

// Filter convierte la petición al filtro del repositorio.
func (r DeviceSearchRequest) Filter() repository.DeviceFilter {
	return repository.DeviceFilter{
		Company:  strings.TrimSpace(r.Company),
		EIK:      strings.TrimSpace(r.EIK),
		Contract: strings.TrimSpace(r.Contract),
		Phone:    strings.TrimSpace(r.Phone),
		Address:  strings.TrimSpace(r.Address),
		Serial:   strings.TrimSpace(r.Serial),
		EuroOnly: r.EuroOnly,
	}
}

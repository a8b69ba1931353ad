package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiskal-servis/pkg/bgformat"
)

// DocumentOptions opciones comunes a los documentos generados.
type DocumentOptions struct {
	PDF bool `json:"pdf"` // además convertir a PDF con LibreOffice
}

// RegCertRequest POST /api/devices/:id/documents/reg-cert.
type RegCertRequest struct {
	DocumentOptions
	// CertificateNumber número de свидетелство БИМ; vacío usa el del dispositivo.
	CertificateNumber string `json:"certificate_number"`
}

// DeregReasons motivos de baja admitidos por el protocolo.
var DeregReasons = []string{
	"препълване на фискалната памет",
	"смяна на собственика",
	"прекратена регистрацията на ФУ по инициатива на търговеца",
	"бракуване на ФУ",
	"повреда на фискалната памет, която не позволява разчитането ѝ",
	"грешка в блок на фискалната памет",
	"грешка при въвеждане в експлоатация на ФУ",
}

// DeregRequest datos del protocolo de baja que no están en la base.
type DeregRequest struct {
	DocumentOptions
	Manufacturer string          `json:"manufacturer"` // Дейзи | Датекс | Тремол; vacío = por serial
	Reason       string          `json:"reason" validate:"required"`
	Currency     string          `json:"currency" validate:"omitempty,oneof=BGN EUR"`
	DateStart    string          `json:"date_start"` // texto libre tal como se imprime
	DateStop     string          `json:"date_stop"`
	Turnover     decimal.Decimal `json:"turnover"`
	StornoTotal  decimal.Decimal `json:"storno_total"`
	VatA         decimal.Decimal `json:"vat_a"`
	VatB         decimal.Decimal `json:"vat_b"`
	VatV         decimal.Decimal `json:"vat_v"`
	VatG         decimal.Decimal `json:"vat_g"`
	StornoA      decimal.Decimal `json:"storno_a"`
	StornoB      decimal.Decimal `json:"storno_b"`
	StornoV      decimal.Decimal `json:"storno_v"`
	StornoG      decimal.Decimal `json:"storno_g"`
}

// Validate comprueba motivo, moneda e importes.
func (r *DeregRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Reason) == "" {
		errs = append(errs, fmt.Errorf("reason: requerido"))
	}
	switch r.Currency {
	case "", bgformat.CurrencyBGN, bgformat.CurrencyEUR:
	default:
		errs = append(errs, fmt.Errorf("currency: debe ser BGN o EUR"))
	}
	for _, a := range r.amounts() {
		if a.IsNegative() {
			errs = append(errs, fmt.Errorf("los importes no pueden ser negativos"))
			break
		}
	}
	return errors.Join(errs...)
}

// CurrencyOrDefault moneda del protocolo; por defecto BGN.
func (r *DeregRequest) CurrencyOrDefault() string {
	if r.Currency == "" {
		return bgformat.CurrencyBGN
	}
	return r.Currency
}

func (r *DeregRequest) amounts() []decimal.Decimal {
	return []decimal.Decimal{
		r.Turnover, r.StornoTotal,
		r.VatA, r.VatB, r.VatV, r.VatG,
		r.StornoA, r.StornoB, r.StornoV, r.StornoG,
	}
}

// RepairRequest POST /api/devices/:id/documents/repair.
type RepairRequest struct {
	DocumentOptions
	Problem    string `json:"problem" validate:"required"`
	RepairDate string `json:"repair_date"` // YYYY-MM-DD; vacío = hoy
}

// Validate comprueba descripción y fecha.
func (r *RepairRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Problem) == "" {
		errs = append(errs, fmt.Errorf("problem: requerido"))
	}
	errs = append(errs, isoDate("repair_date", r.RepairDate))
	return errors.Join(errs...)
}

// DocumentResponse archivo generado.
type DocumentResponse struct {
	Path    string `json:"path"`
	PDFPath string `json:"pdf_path,omitempty"`
	// Unused marcadores del mapa que la plantilla no contenía.
	Unused []string `json:"unused,omitempty"`
}

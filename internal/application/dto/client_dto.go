package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
)

// ClientRequest alta o modificación de un contrato.
type ClientRequest struct {
	ContractNumber string `json:"contract_number" validate:"required"`
	Status         string `json:"status"`
	ContractStart  string `json:"contract_start"`  // YYYY-MM-DD
	ContractExpiry string `json:"contract_expiry"` // YYYY-MM-DD
	CompanyName    string `json:"company_name" validate:"required"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Address        string `json:"address"`
	EIK            string `json:"eik"`
	VatRegistered  string `json:"vat_registered" validate:"omitempty,oneof=да не"`
	MOL            string `json:"mol"`
	Phone1         string `json:"phone1"`
	Phone2         string `json:"phone2"`
}

// Validate comprueba campos obligatorios y fechas.
func (r *ClientRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.ContractNumber) == "" {
		errs = append(errs, fmt.Errorf("contract_number: requerido"))
	}
	if strings.TrimSpace(r.CompanyName) == "" {
		errs = append(errs, fmt.Errorf("company_name: requerido"))
	}
	errs = append(errs, isoDate("contract_start", r.ContractStart), isoDate("contract_expiry", r.ContractExpiry))
	switch strings.ToLower(strings.TrimSpace(r.VatRegistered)) {
	case "", entity.VatRegisteredYes, entity.VatRegisteredNo:
	default:
		errs = append(errs, fmt.Errorf("vat_registered: debe ser «да» o «не»"))
	}
	return errors.Join(errs...)
}

// isoDate nil si v está vacío o es YYYY-MM-DD.
func isoDate(field, v string) error {
	if v == "" {
		return nil
	}
	if _, ok := fiscal.ParseISODate(v); !ok {
		return fmt.Errorf("%s: fecha inválida %q (YYYY-MM-DD)", field, v)
	}
	return nil
}

// Apply copia la petición sobre el cliente.
func (r *ClientRequest) Apply(c *entity.Client) {
	c.ContractNumber = strings.TrimSpace(r.ContractNumber)
	c.Status = r.Status
	c.ContractStart = r.ContractStart
	c.ContractExpiry = r.ContractExpiry
	c.CompanyName = r.CompanyName
	c.City = r.City
	c.PostalCode = r.PostalCode
	c.Address = r.Address
	c.EIK = r.EIK
	c.VatRegistered = strings.ToLower(strings.TrimSpace(r.VatRegistered))
	c.MOL = r.MOL
	c.Phone1 = r.Phone1
	c.Phone2 = r.Phone2
}

// ClientResponse salida de un contrato.
type ClientResponse struct {
	ID             string    `json:"id"`
	ContractNumber string    `json:"contract_number"`
	Status         string    `json:"status"`
	ContractStart  string    `json:"contract_start"`
	ContractExpiry string    `json:"contract_expiry"`
	CompanyName    string    `json:"company_name"`
	City           string    `json:"city"`
	PostalCode     string    `json:"postal_code"`
	Address        string    `json:"address"`
	EIK            string    `json:"eik"`
	VatRegistered  string    `json:"vat_registered"`
	MOL            string    `json:"mol"`
	Phone1         string    `json:"phone1"`
	Phone2         string    `json:"phone2"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewClientResponse mapea la entidad.
func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		ContractNumber: c.ContractNumber,
		Status:         c.Status,
		ContractStart:  c.ContractStart,
		ContractExpiry: c.ContractExpiry,
		CompanyName:    c.CompanyName,
		City:           c.City,
		PostalCode:     c.PostalCode,
		Address:        c.Address,
		EIK:            c.EIK,
		VatRegistered:  c.VatRegistered,
		MOL:            c.MOL,
		Phone1:         c.Phone1,
		Phone2:         c.Phone2,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ContractResponse contrato con sus dispositivos.
type ContractResponse struct {
	Client  ClientResponse   `json:"client"`
	Devices []DeviceResponse `json:"devices"`
}

// NextContractNumberResponse GET /api/clients/next-number.
type NextContractNumberResponse struct {
	ContractNumber string `json:"contract_number"`
}

// ImportResult resumen de una importación desde Excel.
type ImportResult struct {
	Clients int `json:"clients"`
	Devices int `json:"devices"`
}

// CertificateDTO certificado BIM.
type CertificateDTO struct {
	ID         string `json:"id"`
	Number     string `json:"number" validate:"required"`
	ExpiryDate string `json:"expiry_date"`
}

// AuditLogResponse entrada del historial.
type AuditLogResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Action         string    `json:"action"`
	Details        string    `json:"details"`
	ContractNumber string    `json:"contract_number,omitempty"`
	DeviceID       string    `json:"device_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewAuditLogResponse mapea la entidad.
func NewAuditLogResponse(a *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:             a.ID,
		Username:       a.Username,
		Action:         a.Action,
		Details:        a.Details,
		ContractNumber: a.ContractNumber,
		DeviceID:       a.DeviceID,
		Timestamp:      a.Timestamp,
	}
}

// RepairResponse registro de reparación.
type RepairResponse struct {
	ID           int64  `json:"id"`
	DeviceID     string `json:"device_id"`
	Problem      string `json:"problem"`
	RepairDate   string `json:"repair_date"`
	ProtocolPath string `json:"protocol_path"`
}

package entity

import (
	"strings"
	"time"
)

// Valores admitidos para Client.VatRegistered.
const (
	VatRegisteredYes = "да"
	VatRegisteredNo  = "не"
)

// Estados de contrato usados en los datos heredados.
const (
	StatusActive  = "Активен"
	StatusExpired = "Изтекъл"
)

// Client empresa titular de un contrato de servicio de dispositivos fiscales.
// Las fechas se guardan como texto ISO ("YYYY-MM-DD") porque los datos heredados
// pueden venir vacíos o malformados; se interpretan con fiscal.ParseISODate.
type Client struct {
	ID             string
	ContractNumber string
	Status         string
	ContractStart  string
	ContractExpiry string
	CompanyName    string
	City           string
	PostalCode     string
	Address        string
	EIK            string
	VatRegistered  string // "да" | "не" | ""
	MOL            string
	Phone1         string
	Phone2         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsVatRegistered indica si el cliente está registrado por ДДС.
func (c *Client) IsVatRegistered() bool {
	return strings.EqualFold(strings.TrimSpace(c.VatRegistered), VatRegisteredYes)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product artículo del catálogo del servicio (rollos, repuestos, servicios) con
// su precio en la moneda en que se cargó.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       decimal.Decimal
	Currency    string // BGN | EUR
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

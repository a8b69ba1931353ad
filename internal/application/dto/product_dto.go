package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/pkg/bgformat"
)

// ProductRequest alta o modificación de un producto del catálogo.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" validate:"omitempty,oneof=BGN EUR"` // vacío = BGN
	Description string          `json:"description"`
}

// Validate comprueba nombre, precio y moneda.
func (r *ProductRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, fmt.Errorf("name: requerido"))
	}
	if r.Price.IsNegative() {
		errs = append(errs, fmt.Errorf("price: no puede ser negativo"))
	}
	switch strings.ToUpper(strings.TrimSpace(r.Currency)) {
	case "", bgformat.CurrencyBGN, bgformat.CurrencyEUR:
	default:
		errs = append(errs, fmt.Errorf("currency: BGN o EUR"))
	}
	return errors.Join(errs...)
}

// Apply copia la petición sobre el producto; el precio se guarda con 2 decimales.
func (r *ProductRequest) Apply(p *entity.Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Category = strings.TrimSpace(r.Category)
	p.Price = r.Price.Round(2)
	p.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if p.Currency == "" {
		p.Currency = bgformat.CurrencyBGN
	}
	p.Description = strings.TrimSpace(r.Description)
}

// ProductResponse salida de un producto con su precio en ambas monedas.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	PriceBGN    decimal.Decimal `json:"price_bgn"`
	PriceEUR    decimal.Decimal `json:"price_eur"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProductResponse mapea la entidad.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Currency:    p.Currency,
		PriceBGN:    bgformat.ToBGN(p.Price, p.Currency).Round(2),
		PriceEUR:    bgformat.ToEUR(p.Price, p.Currency).Round(2),
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PriceListRequest GET /api/products/price-list.
type PriceListRequest struct {
	Mode   string `query:"mode"`   // bgn_eur (por defecto) | eur
	Format string `query:"format"` // docx (por defecto) | xlsx | pdf
}

// Package vat consulta datos de empresas búlgaras por ЕИК: VIES (registro ДДС) y
// el Търговски регистър, y normaliza nombre, МОЛ y dirección.
package vat

import (
	"context"
	"net/http"
	"time"

	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
	"github.com/jhoicas/fiskal-servis/pkg/bgformat"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// Result datos normalizados listos para rellenar un cliente.
type Result struct {
	Valid      bool   `json:"valid"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	MOL        string `json:"mol"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// Service combina VIES y el registro mercantil.
type Service struct {
	vies     *ViesClient
	registry *RegistryClient
	log      *logger.Logger
}

// NewService construye el servicio con un http.Client compartido.
func NewService(viesURL, registryURL string, timeout time.Duration, log *logger.Logger) *Service {
	hc := &http.Client{Timeout: timeout}
	return &Service{
		vies:     NewViesClient(viesURL, hc),
		registry: NewRegistryClient(registryURL, hc),
		log:      log.Component("vat"),
	}
}

// Lookup consulta VIES y completa con el registro. Los fallos de cada fuente se
// registran y no cortan la consulta; si ninguna responde devuelve ErrLookupUnavailable.
func (s *Service) Lookup(ctx context.Context, eik string) (*Result, error) {
	eik = fiscal.DigitsOnly(eik)
	if eik == "" {
		return nil, domain.ErrInvalidInput
	}

	res := &Result{}
	answered := false

	vr, err := s.vies.CheckVat(ctx, eik)
	if err != nil {
		s.log.Warn().Err(err).Str("eik", eik).Msg("VIES no disponible")
	} else {
		answered = true
		res.Valid = vr.Valid
		res.Name = vr.Name
		res.Address = vr.Address
	}

	district := ""
	rr, err := s.registry.Lookup(ctx, eik)
	if err != nil {
		s.log.Warn().Err(err).Str("eik", eik).Msg("registro mercantil no disponible")
	} else if rr != nil {
		answered = true
		if res.Name == "" {
			res.Name = rr.Name
		}
		res.MOL = bgformat.TitleCase(rr.MOL)
		district = bgformat.ParseAddress(rr.Address).District
		if res.Address == "" {
			res.Address = rr.Address
		}
	}

	if !answered {
		return nil, domain.ErrLookupUnavailable
	}

	addr := bgformat.ParseAddress(res.Address)
	if addr.District == "" {
		addr.District = district
	}
	res.City = bgformat.TitleCase(addr.City)
	res.PostalCode = addr.PostalCode
	if res.Name != "" {
		res.Name = bgformat.CompanyName(res.Name)
	}
	res.Address = bgformat.CleanAddress(res.Address, addr.District)
	return res, nil
}

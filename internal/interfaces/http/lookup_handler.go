package http

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/vat"
)

// eikLookup interfaz mínima del servicio de consulta por ЕИК.
type eikLookup interface {
	Lookup(ctx context.Context, eik string) (*vat.Result, error)
}

// LookupHandler consulta de empresa por ЕИК y descarga de archivos generados.
type LookupHandler struct {
	lookup    eikLookup
	outputDir string
}

// NewLookupHandler construye el handler. lookup nil deshabilita la consulta.
func NewLookupHandler(lookup eikLookup, outputDir string) *LookupHandler {
	return &LookupHandler{lookup: lookup, outputDir: outputDir}
}

// LookupEIK godoc
// @Summary      Datos de empresa por ЕИК
// @Description  VIES y Търговски регистър; normaliza nombre, МОЛ y dirección.
// @Tags         lookup
// @Produce      json
// @Security     BearerAuth
// @Param        eik  path  string  true  "ЕИК"
// @Success      200  {object}  vat.Result
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/lookup/{eik} [get]
func (h *LookupHandler) LookupEIK(c *fiber.Ctx) error {
	if h.lookup == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOOKUP_UNAVAILABLE", Message: "consulta por ЕИК no configurada"})
	}
	out, err := h.lookup.Lookup(c.Context(), c.Params("eik"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar un documento generado
// @Tags         files
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        name  path  string  true  "Nombre del archivo"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/files/{name} [get]
func (h *LookupHandler) Download(c *fiber.Ctx) error {
	// Solo el nombre base: sin rutas fuera de OUTPUT_DIR.
	name := filepath.Base(c.Params("name"))
	if name == "." || name == string(filepath.Separator) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre de archivo inválido"})
	}
	path := filepath.Join(h.outputDir, name)
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "archivo no encontrado"})
	}
	return c.Download(path, name)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/application/registry"
)

// ImportHandler certificados BIM e importación del libro Excel.
type ImportHandler struct {
	uc *registry.RegistryUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *registry.RegistryUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// ListCertificates godoc
// @Summary      Certificados BIM
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CertificateDTO
// @Router       /api/certificates [get]
func (h *ImportHandler) ListCertificates(c *fiber.Ctx) error {
	out, err := h.uc.ListCertificates(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpsertCertificate godoc
// @Summary      Alta o actualización de certificado por número
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CertificateDTO  true  "number, expiry_date"
// @Success      200  {object}  dto.CertificateDTO
// @Router       /api/certificates [post]
func (h *ImportHandler) UpsertCertificate(c *fiber.Ctx) error {
	var in dto.CertificateDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpsertCertificate(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteCertificate godoc
// @Summary      Eliminar certificado
// @Tags         certificates
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del certificado"
// @Success      204
// @Router       /api/certificates/{id} [delete]
func (h *ImportHandler) DeleteCertificate(c *fiber.Ctx) error {
	if err := h.uc.DeleteCertificate(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportCertificates godoc
// @Summary      Importar certificados BIM desde Excel
// @Description  Reemplaza la tabla completa. Solo admin.
// @Tags         certificates
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Libro .xlsx"
// @Success      200  {object}  map[string]int
// @Router       /api/certificates/import [post]
func (h *ImportHandler) ImportCertificates(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return missingFile(c)
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	n, err := h.uc.ImportCertificates(c.Context(), Actor(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"certificates": n})
}

// ImportWorkbook godoc
// @Summary      Importar contratos y dispositivos desde Excel
// @Description  Primera hoja del libro; los dispositivos de cada contrato importado se reemplazan. Solo admin.
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Libro .xlsx"
// @Success      200  {object}  dto.ImportResult
// @Router       /api/import/workbook [post]
func (h *ImportHandler) ImportWorkbook(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return missingFile(c)
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	out, err := h.uc.ImportWorkbook(c.Context(), Actor(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func missingFile(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo multipart «file» requerido"})
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/documents"
	"github.com/jhoicas/fiskal-servis/internal/application/dto"
)

// DocumentHandler generación de documentos a partir de plantillas .docx.
type DocumentHandler struct {
	uc *documents.DocumentsUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.DocumentsUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// ServiceContract godoc
// @Summary      Договор за сервизно обслужване
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        number  path  string               true   "Número de contrato"
// @Param        body    body  dto.DocumentOptions  false  "pdf"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/contracts/{number}/documents/service-contract [post]
func (h *DocumentHandler) ServiceContract(c *fiber.Ctx) error {
	var in dto.DocumentOptions
	if err := parseOptional(c, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.GenerateServiceContract(c.Context(), Actor(c), c.Params("number"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegistrationCertificate godoc
// @Summary      Свидетелство за регистрация
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string              true   "ID del dispositivo"
// @Param        body  body  dto.RegCertRequest  false  "certificate_number, pdf"
// @Success      201  {object}  dto.DocumentResponse
// @Router       /api/devices/{id}/documents/reg-cert [post]
func (h *DocumentHandler) RegistrationCertificate(c *fiber.Ctx) error {
	var in dto.RegCertRequest
	if err := parseOptional(c, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.GenerateRegistrationCertificate(c.Context(), Actor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeregistrationProtocol godoc
// @Summary      Протокол за дерегистрация
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string            true  "ID del dispositivo"
// @Param        body  body  dto.DeregRequest  true  "Motivo e importes"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/devices/{id}/documents/dereg [post]
func (h *DocumentHandler) DeregistrationProtocol(c *fiber.Ctx) error {
	var in dto.DeregRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.GenerateDeregistrationProtocol(c.Context(), Actor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RepairProtocol godoc
// @Summary      Протокол за ремонт
// @Description  Registra la reparación y genera el protocolo numerado.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "ID del dispositivo"
// @Param        body  body  dto.RepairRequest  true  "problem, repair_date"
// @Success      201  {object}  dto.DocumentResponse
// @Router       /api/devices/{id}/documents/repair [post]
func (h *DocumentHandler) RepairProtocol(c *fiber.Ctx) error {
	var in dto.RepairRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.GenerateRepairProtocol(c.Context(), Actor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// NAPXML godoc
// @Summary      Declaración XML para НАП
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del dispositivo"
// @Success      201  {object}  dto.DocumentResponse
// @Router       /api/devices/{id}/documents/nap-xml [post]
func (h *DocumentHandler) NAPXML(c *fiber.Ctx) error {
	out, err := h.uc.GenerateNAPXML(c.Context(), Actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// parseOptional el cuerpo puede omitirse por completo.
func parseOptional(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/application/registry"
)

// DeviceHandler fiscal devices (ФУ).
type DeviceHandler struct {
	uc *registry.RegistryUseCase
}

// NewDeviceHandler construye el handler.
func NewDeviceHandler(uc *registry.RegistryUseCase) *DeviceHandler {
	return &DeviceHandler{uc: uc}
}

// Search godoc
// @Summary      Buscar dispositivos
// @Description  Filtros combinables; sin filtros devuelve todos.
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        company    query  string  false  "Empresa (parcial)"
// @Param        eik        query  string  false  "ЕИК"
// @Param        contract   query  string  false  "Número de contrato"
// @Param        phone      query  string  false  "Teléfono"
// @Param        address    query  string  false  "Dirección"
// @Param        serial     query  string  false  "Número de serie"
// @Param        euro_only  query  bool    false  "Solo migrados a EUR"
// @Success      200  {array}  dto.DeviceWithClientResponse
// @Router       /api/devices [get]
func (h *DeviceHandler) Search(c *fiber.Ctx) error {
	var in dto.DeviceSearchRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.SearchDevices(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Dispositivo y su contrato
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del dispositivo"
// @Success      200  {object}  dto.DeviceWithClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/devices/{id} [get]
func (h *DeviceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetDevice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar dispositivo
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "ID del dispositivo"
// @Param        body  body  dto.DeviceRequest  true  "Datos del dispositivo"
// @Success      200  {object}  dto.DeviceResponse
// @Router       /api/devices/{id} [put]
func (h *DeviceHandler) Update(c *fiber.Ctx) error {
	var in dto.DeviceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateDevice(c.Context(), Actor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar dispositivo
// @Tags         devices
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del dispositivo"
// @Success      204
// @Router       /api/devices/{id} [delete]
func (h *DeviceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteDevice(c.Context(), Actor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Historial del dispositivo
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del dispositivo"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/devices/{id}/history [get]
func (h *DeviceHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.DeviceHistory(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Repairs godoc
// @Summary      Reparaciones del dispositivo
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del dispositivo"
// @Success      200  {array}  dto.RepairResponse
// @Router       /api/devices/{id}/repairs [get]
func (h *DeviceHandler) Repairs(c *fiber.Ctx) error {
	out, err := h.uc.ListRepairs(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

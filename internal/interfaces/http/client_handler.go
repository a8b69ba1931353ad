package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/application/registry"
)

// ClientHandler contratos (клиенти) y sus dispositivos.
type ClientHandler struct {
	uc *registry.RegistryUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *registry.RegistryUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// ListContracts godoc
// @Summary      Números de contrato
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  string
// @Router       /api/contracts [get]
func (h *ClientHandler) ListContracts(c *fiber.Ctx) error {
	numbers, err := h.uc.ListContractNumbers(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(numbers)
}

// NextNumber godoc
// @Summary      Siguiente número de contrato libre
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.NextContractNumberResponse
// @Router       /api/contracts/next-number [get]
func (h *ClientHandler) NextNumber(c *fiber.Ctx) error {
	out, err := h.uc.NextContractNumber(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetContract godoc
// @Summary      Contrato con sus dispositivos
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        number  path  string  true  "Número de contrato"
// @Success      200  {object}  dto.ContractResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{number} [get]
func (h *ClientHandler) GetContract(c *fiber.Ctx) error {
	out, err := h.uc.GetContract(c.Context(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ContractHistory godoc
// @Summary      Historial del contrato
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        number  path  string  true  "Número de contrato"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/contracts/{number}/history [get]
func (h *ClientHandler) ContractHistory(c *fiber.Ctx) error {
	out, err := h.uc.ContractHistory(c.Context(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta de contrato
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ClientRequest  true  "Datos del contrato"
// @Success      201  {object}  dto.ClientResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateClient(c.Context(), Actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Contrato por ID de cliente
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ContractResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetClient(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar contrato
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "ID del cliente"
// @Param        body  body  dto.ClientRequest  true  "Datos del contrato"
// @Success      200  {object}  dto.ClientResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateClient(c.Context(), Actor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Baja de contrato y sus dispositivos
// @Tags         clients
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del cliente"
// @Success      204
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteClient(c.Context(), Actor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddDevice godoc
// @Summary      Añadir dispositivo al contrato
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "ID del cliente"
// @Param        body  body  dto.DeviceRequest  true  "Datos del dispositivo"
// @Success      201  {object}  dto.DeviceResponse
// @Router       /api/clients/{id}/devices [post]
func (h *ClientHandler) AddDevice(c *fiber.Ctx) error {
	var in dto.DeviceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateDevice(c.Context(), Actor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

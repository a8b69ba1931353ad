package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/application/nra"
	"github.com/jhoicas/fiskal-servis/internal/application/reports"
)

var exportContentTypes = map[string]string{
	reports.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	reports.FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	reports.FormatPDF:  "application/pdf",
}

// sendAttachment responde el archivo exportado como descarga.
func sendAttachment(c *fiber.Ctx, format, fileName string, data []byte) error {
	c.Set(fiber.HeaderContentType, exportContentTypes[format])
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(data)
}

// ReportHandler справки y el reporte para НАП.
type ReportHandler struct {
	expiring *reports.ExpiringUseCase
	nra      *nra.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(expiring *reports.ExpiringUseCase, nraUC *nra.ReportUseCase) *ReportHandler {
	return &ReportHandler{expiring: expiring, nra: nraUC}
}

// Expiring godoc
// @Summary      Contratos que vencen en un mes
// @Tags         reports
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        month   query  int     true   "Mes 1-12"
// @Param        year    query  int     true   "Año"
// @Param        format  query  string  false  "json (por defecto), xlsx, docx o pdf"
// @Success      200  {array}  dto.ExpiringContractDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/expiring [get]
func (h *ReportHandler) Expiring(c *fiber.Ctx) error {
	month := c.QueryInt("month")
	year := c.QueryInt("year")
	if month == 0 || year == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "month y year son requeridos"})
	}
	format := reports.NormalizeFormat(c.Query("format", reports.FormatJSON))
	if format == reports.FormatJSON {
		rows, err := h.expiring.ExpiringContracts(c.Context(), month, year)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(rows)
	}

	data, err := h.expiring.ExportExpiring(c.Context(), month, year, format)
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, format, reports.ExpiringFileName(month, year, format), data)
}

// NRAReport godoc
// @Summary      Generar fiskal.ser para НАП
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  dto.NRAReportResponse
// @Router       /api/reports/nra [post]
func (h *ReportHandler) NRAReport(c *fiber.Ctx) error {
	out, err := h.nra.GenerateReport(c.Context(), Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

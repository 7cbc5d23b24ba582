package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler reportes descargables.
type ReportHandler struct {
	items  ItemService
	report ReportGenerator
	now    func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(items ItemService, report ReportGenerator, now func() time.Time) *ReportHandler {
	return &ReportHandler{items: items, report: report, now: now}
}

// LowStockPDF godoc
// @Summary      Reporte PDF de stock bajo
// @Tags         inventory
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/low-stock/report.pdf [get]
func (h *ReportHandler) LowStockPDF(c *fiber.Ctx) error {
	items, err := h.items.LowStockItems(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	at := h.now()
	pdfBytes, err := h.report.Generate(c.Context(), items, at)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="low-stock-%s.pdf"`, at.Format("20060102")))
	return c.Send(pdfBytes)
}

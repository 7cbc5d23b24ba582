package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
)

// AlertHandler alertas de stock.
type AlertHandler struct {
	uc AlertService
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc AlertService) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Produce      json
// @Param        product_id  query  string  false  "Product ID"
// @Param        resolved    query  string  false  "true | false"
// @Param        severity    query  string  false  "Low | Medium | High | Critical"
// @Param        page        query  int     false  "Página"
// @Param        page_size   query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var f dto.AlertFilter
	if err := c.QueryParser(&f); err != nil {
		return invalidQuery(c)
	}
	if err := validate.Struct(f); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.List(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener alerta
// @Tags         alerts
// @Produce      json
// @Param        id   path      string  true  "Alert ID"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/alerts/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !isUUID(id) {
		return invalidID(c, id)
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Produce      json
// @Param        id   path      string  true  "Alert ID"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/alerts/{id}/read [patch]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if !isUUID(id) {
		return invalidID(c, id)
	}
	out, err := h.uc.MarkRead(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
)

// SalesHandler ventas y devoluciones.
type SalesHandler struct {
	uc SalesService
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc SalesService) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar venta o devolución
// @Description  Guarda la transacción y aplica el movimiento de stock correspondiente en una sola transacción.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RecordSaleRequest  true  "product_id, quantity; unit_price y location por defecto del producto"
// @Success      201   {object}  dto.RecordSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/sales [post]
func (h *SalesHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.RecordSale(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        product_id  query  string  false  "Product ID"
// @Param        location    query  string  false  "Ubicación"
// @Param        from        query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        page        query  int     false  "Página"
// @Param        page_size   query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.SalesListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	var f dto.SalesFilter
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

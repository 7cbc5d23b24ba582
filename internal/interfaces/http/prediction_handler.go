package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/application/prediction"
)

// PredictionHandler pronósticos de demanda y recomendaciones de pedido.
type PredictionHandler struct {
	svc PredictionService
}

// NewPredictionHandler construye el handler.
func NewPredictionHandler(svc PredictionService) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

// Demand godoc
// @Summary      Pronóstico de demanda de un producto
// @Description  Promedio diario de los últimos 90 días proyectado days días (30 por defecto).
// @Tags         predictions
// @Produce      json
// @Param        productId  path      string  true   "Product ID"
// @Param        days       query     int     false  "Horizonte en días (1-365)"
// @Success      200        {object}  dto.PredictionResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/v1/predictions/demand/{productId} [get]
func (h *PredictionHandler) Demand(c *fiber.Ctx) error {
	id := c.Params("productId")
	if !isUUID(id) {
		return invalidID(c, id)
	}
	days, ok := queryInt(c, "days")
	if !ok {
		return invalidQuery(c)
	}
	res, err := h.svc.DemandForecast(c.Context(), id, days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(prediction.ToPredictionResponse(res))
}

// StockOut godoc
// @Summary      Productos que se quedarán sin stock
// @Tags         predictions
// @Produce      json
// @Param        location    query  string  false  "Ubicación"
// @Param        days_ahead  query  int     false  "Horizonte en días (30 por defecto)"
// @Success      200  {array}   dto.PredictionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/predictions/stockout [get]
func (h *PredictionHandler) StockOut(c *fiber.Ctx) error {
	daysAhead, ok := queryInt(c, "days_ahead")
	if !ok {
		return invalidQuery(c)
	}
	list, err := h.svc.StockOutPredictions(c.Context(), c.Query("location"), daysAhead)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(prediction.ToPredictionResponses(list))
}

// ReorderRecommendations godoc
// @Summary      Recomendaciones de pedido
// @Tags         predictions
// @Produce      json
// @Success      200  {array}   dto.ReorderRecommendationResponse
// @Router       /api/v1/predictions/reorder-recommendations [get]
func (h *PredictionHandler) ReorderRecommendations(c *fiber.Ctx) error {
	list, err := h.svc.ReorderRecommendations(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(prediction.ToReorderResponses(list))
}

// Run godoc
// @Summary      Recalcular días de stock restantes
// @Description  Sin product_ids recalcula todos los productos activos.
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RunModelRequest  false  "product_ids, forecast_days"
// @Success      200   {object}  dto.RunModelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/predictions/run [post]
func (h *PredictionHandler) Run(c *fiber.Ctx) error {
	var in dto.RunModelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.svc.RunModel(c.Context(), in.ProductIDs, in.ForecastDays)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// queryInt entero opcional; ausente es 0.
func queryInt(c *fiber.Ctx, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

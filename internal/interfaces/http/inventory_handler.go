package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
)

// InventoryHandler productos rastreados y movimientos de stock.
type InventoryHandler struct {
	items     ItemService
	movements MovementService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(items ItemService, movements MovementService) *InventoryHandler {
	return &InventoryHandler{items: items, movements: movements}
}

// List godoc
// @Summary      Listar productos
// @Tags         inventory
// @Produce      json
// @Param        location   query  string  false  "Ubicación exacta"
// @Param        category   query  string  false  "Categoría"
// @Param        status     query  string  false  "OutOfStock | CriticallyLow | Low | Optimal | High | Overstocked"
// @Param        page       query  int     false  "Página (desde 1)"
// @Param        page_size  query  int     false  "Tamaño de página (máx. 200)"
// @Success      200  {object}  dto.InventoryItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var f dto.InventoryItemFilter
	if err := c.QueryParser(&f); err != nil {
		return invalidQuery(c)
	}
	if err := validate.Struct(f); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.items.List(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         inventory
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  dto.InventoryItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !isUUID(id) {
		return invalidID(c, id)
	}
	out, err := h.items.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Description  Clasifica el stock inicial; si nace por debajo del mínimo abre la alerta.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInventoryItemRequest  true  "Datos del producto"
// @Success      201   {object}  dto.InventoryItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.items.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Edita datos y umbrales; el stock solo cambia con movimientos. Requiere la versión leída.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "Product ID"
// @Param        body  body      dto.UpdateInventoryItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.InventoryItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if !isUUID(id) {
		return invalidID(c, id)
	}
	var in dto.UpdateInventoryItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.items.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar producto
// @Tags         inventory
// @Param        id   path  string  true  "Product ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/{id} [delete]
func (h *InventoryHandler) Deactivate(c *fiber.Ctx) error {
	id := c.Params("id")
	if !isUUID(id) {
		return invalidID(c, id)
	}
	if err := h.items.Deactivate(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Aplica el movimiento, reclasifica el estado y abre o resuelve la alerta en la misma transacción.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterMovementRequest  true  "product_id, type (Purchase|Sale|Adjustment|Return|Transfer|Damaged|Expired), quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/movement [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.movements.RegisterMovementFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LowStock godoc
// @Summary      Productos en o bajo el mínimo
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.InventoryItemResponse
// @Router       /api/v1/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.items.LowStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByLocation godoc
// @Summary      Productos activos de una ubicación
// @Tags         inventory
// @Produce      json
// @Param        location  path      string  true  "Ubicación"
// @Success      200       {array}   dto.InventoryItemResponse
// @Router       /api/v1/inventory/by-location/{location} [get]
func (h *InventoryHandler) ByLocation(c *fiber.Ctx) error {
	location, err := url.PathUnescape(c.Params("location"))
	if err != nil || location == "" {
		return missingID(c)
	}
	out, err := h.items.ByLocation(c.Context(), location)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

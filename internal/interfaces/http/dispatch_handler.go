package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/application/dto"
	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/internal/domain"
)

// DispatchHandler plan FIFO y confirmación de despachos (protegido).
type DispatchHandler struct {
	uc *inventory.DispatchUseCase
}

// NewDispatchHandler construye el handler.
func NewDispatchHandler(uc *inventory.DispatchUseCase) *DispatchHandler {
	return &DispatchHandler{uc: uc}
}

// Plan godoc
// @Summary      Propuesta de despacho FIFO
// @Description  Recorre las asignaciones aprobadas por vencimiento; no modifica el stock.
// @Tags         dispatch
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Almacén"
// @Param        quantity      query  string  true  "Cantidad pedida"
// @Success      200  {object}  dto.DispatchPlanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dispatch/plan [get]
func (h *DispatchHandler) Plan(c *fiber.Ctx) error {
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return respondError(c, domain.ErrInvalidInput)
	}
	if !warehouseAllowed(c, warehouseID) {
		return respondError(c, domain.ErrForbidden)
	}
	qty, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser numérico"})
	}
	plan, err := h.uc.Plan(c.Context(), productID, warehouseID, qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToPlanResponse(plan))
}

// Commit godoc
// @Summary      Confirmar despacho
// @Description  Aplica todas las selecciones en una sola transacción; si una falla no se aplica ninguna.
// @Tags         dispatch
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitDispatchRequest  true  "selecciones"
// @Success      201   {object}  dto.CommitDispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/dispatch/commit [post]
func (h *DispatchHandler) Commit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CommitDispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CommitFromRequest(c.Context(), userID, GetWarehouseID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

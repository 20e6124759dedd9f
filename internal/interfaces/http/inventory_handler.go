package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-core/internal/application/dto"
	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/internal/domain"
)

// InventoryHandler maneja ingresos de mercadería y el balance de lotes (protegido).
type InventoryHandler struct {
	receipt *inventory.ReceiptUseCase
	balance *inventory.LotBalanceUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(receipt *inventory.ReceiptUseCase, balance *inventory.LotBalanceUseCase) *InventoryHandler {
	return &InventoryHandler{receipt: receipt, balance: balance}
}

// Receive godoc
// @Summary      Registrar ingreso de un lote
// @Description  Crea el lote y una asignación en cuarentena por cada celda indicada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "orden de ingreso, lote y ubicaciones"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if !warehouseAllowed(c, in.WarehouseID) {
		return respondError(c, domain.ErrForbidden)
	}
	out, err := h.receipt.ReceiveFromRequest(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LotBalance godoc
// @Summary      Balance de conservación de un lote
// @Description  recibido = vivo + despachado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotBalanceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id}/balance [get]
func (h *InventoryHandler) LotBalance(c *fiber.Ctx) error {
	b, err := h.balance.Balance(c.Context(), c.Params("id"), GetWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToLotBalanceResponse(b))
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-core/internal/application/dto"
	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/internal/domain"
)

// QualityHandler transiciones de control de calidad (protegido).
type QualityHandler struct {
	uc *inventory.QualityUseCase
}

// NewQualityHandler construye el handler.
func NewQualityHandler(uc *inventory.QualityUseCase) *QualityHandler {
	return &QualityHandler{uc: uc}
}

// Transition godoc
// @Summary      Ejecutar transición de calidad
// @Description  Mueve total o parcialmente una asignación en cuarentena a su nuevo estado.
// @Tags         quality
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransitionRequest  true  "asignación, estado destino, cantidades, celda y motivo"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/quality/transitions [post]
func (h *QualityHandler) Transition(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ExecuteTransitionFromRequest(c.Context(), userID, GetWarehouseID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BulkTransition godoc
// @Summary      Transiciones de calidad en lote
// @Description  Cada elemento se confirma por separado; responde 207 si alguno falló.
// @Tags         quality
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkTransitionRequest  true  "items"
// @Success      200   {object}  dto.BulkTransitionResponse
// @Success      207   {object}  dto.BulkTransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quality/transitions/bulk [post]
func (h *QualityHandler) BulkTransition(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.BulkTransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Items) == 0 {
		return respondError(c, domain.ErrInvalidInput)
	}
	scope := GetWarehouseID(c)
	items := make([]inventory.TransitionInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.TransitionInputFromRequest(userID, scope, it))
	}

	results := h.uc.BulkTransition(c.Context(), items)
	out := dto.BulkTransitionResponse{Items: make([]dto.BulkItemResponse, 0, len(results))}
	for _, r := range results {
		item := dto.BulkItemResponse{AllocationID: r.AllocationID}
		if r.Err != nil {
			_, body := toErrorResponse(r.Err)
			item.Status, item.Error = "error", &body
			out.Failed++
		} else {
			item.Status, item.Result = "ok", inventory.ToTransitionResponse(r.Result)
			out.Applied++
		}
		out.Items = append(out.Items, item)
	}
	status := fiber.StatusOK
	if out.Failed > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(out)
}

// History godoc
// @Summary      Historial de calidad de una asignación
// @Tags         quality
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la asignación"
// @Success      200  {array}   dto.QualityTransitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/quality/allocations/{id}/history [get]
func (h *QualityHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.Context(), c.Params("id"), GetWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToQualityTransitionResponses(list))
}

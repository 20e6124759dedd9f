package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-core/internal/application/dto"
	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// WarehouseHandler maneja el espacio de celdas de un almacén (protegido).
type WarehouseHandler struct {
	uc *inventory.CellUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *inventory.CellUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar almacén
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "Datos del almacén"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	w, err := h.uc.CreateWarehouse(c.Context(), "", in.Name, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToWarehouseResponse(w))
}

// CreateLayout godoc
// @Summary      Generar celdas del almacén
// @Description  Crea una celda por cada fila × bahía × posición. Falla si alguna dirección ya existe.
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del almacén"
// @Param        body  body  dto.CreateLayoutRequest  true  "rows, bays, positions, capacity"
// @Success      201   {object}  dto.LayoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/layout [post]
func (h *WarehouseHandler) CreateLayout(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.CreateLayoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cells, err := h.uc.CreateLayout(c.Context(), inventory.LayoutInput{
		WarehouseID: id,
		Rows:        in.Rows,
		Bays:        in.Bays,
		Positions:   in.Positions,
		Capacity:    in.Capacity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LayoutResponse{
		WarehouseID: id,
		Created:     len(cells),
		Cells:       inventory.ToCellResponses(cells),
	})
}

// Map godoc
// @Summary      Mapa de celdas
// @Description  Filas en orden de recorrido (estándar, devoluciones, muestras, rechazos, pasillo).
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del almacén"
// @Success      200  {object}  dto.WarehouseMapResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/cells [get]
func (h *WarehouseHandler) Map(c *fiber.Ctx) error {
	id := c.Params("id")
	rows, err := h.uc.Map(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToWarehouseMapResponse(id, rows))
}

// Destinations godoc
// @Summary      Sugerir celdas destino
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del almacén"
// @Param        target    query  string  true  "RETURNS | SAMPLES | REJECTED"
// @Param        packages  query  int     true  "Bultos a ubicar"
// @Success      200  {object}  dto.DestinationSuggestionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/destinations [get]
func (h *WarehouseHandler) Destinations(c *fiber.Ctx) error {
	target := entity.QualityStatus(c.Query("target"))
	if !target.Valid() {
		return respondError(c, domain.ErrInvalidInput)
	}
	plan, err := h.uc.SuggestDestinations(c.Context(), c.Params("id"), target, c.QueryInt("packages", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToDestinationResponse(target, plan))
}

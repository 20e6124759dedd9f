package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-core/internal/application/dto"
)

// warehouseAllowed informa si el token puede operar sobre el almacén.
// Un token sin warehouse_id (administración central) puede operar sobre todos.
func warehouseAllowed(c *fiber.Ctx, warehouseID string) bool {
	scope := GetWarehouseID(c)
	return scope == "" || scope == warehouseID
}

// RequireWarehouseScope rechaza con 403 las rutas /warehouses/:param de otro almacén.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireWarehouseScope(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !warehouseAllowed(c, c.Params(param)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "WAREHOUSE_FORBIDDEN",
				Message: "el token no tiene acceso a este almacén",
			})
		}
		return c.Next()
	}
}

package http

import (
	stdhttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/wms-core/internal/application/auth"
	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName    string
	AuthUC     *auth.AuthUseCase
	CellUC     *inventory.CellUseCase
	ReceiptUC  *inventory.ReceiptUseCase
	BalanceUC  *inventory.LotBalanceUseCase
	DispatchUC *inventory.DispatchUseCase
	QualityUC  *inventory.QualityUseCase
	JWTSecret  string
	Metrics    stdhttp.Handler // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/api/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole()
	admin := RequireRole(jwt.RoleAdmin)
	api.Post("/auth/register", admin, authHandler.Register)
	operators := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	inspectors := RequireRole(jwt.RoleAdmin, jwt.RoleCalidad)

	// Warehouses: espacio de celdas
	warehouseHandler := NewWarehouseHandler(deps.CellUC)
	api.Post("/warehouses", admin, warehouseHandler.Create)
	warehouses := api.Group("/warehouses/:id", RequireWarehouseScope("id"))
	warehouses.Post("/layout", admin, warehouseHandler.CreateLayout)
	warehouses.Get("/cells", anyRole, warehouseHandler.Map)
	warehouses.Get("/destinations", anyRole, warehouseHandler.Destinations)

	// Inventory: ingresos y balance de lotes
	inventoryHandler := NewInventoryHandler(deps.ReceiptUC, deps.BalanceUC)
	api.Post("/inventory/receipts", operators, inventoryHandler.Receive)
	api.Get("/inventory/lots/:id/balance", anyRole, inventoryHandler.LotBalance)

	// Dispatch: plan FIFO y confirmación
	dispatchHandler := NewDispatchHandler(deps.DispatchUC)
	api.Get("/dispatch/plan", operators, dispatchHandler.Plan)
	api.Post("/dispatch/commit", operators, dispatchHandler.Commit)

	// Quality: máquina de estados de calidad
	qualityHandler := NewQualityHandler(deps.QualityUC)
	api.Post("/quality/transitions", inspectors, qualityHandler.Transition)
	api.Post("/quality/transitions/bulk", inspectors, qualityHandler.BulkTransition)
	api.Get("/quality/allocations/:id/history", anyRole, qualityHandler.History)
}

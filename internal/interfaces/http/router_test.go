package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/wms-core/internal/application/auth"
	"github.com/jhoicas/wms-core/internal/application/dto"
	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/infrastructure/metrics"
	"github.com/jhoicas/wms-core/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/wms-core/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/wms-core/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testWarehouseID   = "w1"
	testAdminEmail    = "admin@wms.local"
	testAdminPassword = "cambiar-123"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// buildAPI arma la API completa sobre SQLite en memoria con un almacén "w1".
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	warehouses := sqlite.NewWarehouseRepository(db)
	now := time.Now()
	require.NoError(t, warehouses.Create(ctx, &entity.Warehouse{ID: testWarehouseID, Name: "Central", CreatedAt: now, UpdatedAt: now}))

	repos := sqlite.NewRepos(db)
	tx := sqlite.NewTxRunner(db)
	rec := metrics.NewPrometheusRecorder()
	log := zerolog.Nop()

	authUC := auth.NewAuthUseCase(sqlite.NewUserRepository(db), warehouses, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, log).WithCost(bcrypt.MinCost)
	require.NoError(t, authUC.EnsureAdmin(ctx, testAdminEmail, testAdminPassword))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:    "wms-core-test",
		AuthUC:     authUC,
		CellUC:     inventory.NewCellUseCase(tx, repos.Cells, warehouses, log, rec),
		ReceiptUC:  inventory.NewReceiptUseCase(tx, warehouses, log, rec),
		BalanceUC:  inventory.NewLotBalanceUseCase(repos.Lots, repos.Allocations, repos.Movements),
		DispatchUC: inventory.NewDispatchUseCase(tx, repos.Allocations, warehouses, log, rec),
		QualityUC:  inventory.NewQualityUseCase(tx, repos.Audits, log, rec),
		JWTSecret:  testJWTSecret,
		Metrics:    rec.Handler(),
	})
	return app
}

func token(t *testing.T, role, warehouseID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: "u-" + role, WarehouseID: warehouseID, Role: role}, testExpMin)
	require.NoError(t, err)
	return tok
}

// call lanza la petición y decodifica el cuerpo en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, tok string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// layoutAndReceive crea las celdas A.01.01..A.01.02 y X.01.01..X.01.02 y recibe 100 unidades en A.01.01.
func layoutAndReceive(t *testing.T, app *fiber.App) (map[string]string, dto.ReceiptResponse) {
	t.Helper()
	var layout dto.LayoutResponse
	status := call(t, app, http.MethodPost, "/api/warehouses/w1/layout", token(t, pkgjwt.RoleAdmin, ""),
		dto.CreateLayoutRequest{Rows: []string{"A", "X"}, Bays: 1, Positions: 2}, &layout)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, 4, layout.Created)
	cells := map[string]string{}
	for _, c := range layout.Cells {
		cells[c.Reference] = c.ID
	}

	var receipt dto.ReceiptResponse
	status = call(t, app, http.MethodPost, "/api/inventory/receipts", token(t, pkgjwt.RoleBodeguero, testWarehouseID),
		dto.ReceiptRequest{
			WarehouseID: testWarehouseID, ProductID: "p1", EntryOrderNo: "OI-1", LotSeries: "L1",
			Placements: []dto.ReceiptPlacementRequest{{CellID: cells["A.01.01"], Quantity: d(100), Weight: d(50), Packages: 10, Volume: d(5)}},
		}, &receipt)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, receipt.Allocations, 1)
	return cells, receipt
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	app := buildAPI(t)

	var health map[string]string
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])

	layoutAndReceive(t, app)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `wms_operations_total{operation="receive",status="success"} 1`)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestAutorizacion_RolesYAlcanceDeAlmacen(t *testing.T) {
	app := buildAPI(t)
	layout := dto.CreateLayoutRequest{Rows: []string{"A"}, Bays: 1, Positions: 1}

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/warehouses/w1/cells", "", nil, nil))
	assert.Equal(t, http.StatusForbidden,
		call(t, app, http.MethodPost, "/api/warehouses/w1/layout", token(t, pkgjwt.RoleBodeguero, ""), layout, nil))

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden,
		call(t, app, http.MethodGet, "/api/warehouses/w1/cells", token(t, pkgjwt.RoleCalidad, "otro"), nil, &errBody))
	assert.Equal(t, "WAREHOUSE_FORBIDDEN", errBody.Code)

	assert.Equal(t, http.StatusForbidden,
		call(t, app, http.MethodGet, "/api/dispatch/plan?product_id=p1&warehouse_id=w1&quantity=1", token(t, pkgjwt.RoleBodeguero, "otro"), nil, nil))
	assert.Equal(t, http.StatusForbidden,
		call(t, app, http.MethodPost, "/api/quality/transitions", token(t, pkgjwt.RoleBodeguero, ""), dto.TransitionRequest{}, nil))

	// operaciones sobre asignaciones y lotes de otro almacén
	cells, receipt := layoutAndReceive(t, app)
	allocID := receipt.Allocations[0].ID
	foreignOperator := token(t, pkgjwt.RoleBodeguero, "otro")
	foreignInspector := token(t, pkgjwt.RoleCalidad, "otro")
	transition := dto.TransitionRequest{
		AllocationID: allocID, Target: "REJECTED", Quantity: d(10), Weight: d(5), Packages: 1,
		DestinationCellID: cells["X.01.01"], Reason: "golpe",
	}

	errBody = dto.ErrorResponse{}
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/dispatch/commit", foreignOperator,
		dto.CommitDispatchRequest{Selections: []dto.DispatchSelectionRequest{{InventoryID: allocID, SelectedQuantity: d(1), SelectedWeight: d(1)}}}, &errBody))
	assert.Equal(t, "FORBIDDEN", errBody.Code)
	assert.Equal(t, allocID, errBody.AllocationID)

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/quality/transitions", foreignInspector, transition, nil))

	var bulk dto.BulkTransitionResponse
	assert.Equal(t, http.StatusMultiStatus, call(t, app, http.MethodPost, "/api/quality/transitions/bulk", foreignInspector,
		dto.BulkTransitionRequest{Items: []dto.TransitionRequest{transition}}, &bulk))
	require.Len(t, bulk.Items, 1)
	require.NotNil(t, bulk.Items[0].Error)
	assert.Equal(t, "FORBIDDEN", bulk.Items[0].Error.Code)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/quality/transitions", token(t, pkgjwt.RoleCalidad, testWarehouseID), transition, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/quality/allocations/"+allocID+"/history", foreignInspector, nil, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/inventory/lots/"+receipt.Lot.ID+"/balance", foreignOperator, nil, nil))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/lots/"+receipt.Lot.ID+"/balance", token(t, pkgjwt.RoleBodeguero, testWarehouseID), nil, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Almacenes
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouses_CrearMapaYDestinos(t *testing.T) {
	app := buildAPI(t)
	admin := token(t, pkgjwt.RoleAdmin, "")

	var w dto.WarehouseResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/warehouses", admin, dto.CreateWarehouseRequest{Name: "Norte"}, &w))
	assert.NotEmpty(t, w.ID)

	layoutAndReceive(t, app)

	var m dto.WarehouseMapResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/warehouses/w1/cells", admin, nil, &m))
	require.Len(t, m.Rows, 2)
	assert.Equal(t, "A", m.Rows[0].Row)
	assert.Equal(t, "X", m.Rows[1].Row)
	assert.Equal(t, "OCCUPIED", m.Rows[0].Cells[0].Status)

	var dest dto.DestinationSuggestionResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/warehouses/w1/destinations?target=REJECTED&packages=3", admin, nil, &dest))
	require.Len(t, dest.Lines, 1)
	assert.Equal(t, "X.01.01", dest.Lines[0].CellRef)
	assert.Equal(t, "X", dest.Row)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/warehouses/w1/destinations?target=NOPE&packages=3", admin, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/warehouses/ghost/cells", admin, nil, nil))

	var dup dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/warehouses/w1/layout", admin,
		dto.CreateLayoutRequest{Rows: []string{"A"}, Bays: 1, Positions: 1}, &dup))
	assert.Equal(t, "VALIDATION", dup.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Calidad y despacho
// ──────────────────────────────────────────────────────────────────────────────

func TestCalidad_ErroresConContexto(t *testing.T) {
	app := buildAPI(t)
	cells, receipt := layoutAndReceive(t, app)
	inspector := token(t, pkgjwt.RoleCalidad, "")
	allocID := receipt.Allocations[0].ID

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/quality/transitions", inspector, dto.TransitionRequest{
		AllocationID: allocID, Target: "REJECTED", Quantity: d(101), Weight: d(1), Packages: 1,
		DestinationCellID: cells["X.01.01"], Reason: "golpe",
	}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_QUANTITY", e.Code)
	assert.Equal(t, allocID, e.AllocationID)
	assert.Equal(t, "quantity", e.Field)
	assert.Equal(t, "101", e.Requested)
	assert.Equal(t, "100", e.Available)

	e = dto.ErrorResponse{}
	status = call(t, app, http.MethodPost, "/api/quality/transitions", inspector, dto.TransitionRequest{
		AllocationID: allocID, Target: "REJECTED", Quantity: d(10), Weight: d(5), Packages: 1,
		DestinationCellID: cells["X.01.01"],
	}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "REASON_REQUIRED", e.Code)

	e = dto.ErrorResponse{}
	status = call(t, app, http.MethodPost, "/api/quality/transitions", inspector, dto.TransitionRequest{
		AllocationID: allocID, Target: "RETURNS", Quantity: d(10), Weight: d(5), Packages: 1, Reason: "x",
	}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "CELL_REQUIRED", e.Code)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodPost, "/api/quality/transitions", inspector, dto.TransitionRequest{
		AllocationID: "ghost", Target: "APPROVED", Quantity: d(1),
	}, nil))
}

func TestFlujo_TransicionPlanCommitBalance(t *testing.T) {
	app := buildAPI(t)
	cells, receipt := layoutAndReceive(t, app)
	inspector := token(t, pkgjwt.RoleCalidad, "")
	operator := token(t, pkgjwt.RoleBodeguero, testWarehouseID)
	allocID := receipt.Allocations[0].ID

	var bulk dto.BulkTransitionResponse
	status := call(t, app, http.MethodPost, "/api/quality/transitions/bulk", inspector, dto.BulkTransitionRequest{Items: []dto.TransitionRequest{
		{AllocationID: allocID, Target: "REJECTED", Quantity: d(40), Weight: d(20), Packages: 4, Volume: d(2), DestinationCellID: cells["X.01.01"], Reason: "golpe"},
		{AllocationID: "ghost", Target: "APPROVED", Quantity: d(1)},
	}}, &bulk)
	assert.Equal(t, http.StatusMultiStatus, status)
	assert.Equal(t, 1, bulk.Applied)
	assert.Equal(t, 1, bulk.Failed)
	require.Len(t, bulk.Items, 2)
	assert.Equal(t, "ok", bulk.Items[0].Status)
	require.NotNil(t, bulk.Items[1].Error)
	assert.Equal(t, "NOT_FOUND", bulk.Items[1].Error.Code)

	var tr dto.TransitionResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/quality/transitions", inspector, dto.TransitionRequest{
		AllocationID: allocID, Target: "APPROVED", Quantity: d(60), Weight: d(30), Packages: 6, Volume: d(3),
	}, &tr))
	assert.True(t, tr.Full)

	var hist []dto.QualityTransitionResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/quality/allocations/"+allocID+"/history", operator, nil, &hist))
	assert.Len(t, hist, 2)

	var plan dto.DispatchPlanResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/dispatch/plan?product_id=p1&warehouse_id=w1&quantity=80", operator, nil, &plan))
	require.Len(t, plan.Lines, 1)
	assert.True(t, plan.PartialFulfillment)
	assert.True(t, plan.Shortfall.Equal(d(20)))
	l := plan.Lines[0]

	sel := dto.CommitDispatchRequest{Reference: "GR-1", Selections: []dto.DispatchSelectionRequest{{
		InventoryID: l.AllocationID, SelectedQuantity: d(25), SelectedWeight: d(10), SelectedPackages: 2, ExpectedVersion: l.Version,
	}}}
	var committed dto.CommitDispatchResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/dispatch/commit", operator, sel, &committed))
	assert.True(t, committed.Total.Equal(d(25)))

	var conflict dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/dispatch/commit", operator, sel, &conflict))
	assert.Equal(t, "CONCURRENT_MODIFICATION", conflict.Code)

	var bal dto.LotBalanceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/lots/"+receipt.Lot.ID+"/balance", operator, nil, &bal))
	assert.True(t, bal.Balanced)
	assert.True(t, bal.Live.Equal(d(75)))
	assert.True(t, bal.Dispatched.Equal(d(25)))

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/dispatch/plan?product_id=p1&warehouse_id=w1&quantity=abc", operator, nil, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth: login y registro de operadores
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_LoginYRegistro(t *testing.T) {
	app := buildAPI(t)

	var bad dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: testAdminEmail, Password: "otra-clave"}, &bad)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", bad.Code)

	var login dto.LoginResponse
	status = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: testAdminEmail, Password: testAdminPassword}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, pkgjwt.RoleAdmin, login.User.Role)

	// El token emitido por login abre las rutas protegidas.
	var user dto.UserResponse
	status = call(t, app, http.MethodPost, "/api/auth/register", login.Token, dto.RegisterRequest{
		Email: "bodega@wms.local", Password: "bodega-123", Role: pkgjwt.RoleBodeguero, WarehouseID: testWarehouseID,
	}, &user)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, testWarehouseID, user.WarehouseID)

	status = call(t, app, http.MethodPost, "/api/auth/register", login.Token, dto.RegisterRequest{
		Email: "bodega@wms.local", Password: "bodega-123", Role: pkgjwt.RoleBodeguero,
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var opLogin dto.LoginResponse
	status = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "bodega@wms.local", Password: "bodega-123"}, &opLogin)
	require.Equal(t, http.StatusOK, status)
	claims, err := pkgjwt.Parse(testJWTSecret, opLogin.Token)
	require.NoError(t, err)
	assert.Equal(t, testWarehouseID, claims.WarehouseID)

	status = call(t, app, http.MethodGet, "/api/warehouses/otro/cells", opLogin.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAuth_RegistroRestringidoPorAlcance(t *testing.T) {
	app := buildAPI(t)
	scopedAdmin := token(t, pkgjwt.RoleAdmin, testWarehouseID)

	status := call(t, app, http.MethodPost, "/api/auth/register", scopedAdmin, dto.RegisterRequest{
		Email: "global@wms.local", Password: "global-123", Role: pkgjwt.RoleCalidad,
	}, nil)
	assert.Equal(t, http.StatusForbidden, status, "un admin de almacén no crea operadores globales")

	status = call(t, app, http.MethodPost, "/api/auth/register", token(t, pkgjwt.RoleCalidad, ""), dto.RegisterRequest{
		Email: "x@wms.local", Password: "calidad-123", Role: pkgjwt.RoleCalidad,
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var verr dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/auth/register", scopedAdmin, dto.RegisterRequest{
		Email: "q@wms.local", Password: "corta", Role: pkgjwt.RoleCalidad, WarehouseID: testWarehouseID,
	}, &verr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", verr.Code)
}

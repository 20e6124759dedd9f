package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/wms-core/internal/application/auth"
	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/internal/domain/repository"
	"github.com/jhoicas/wms-core/internal/infrastructure/metrics"
	"github.com/jhoicas/wms-core/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-core/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/wms-core/internal/interfaces/http"
	"github.com/jhoicas/wms-core/pkg/config"
	"github.com/jhoicas/wms-core/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// store agrupa lo que los casos de uso necesitan del almacenamiento elegido.
type store struct {
	tx         inventory.TxRunner
	repos      repository.Repos
	warehouses repository.WarehouseRepository
	users      repository.UserRepository
	close      func()
}

func openStore(ctx context.Context, cfg config.DBConfig, appName string) (*store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{
			tx:         sqlite.NewTxRunner(db),
			repos:      sqlite.NewRepos(db),
			warehouses: sqlite.NewWarehouseRepository(db),
			users:      sqlite.NewUserRepository(db),
			close:      func() { _ = db.Close() },
		}, nil
	default:
		pool, err := postgres.NewPool(ctx, cfg, appName)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &store{
			tx:         postgres.NewTxRunner(pool),
			repos:      postgres.NewRepos(pool),
			warehouses: postgres.NewWarehouseRepository(pool),
			users:      postgres.NewUserRepository(pool),
			close:      pool.Close,
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStore(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer st.close()

	var rec inventory.Recorder = inventory.NopRecorder{}
	var prom *metrics.PrometheusRecorder
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheusRecorder()
		rec = prom
	}

	authUC := auth.NewAuthUseCase(st.users, st.warehouses, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	if err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}

	cellUC := inventory.NewCellUseCase(st.tx, st.repos.Cells, st.warehouses, log.Component("cells"), rec)
	receiptUC := inventory.NewReceiptUseCase(st.tx, st.warehouses, log.Component("receipt"), rec)
	dispatchUC := inventory.NewDispatchUseCase(st.tx, st.repos.Allocations, st.warehouses, log.Component("dispatch"), rec)
	qualityUC := inventory.NewQualityUseCase(st.tx, st.repos.Audits, log.Component("quality"), rec)
	balanceUC := inventory.NewLotBalanceUseCase(st.repos.Lots, st.repos.Allocations, st.repos.Movements)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "WMS Core API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	deps := httpRouter.RouterDeps{
		AppName:    cfg.App.Name,
		AuthUC:     authUC,
		CellUC:     cellUC,
		ReceiptUC:  receiptUC,
		BalanceUC:  balanceUC,
		DispatchUC: dispatchUC,
		QualityUC:  qualityUC,
		JWTSecret:  cfg.JWT.Secret,
	}
	if prom != nil {
		deps.Metrics = prom.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

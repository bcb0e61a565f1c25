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

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/application/production"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Taller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (lecturas fuera de transacción)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	componentRepo := postgres.NewProductComponentRepository(pool)
	workRepo := postgres.NewAssemblyWorkRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	orderRepo := postgres.NewExternalOrderRepository(pool)
	armadorRepo := postgres.NewArmadorRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Catálogo
	productUC := usecase.NewProductUseCase(productRepo, txRunner)
	componentUC := usecase.NewComponentUseCase(componentRepo, productRepo)
	workUC := usecase.NewWorkUseCase(workRepo, productRepo)
	armadorUC := usecase.NewArmadorUseCase(armadorRepo)

	// Motor de producción y libro de movimientos
	productionUC := production.NewUseCase(txRunner, productRepo, componentRepo, workRepo)
	historyUC := production.NewHistoryUseCase(movementRepo)

	// Órdenes de producción externa + remisión PDF
	orderUC := orders.NewUseCase(txRunner, productRepo, componentRepo, workRepo, orderRepo, armadorRepo)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	orderPDFUC := orders.NewPDFUseCase(orderRepo, armadorRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		ComponentUC:  componentUC,
		WorkUC:       workUC,
		ArmadorUC:    armadorUC,
		ProductionUC: productionUC,
		HistoryUC:    historyUC,
		OrderUC:      orderUC,
		OrderPDFUC:   orderPDFUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

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

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/application/production"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	ComponentUC  *usecase.ComponentUseCase
	WorkUC       *usecase.WorkUseCase
	ArmadorUC    *usecase.ArmadorUseCase
	ProductionUC *production.UseCase
	HistoryUC    *production.HistoryUseCase
	OrderUC      *orders.UseCase
	OrderPDFUC   *orders.PDFUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// El rol operario solo consulta; bodeguero y admin operan el inventario.
	writers := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", writers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writers, productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Componentes del BOM (protegido)
	componentHandler := NewComponentHandler(deps.ComponentUC)
	products.Post("/:id/components", writers, componentHandler.Add)
	products.Get("/:id/components", componentHandler.List)
	protected.Delete("/components/:edgeID", writers, componentHandler.Remove)

	// Trabajos de armado (protegido)
	works := protected.Group("/works")
	workHandler := NewWorkHandler(deps.WorkUC)
	works.Post("/", writers, workHandler.Create)
	works.Get("/", workHandler.List)
	products.Post("/:id/works", writers, workHandler.Attach)
	products.Get("/:id/works", workHandler.ListByProduct)
	protected.Delete("/product-works/:linkID", writers, workHandler.Detach)

	// Armadores (protegido)
	armadores := protected.Group("/armadores")
	armadorHandler := NewArmadorHandler(deps.ArmadorUC)
	armadores.Post("/", writers, armadorHandler.Create)
	armadores.Get("/", armadorHandler.List)
	armadores.Get("/:id", armadorHandler.GetByID)

	// Motor de producción (protegido)
	productionGroup := protected.Group("/production")
	productionHandler := NewProductionHandler(deps.ProductionUC, deps.HistoryUC)
	productionGroup.Get("/bom/:id", productionHandler.ExplodeBOM)
	productionGroup.Post("/internal", writers, productionHandler.CommitInternal)
	productionGroup.Post("/purchases", writers, productionHandler.CommitPurchase)
	productionGroup.Post("/sales", writers, productionHandler.CommitSale)

	// Libro de movimientos (protegido)
	movements := protected.Group("/movements")
	movements.Get("/", productionHandler.ListMovements)
	movements.Get("/events/:eventID", productionHandler.ListEventMovements)
	movements.Post("/:id/reverse", writers, productionHandler.ReverseMovement)
	products.Get("/:id/movements", productionHandler.ListProductMovements)

	// Órdenes de producción externa (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderPDFUC)
	ordersGroup.Post("/", writers, orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/transitions", writers, orderHandler.Transition)
	ordersGroup.Get("/:id/pdf", orderHandler.DownloadDispatchPDF)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-ventas/internal/application/auth"
	"github.com/tu-usuario/almacen-ventas/internal/application/orders"
	"github.com/tu-usuario/almacen-ventas/internal/application/usecase"
	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LotUC      *usecase.LotUseCase
	CustomerUC *usecase.CustomerUseCase
	OrderUC    *orders.UseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
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

	// Lotes de stock: cualquier rol autenticado lee; bodeguero administra.
	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Get("/", lotHandler.List)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Post("/", RequireRole(entity.RoleBodeguero), lotHandler.Create)
	lots.Put("/:id", RequireRole(entity.RoleBodeguero), lotHandler.Update)
	lots.Post("/:id/stock", RequireRole(entity.RoleBodeguero), lotHandler.AddStock)
	lots.Delete("/:id", RequireRole(entity.RoleBodeguero), lotHandler.Delete)

	// Clientes: vendedor administra.
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", RequireRole(entity.RoleVendedor), customerHandler.Create)
	customers.Put("/:id", RequireRole(entity.RoleVendedor), customerHandler.Update)
	customers.Delete("/:id", RequireRole(entity.RoleVendedor), customerHandler.Delete)

	// Pedidos: el ciclo de vida completo es del vendedor.
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/receipt", orderHandler.Receipt)
	ordersGroup.Post("/", RequireRole(entity.RoleVendedor), orderHandler.Create)
	ordersGroup.Put("/:id", RequireRole(entity.RoleVendedor), orderHandler.Update)
	ordersGroup.Post("/:id/confirm", RequireRole(entity.RoleVendedor), orderHandler.Confirm)
	ordersGroup.Post("/:id/revert", RequireRole(entity.RoleVendedor), orderHandler.Revert)
	ordersGroup.Post("/:id/payments", RequireRole(entity.RoleVendedor), orderHandler.AddPayment)
}

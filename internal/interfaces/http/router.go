package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mochkris/compras-api/internal/application/auth"
	"github.com/mochkris/compras-api/internal/application/inventory"
	"github.com/mochkris/compras-api/internal/application/purchasing"
	"github.com/mochkris/compras-api/internal/application/requisition"
	"github.com/mochkris/compras-api/internal/application/supplier"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CreatePO       *purchasing.CreatePOUseCase
	TransitionPO   *purchasing.TransitionPOUseCase
	RateSupplier   *purchasing.RateSupplierUseCase
	QueryPO        *purchasing.QueryPOUseCase
	PDFPO          *purchasing.PDFUseCase
	CreateReq      *requisition.CreateUseCase
	SignReq        *requisition.SignUseCase
	CustodianCheck *requisition.CustodianCheckUseCase
	GeneratePO     *requisition.GeneratePOUseCase
	QueryReq       *requisition.QueryUseCase
	Delivery       *requisition.ReceiveDeliveryUseCase
	InventoryUC    *inventory.UseCase
	SupplierUC     *supplier.UseCase
	JWTSecret      string
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

	// Órdenes de compra (protegido)
	pos := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.CreatePO, deps.TransitionPO, deps.RateSupplier, deps.QueryPO, deps.PDFPO, deps.Delivery)
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/stats", poHandler.Stats)
	pos.Get("/:id", poHandler.Get)
	pos.Get("/:id/pdf", poHandler.PDF)
	pos.Patch("/:id/status", poHandler.UpdateStatus)
	pos.Post("/:id/ratings", poHandler.AddRating)
	pos.Post("/:id/delivery", poHandler.ReceiveDelivery)

	// Requisiciones (protegido)
	reqs := protected.Group("/requisitions")
	reqHandler := NewRequisitionHandler(deps.CreateReq, deps.SignReq, deps.CustodianCheck, deps.GeneratePO, deps.QueryReq)
	reqs.Post("/", reqHandler.Create)
	reqs.Get("/", reqHandler.List)
	reqs.Get("/:id", reqHandler.Get)
	reqs.Post("/:id/sign", reqHandler.Sign)
	reqs.Post("/:id/custodian-check", reqHandler.CustodianCheck)
	reqs.Post("/:id/purchase-order", reqHandler.GeneratePO)

	// Inventario (protegido; alta/edición restringidas a bodega y manager)
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Get("/", invHandler.List)
	inv.Get("/auto-restocked", invHandler.AutoRestocked)
	inv.Post("/", RequireRole(entity.RoleCustodian, entity.RoleManager), invHandler.Create)
	inv.Put("/:id", RequireRole(entity.RoleCustodian, entity.RoleManager), invHandler.Update)

	// Proveedores (protegido)
	sups := protected.Group("/suppliers")
	supHandler := NewSupplierHandler(deps.SupplierUC)
	sups.Post("/", supHandler.Create)
	sups.Get("/", supHandler.List)
	sups.Get("/:id", supHandler.Get)
}

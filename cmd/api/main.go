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

	"github.com/mochkris/compras-api/internal/application/auth"
	"github.com/mochkris/compras-api/internal/application/inventory"
	"github.com/mochkris/compras-api/internal/application/purchasing"
	"github.com/mochkris/compras-api/internal/application/requisition"
	"github.com/mochkris/compras-api/internal/application/supplier"
	inframail "github.com/mochkris/compras-api/internal/infrastructure/mail"
	infrapdf "github.com/mochkris/compras-api/internal/infrastructure/pdf"
	"github.com/mochkris/compras-api/internal/infrastructure/postgres"
	httpRouter "github.com/mochkris/compras-api/internal/interfaces/http"
	"github.com/mochkris/compras-api/pkg/config"
	"github.com/mochkris/compras-api/pkg/idgen"
	"github.com/mochkris/compras-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	userRepo := postgres.NewUserRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	reqRepo := postgres.NewRequisitionRepository(pool)
	invRepo := postgres.NewInventoryRepository(pool)
	supRepo := postgres.NewSupplierRepository(pool)
	restockRepo := postgres.NewAutoRestockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	poNumGen, err := idgen.NewPONumberGen(1)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de números de orden")
	}

	// Notificador de cambios de estado; sin SMTP queda deshabilitado.
	var notifier purchasing.Notifier
	if cfg.SMTP.Enabled() {
		notifier = inframail.NewGomailNotifier(cfg.SMTP, log.Component("mail"))
	}

	createPOUC := purchasing.NewCreatePOUseCase(txRunner, supRepo, poNumGen)
	transitionUC := purchasing.NewTransitionPOUseCase(txRunner, notifier)
	rateUC := purchasing.NewRateSupplierUseCase(txRunner)
	queryPOUC := purchasing.NewQueryPOUseCase(poRepo, supRepo)
	pdfUC := purchasing.NewPDFUseCase(poRepo, supRepo, infrapdf.NewMarotoPOGenerator())

	createReqUC := requisition.NewCreateUseCase(txRunner)
	signReqUC := requisition.NewSignUseCase(txRunner)
	custodianUC := requisition.NewCustodianCheckUseCase(txRunner)
	generatePOUC := requisition.NewGeneratePOUseCase(txRunner, poNumGen)
	queryReqUC := requisition.NewQueryUseCase(reqRepo)
	deliveryUC := requisition.NewReceiveDeliveryUseCase(txRunner)

	inventoryUC := inventory.NewUseCase(invRepo, restockRepo)
	supplierUC := supplier.NewUseCase(supRepo)

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
		Title:    "Compras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CreatePO:       createPOUC,
		TransitionPO:   transitionUC,
		RateSupplier:   rateUC,
		QueryPO:        queryPOUC,
		PDFPO:          pdfUC,
		CreateReq:      createReqUC,
		SignReq:        signReqUC,
		CustodianCheck: custodianUC,
		GeneratePO:     generatePOUC,
		QueryReq:       queryReqUC,
		Delivery:       deliveryUC,
		InventoryUC:    inventoryUC,
		SupplierUC:     supplierUC,
		JWTSecret:      cfg.JWT.Secret,
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

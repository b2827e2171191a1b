package main

import (
	"context"
	"time"

	"dubon/internal/config"
	"dubon/internal/database"
	"dubon/internal/handlers"
	"dubon/internal/middleware"
	"dubon/internal/repositories"
	"dubon/internal/services"
	"dubon/pkg/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Broker is the event bus as seen by the HTTP layer.
type Broker interface {
	services.EventPublisher
	Healthy() bool
}

// Deps are the external resources the API runs on. Broker and Cache are
// optional and must be left nil, not set to a nil pointer, when absent.
type Deps struct {
	DB     *gorm.DB
	Broker Broker
	Cache  cache.Cache
}

// App is the assembled API.
type App struct {
	Fiber         *fiber.App
	Auth          *services.AuthService
	Notifications *services.NotificationService
}

// NewApp wires repositories, services and handlers on top of deps.
func NewApp(cfg *config.Config, deps Deps) *App {
	db := deps.DB

	// --- Repositories ---
	tx := repositories.NewGORMTransactor(db)
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	requestRepo := repositories.NewGORMSellerRequestRepository(db)
	sellerRepo := repositories.NewGORMSellerRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	withdrawalRepo := repositories.NewGORMWithdrawalRepository(db)
	eventRepo := repositories.NewGORMEventRepository(db)
	reservationRepo := repositories.NewGORMReservationRepository(db)
	deliveryRepo := repositories.NewGORMDeliveryPersonRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	statusLog := repositories.NewGORMStatusChangeRepository(db)

	var publisher services.EventPublisher = deps.Broker

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	userService := services.NewUserService(userRepo)
	requestService := services.NewSellerRequestService(tx, requestRepo, sellerRepo, userRepo, statusLog, notificationRepo, publisher, deps.Cache, cfg.CacheTTL)
	sellerService := services.NewSellerService(sellerRepo)
	productService := services.NewProductService(productRepo, sellerRepo)
	cartService := services.NewCartService(tx, cartRepo, productRepo)
	orderService := services.NewOrderService(services.OrderDeps{
		Tx:            tx,
		Orders:        orderRepo,
		Payments:      paymentRepo,
		Carts:         cartRepo,
		Products:      productRepo,
		Sellers:       sellerRepo,
		Deliveries:    deliveryRepo,
		StatusLog:     statusLog,
		Notifications: notificationRepo,
		Publisher:     publisher,
	})
	paymentService := services.NewPaymentService(tx, paymentRepo, orderRepo, statusLog, notificationRepo, publisher)
	withdrawalService := services.NewWithdrawalService(tx, withdrawalRepo, sellerRepo, statusLog, notificationRepo, publisher)
	eventService := services.NewEventService(services.EventDeps{
		Tx:            tx,
		Events:        eventRepo,
		Reservations:  reservationRepo,
		StatusLog:     statusLog,
		Notifications: notificationRepo,
		Publisher:     publisher,
		Cache:         deps.Cache,
		CacheTTL:      cfg.CacheTTL,
	})
	deliveryService := services.NewDeliveryService(deliveryRepo)
	reviewService := services.NewReviewService(reviewRepo, productRepo)
	notificationService := services.NewNotificationService(notificationRepo)

	// --- Fiber ---
	app := fiber.New(fiber.Config{
		AppName:      "dubon",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", healthHandler(deps))

	// --- API Routes ---
	api := app.Group("/api")
	auth := middleware.AuthRequired(authService)
	optional := middleware.OptionalAuth(authService)

	handlers.NewAuthHandler(authService).RegisterRoutes(api, auth)
	handlers.NewUserHandler(userService).RegisterRoutes(api, auth)
	handlers.NewSellerHandler(requestService, sellerService).RegisterRoutes(api, auth)
	handlers.NewReviewHandler(reviewService).RegisterRoutes(api, auth)
	handlers.NewProductHandler(productService).RegisterRoutes(api, auth)
	handlers.NewCartHandler(cartService).RegisterRoutes(api, auth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, auth)
	handlers.NewPaymentHandler(paymentService).RegisterRoutes(api, auth)
	handlers.NewWithdrawalHandler(withdrawalService).RegisterRoutes(api, auth)
	handlers.NewEventHandler(eventService).RegisterRoutes(api, auth, optional)
	handlers.NewDeliveryHandler(deliveryService).RegisterRoutes(api, auth)
	handlers.NewNotificationHandler(notificationService).RegisterRoutes(api, auth)

	return &App{
		Fiber:         app,
		Auth:          authService,
		Notifications: notificationService,
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		body := fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"broker":   "disabled",
			"cache":    "disabled",
		}

		if err := database.Ping(deps.DB); err != nil {
			status = fiber.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "unreachable"
		}
		if deps.Broker != nil {
			body["broker"] = "connected"
			if !deps.Broker.Healthy() {
				body["broker"] = "disconnected"
			}
		}
		if p, ok := deps.Cache.(pinger); ok {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			body["cache"] = "connected"
			if err := p.Ping(ctx); err != nil {
				body["cache"] = "unreachable"
			}
		}
		return c.Status(status).JSON(body)
	}
}

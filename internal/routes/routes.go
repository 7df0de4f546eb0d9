package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bundleshop/internal/config"
	"github.com/example/bundleshop/internal/handlers"
	"github.com/example/bundleshop/internal/middleware"
	"github.com/example/bundleshop/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	paystackService := services.NewPaystackService(cfg.PaystackSecretKey, cfg.PaystackBaseURL)
	orderService := services.NewOrderService(db, paystackService, telegramService)

	RegisterWithServices(app, db, cfg, orderService)
}

// RegisterWithServices wires routes against pre-built services. Split out so
// tests can inject a stub payment gateway.
func RegisterWithServices(app *fiber.App, db *gorm.DB, cfg *config.Config, orderService *services.OrderService) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler()
	orderHandler := handlers.NewOrderHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, cfg, orderService)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db, orderService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Catalog routes
	providers := api.Group("/providers")
	providers.Get("/", catalogHandler.ListProviders)
	providers.Get("/:id", catalogHandler.GetProvider)
	providers.Get("/:id/bundles", catalogHandler.ListProviderBundles)

	// Payment routes. Checkout accepts guests; verify is called by the
	// widget success callback and must stay reachable cross-origin.
	payments := api.Group("/payments")
	payments.Post("/checkout", middleware.OptionalAuth(cfg), paymentHandler.Checkout)
	payments.Post("/verify", paymentHandler.Verify)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Put("/profile/password", profileHandler.UpdatePassword)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireAdmin(db))
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Patch("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Get("/users", adminHandler.ListAllUsers)
	admin.Get("/payments", adminHandler.ListPayments)
}

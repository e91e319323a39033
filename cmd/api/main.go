package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-retailnet/internal/handler"
	"go-retailnet/internal/middleware"
	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"
	"go-retailnet/internal/service"
	"go-retailnet/internal/ws"
	"go-retailnet/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{},
		&model.Store{},
		&model.StoreStaff{},
		&model.Product{},
		&model.StoreStock{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Delivery{},
		&model.DeliveryItem{},
	)

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	deliveryRepo := repository.NewDeliveryRepo(db)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, storeRepo)
	productService := service.NewProductService(productRepo, wsHub)
	storeService := service.NewStoreService(storeRepo, saleRepo, stockRepo, db)
	saleService := service.NewSaleService(storeRepo, saleRepo, stockRepo, db, wsHub)
	deliveryService := service.NewDeliveryService(deliveryRepo, storeRepo, stockRepo, db, wsHub)
	dashService := service.NewDashboardService(db, saleRepo, stockRepo)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	storeHandler := handler.NewStoreHandler(storeService)
	saleHandler := handler.NewSaleHandler(saleService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	dashHandler := handler.NewDashboardHandler(dashService)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	uploadHandler := handler.NewUploadHandler(uploadDir)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Retail Network API v1.0",
		BodyLimit: 6 * 1024 * 1024, // uploads are capped at 5MB by the handler
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)
	api.Post("/register", authHandler.Register)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Post("/auth/heartbeat", authHandler.Heartbeat)
	protected.Post("/auth/reset-password", authHandler.ResetPassword)

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)

	// Products (write is admin-only, enforced by the access filter)
	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Patch("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	// Stores
	protected.Get("/stores", storeHandler.GetStores)
	protected.Post("/stores", storeHandler.CreateStore)
	protected.Get("/stores/:id", storeHandler.GetStore)
	protected.Patch("/stores/:id", storeHandler.UpdateStore)
	protected.Delete("/stores/:id", storeHandler.DeleteStore)

	// Sales + per-store inventory
	protected.Get("/transactions", saleHandler.GetSales)
	protected.Get("/stores/:id/transactions", saleHandler.GetStoreSales)
	protected.Post("/stores/:id/transactions", saleHandler.RecordSale)
	protected.Get("/stores/:id/inventory", saleHandler.GetStoreInventory)

	// Deliveries
	protected.Get("/deliveries", deliveryHandler.GetDeliveries)
	protected.Post("/deliveries", deliveryHandler.CreateDelivery)
	protected.Get("/deliveries/:id", deliveryHandler.GetDelivery)
	protected.Patch("/deliveries/:id", deliveryHandler.UpdateDelivery)
	protected.Delete("/deliveries/:id", deliveryHandler.DeleteDelivery)

	// User management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", userHandler.CreateUser)
	protected.Put("/users/:id", userHandler.UpdateUser)
	protected.Delete("/users/:id", userHandler.DeleteUser)

	// Upload
	protected.Post("/upload", uploadHandler.Upload)

	// Static serving for uploaded store photos
	app.Static("/uploads", uploadDir)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin user if no admin exists yet
func seedAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("Warning: Failed to check for admin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	admin := &model.User{
		Email:    "admin@example.com",
		Name:     "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword("admin123"); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := db.Create(admin).Error; err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Println("✅ Admin user created: admin@example.com / admin123")
	}
}

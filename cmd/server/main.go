package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pizza_store/internal/cache"
	"pizza_store/internal/config"
	"pizza_store/internal/database"
	"pizza_store/internal/events"
	"pizza_store/internal/handlers"
	"pizza_store/internal/middleware"
	"pizza_store/internal/repository"
	"pizza_store/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize menu cache
	menuCache, err := cache.Initialize(cfg.RedisURL, time.Duration(cfg.MenuCacheTTL)*time.Second)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize order event publisher; optional, the store runs
	// without a broker.
	var publisher *events.Publisher
	if cfg.RabbitMQURL != "" {
		publisher, err = events.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange, cfg.OrderQueue)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
	}

	variantDeletePolicy := repository.VariantDeletePolicy(cfg.VariantDeletePolicy)
	if !variantDeletePolicy.Valid() {
		log.Fatalf("Invalid VARIANT_DELETE_POLICY %q: must be %q or %q",
			cfg.VariantDeletePolicy, repository.VariantDeleteBlock, repository.VariantDeleteCascade)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db, variantDeletePolicy)
	variantRepo := repository.NewProductVariantRepository(db, variantDeletePolicy)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpiresIn)*time.Second)
	catalogService := services.NewCatalogService(categoryRepo, productRepo, variantRepo, menuCache)
	orderService := services.NewOrderService(orderRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService, publisher)

	// Setup routes
	router := gin.Default()
	router.Use(middleware.PrometheusMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", catalogHandler.GetCategories)
		categories.POST("", catalogHandler.CreateCategory)
		categories.PUT("/:id", catalogHandler.UpdateCategory)
		categories.DELETE("/:id", catalogHandler.DeleteCategory)
	}

	products := router.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.POST("", catalogHandler.CreateProduct)
		products.GET("/:id", catalogHandler.GetProduct)
		products.PUT("/:id", catalogHandler.UpdateProduct)
		products.DELETE("/:id", catalogHandler.DeleteProduct)
	}

	variants := router.Group("/product-variants")
	{
		variants.POST("", catalogHandler.CreateProductVariant)
		variants.PUT("/:id", catalogHandler.UpdateProductVariant)
		variants.DELETE("/:id", catalogHandler.DeleteProductVariant)
	}

	orders := router.Group("/orders")
	{
		// Anyone may place an order; reading and updating them is
		// for staff.
		orders.POST("", orderHandler.CreateOrder)

		admin := orders.Group("")
		admin.Use(middleware.AuthMiddleware(authService), middleware.AdminRequired())
		{
			admin.GET("", orderHandler.GetOrders)
			admin.GET("/:id", orderHandler.GetOrder)
			admin.PUT("/:id", orderHandler.UpdateOrder)
		}
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	publisher.Close()
	if err := menuCache.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
	if err := database.Close(db); err != nil {
		log.Printf("Database close error: %v", err)
	}
}

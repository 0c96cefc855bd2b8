package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vehiql/dealership-backend/internal/cache"
	"github.com/vehiql/dealership-backend/internal/config"
	"github.com/vehiql/dealership-backend/internal/database"
	"github.com/vehiql/dealership-backend/internal/handlers"
	"github.com/vehiql/dealership-backend/internal/middleware"
	"github.com/vehiql/dealership-backend/internal/services"
	"github.com/vehiql/dealership-backend/pkg/classifier"
	"github.com/vehiql/dealership-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Vehiql Dealership Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Cache invalidation is optional; without Redis the views simply go stale
	// until their TTL at the edge
	var invalidator cache.Invalidator = cache.NoopInvalidator{}
	if cfg.Cache.Enabled {
		redisInvalidator := cache.NewRedisInvalidator(cfg.Cache.Addr, cfg.Cache.Password, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisInvalidator.Ping(ctx); err != nil {
			logger.WithError(err).Warn("Redis unreachable, cache invalidation disabled")
		} else {
			invalidator = redisInvalidator
			defer redisInvalidator.Close()
			logger.Info("Redis cache invalidation enabled")
		}
		cancel()
	}

	// Initialize repositories
	carRepo := database.NewCarRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	savedCarRepo := database.NewSavedCarRepository(db)
	userRepo := database.NewUserRepository(db)
	searchLogRepo := database.NewSearchLogRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	geminiClassifier := classifier.NewGeminiClassifier(classifier.GeminiConfig{
		APIURL: cfg.AI.APIURL,
		APIKey: cfg.AI.APIKey,
		Model:  cfg.AI.Model,
	})

	conflictChecker := services.NewSlotConflictChecker(bookingRepo)
	catalogService := services.NewCatalogService(carRepo, savedCarRepo, bookingRepo, searchLogRepo, invalidator, logger)
	bookingService := services.NewBookingService(bookingRepo, carRepo, conflictChecker, invalidator, logger)
	inventoryService := services.NewInventoryService(carRepo, invalidator, logger)
	dashboardService := services.NewDashboardService(carRepo, bookingRepo, searchLogRepo)
	aiService := services.NewAIService(geminiClassifier, logger)
	authService := services.NewAuthService(userRepo, jwtService, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	carHandler := handlers.NewCarHandler(catalogService, aiService, logger)
	savedCarHandler := handlers.NewSavedCarHandler(catalogService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	adminHandler := handlers.NewAdminHandler(dashboardService, inventoryService, bookingService, aiService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Public catalog routes. Optional auth attaches the wishlist flag
		// and test drive info for signed-in users.
		cars := v1.Group("/cars")
		cars.Use(middleware.OptionalAuthMiddleware(jwtService))
		{
			cars.GET("", carHandler.SearchCars)
			cars.GET("/featured", carHandler.GetFeaturedCars)
			cars.GET("/filters", carHandler.GetFilterOptions)
			cars.POST("/image-search", carHandler.ImageSearch)
			cars.GET("/:id", carHandler.GetCar)
		}

		// Wishlist routes (protected)
		v1.POST("/cars/:id/save", middleware.AuthMiddleware(jwtService), savedCarHandler.ToggleSavedCar)
		savedCars := v1.Group("/saved-cars")
		savedCars.Use(middleware.AuthMiddleware(jwtService))
		{
			savedCars.GET("", savedCarHandler.GetSavedCars)
		}

		// Test drive routes (protected)
		testDrives := v1.Group("/test-drives")
		testDrives.Use(middleware.AuthMiddleware(jwtService))
		{
			testDrives.POST("", bookingHandler.CreateBooking)
			testDrives.GET("", bookingHandler.GetMyBookings)
			testDrives.POST("/:id/cancel", bookingHandler.CancelBooking)
		}

		// Admin routes (protected, ADMIN role required)
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireAdmin())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/test-drives", adminHandler.ListBookings)
			admin.PATCH("/test-drives/:id/status", adminHandler.UpdateBookingStatus)
			admin.POST("/cars", adminHandler.CreateCar)
			admin.PATCH("/cars/:id/status", adminHandler.UpdateCarStatus)
			admin.POST("/cars/extract", adminHandler.ExtractCarDetails)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if uc, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = uc.UserID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}

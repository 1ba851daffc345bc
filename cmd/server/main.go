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
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/skytrip/flight-booking-backend/internal/config"
	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/handlers"
	"github.com/skytrip/flight-booking-backend/internal/middleware"
	"github.com/skytrip/flight-booking-backend/internal/services"
	"github.com/skytrip/flight-booking-backend/pkg/jwt"
	"github.com/skytrip/flight-booking-backend/pkg/notify"
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

	logger.Info("Starting SkyTrip Flight Booking Backend")
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
	logger.Info("Database connection established")

	// Initialize repositories
	cityRepo := database.NewCityRepository(db)
	airportRepo := database.NewAirportRepository(db)
	terminalRepo := database.NewTerminalRepository(db)
	airlineRepo := database.NewAirlineRepository(db)
	routeRepo := database.NewRouteRepository(db)
	discountRepo := database.NewDiscountRepository(db)
	flightRepo := database.NewFlightRepository(db)
	seatRepo := database.NewSeatRepository(db)
	ticketRepo := database.NewTicketRepository(db)
	orderRepo := database.NewOrderRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	userRepo := database.NewUserRepository(db)
	notificationRepo := database.NewNotificationRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	emailGateway := notify.NewEmailGateway(notify.Config{
		Mode:    cfg.Mail.Mode,
		APIURL:  cfg.Mail.APIURL,
		APIKey:  cfg.Mail.APIKey,
		Sender:  cfg.Mail.Sender,
		Timeout: cfg.Mail.Timeout,
	}, logger)
	pushGateway := notify.NewPushGateway(notify.Config{
		Mode:    cfg.Push.Mode,
		APIURL:  cfg.Push.APIURL,
		APIKey:  cfg.Push.APIKey,
		Timeout: cfg.Push.Timeout,
	}, logger)
	if cfg.Mail.Mode != "production" {
		logger.Info("Email gateway in development mode (no actual email will be sent)")
	}

	paymentGateway := services.NewPaymentGatewayService(&cfg.Payment, logger)
	if !paymentGateway.IsConfigured() {
		logger.Warn("Payment gateway credentials missing, charges will use placeholder tokens")
	}

	authService := services.NewAuthService(userRepo, jwtService, cfg.Security.BcryptCost, logger)
	ticketService := services.NewTicketService(routeRepo, flightRepo, discountRepo, ticketRepo, logger)
	orderService := services.NewOrderService(orderRepo, paymentRepo, seatRepo, ticketRepo, userRepo, paymentGateway, logger)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, emailGateway, pushGateway, logger)
	paymentService := services.NewPaymentService(paymentRepo, orderRepo, seatRepo, paymentGateway, notificationService, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	cityHandler := handlers.NewCityHandler(cityRepo)
	airportHandler := handlers.NewAirportHandler(airportRepo, cityRepo)
	terminalHandler := handlers.NewTerminalHandler(terminalRepo, airportRepo)
	airlineHandler := handlers.NewAirlineHandler(airlineRepo)
	routeHandler := handlers.NewRouteHandler(routeRepo, airportRepo)
	discountHandler := handlers.NewDiscountHandler(discountRepo)
	flightHandler := handlers.NewFlightHandler(flightRepo, seatRepo, routeRepo)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

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

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(jwtService))
			{
				authProtected.GET("/me", authHandler.Me)
			}
		}

		// Payment gateway webhook (authenticated by signature, not JWT)
		v1.POST("/payments/webhook", paymentHandler.Webhook)

		// Reference data reads (public)
		v1.GET("/cities", cityHandler.List)
		v1.GET("/cities/:id", cityHandler.Get)
		v1.GET("/airports", airportHandler.List)
		v1.GET("/airports/:id", airportHandler.Get)
		v1.GET("/airports/:id/terminals", terminalHandler.ListByAirport)
		v1.GET("/terminals/:id", terminalHandler.Get)
		v1.GET("/airlines", airlineHandler.List)
		v1.GET("/airlines/:id", airlineHandler.Get)
		v1.GET("/routes", routeHandler.List)
		v1.GET("/routes/:id", routeHandler.Get)
		v1.GET("/discounts", discountHandler.List)
		v1.GET("/discounts/:id", discountHandler.Get)
		v1.GET("/flights", flightHandler.List)
		v1.GET("/flights/:id", flightHandler.Get)
		v1.GET("/flights/:id/seats", flightHandler.ListSeats)
		v1.GET("/tickets/:id", ticketHandler.Get)

		// Reference data writes (admin only)
		adminOnly := v1.Group("")
		adminOnly.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole("admin"))
		{
			adminOnly.POST("/cities", cityHandler.Create)
			adminOnly.PUT("/cities/:id", cityHandler.Update)
			adminOnly.DELETE("/cities/:id", cityHandler.Delete)

			adminOnly.POST("/airports", airportHandler.Create)
			adminOnly.PUT("/airports/:id", airportHandler.Update)
			adminOnly.DELETE("/airports/:id", airportHandler.Delete)

			adminOnly.POST("/terminals", terminalHandler.Create)
			adminOnly.PUT("/terminals/:id", terminalHandler.Update)
			adminOnly.DELETE("/terminals/:id", terminalHandler.Delete)

			adminOnly.POST("/airlines", airlineHandler.Create)
			adminOnly.PUT("/airlines/:id", airlineHandler.Update)
			adminOnly.DELETE("/airlines/:id", airlineHandler.Delete)

			adminOnly.POST("/routes", routeHandler.Create)
			adminOnly.PUT("/routes/:id", routeHandler.Update)
			adminOnly.DELETE("/routes/:id", routeHandler.Delete)

			adminOnly.POST("/discounts", discountHandler.Create)
			adminOnly.PUT("/discounts/:id", discountHandler.Update)
			adminOnly.DELETE("/discounts/:id", discountHandler.Delete)

			adminOnly.POST("/flights", flightHandler.Create)
			adminOnly.DELETE("/flights/:id", flightHandler.Delete)
		}

		// Booking routes (protected)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			protected.POST("/tickets", ticketHandler.Create)

			protected.POST("/orders", orderHandler.Create)
			protected.GET("/orders", orderHandler.List)
			protected.GET("/orders/:id", orderHandler.Get)
			protected.POST("/orders/:id/cancel", orderHandler.Cancel)

			protected.GET("/notifications", notificationHandler.List)
			protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
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

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
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
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
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

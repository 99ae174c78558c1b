package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/vibelink-events/vibelink-api/config"
	"github.com/vibelink-events/vibelink-api/controllers"
	"github.com/vibelink-events/vibelink-api/middleware"
	"github.com/vibelink-events/vibelink-api/models"
	"github.com/vibelink-events/vibelink-api/services"
	"github.com/vibelink-events/vibelink-api/wizard"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()
	config.SetLogger(logger)

	logger.Info("Starting VibeLink Events API server...", zap.String("env", cfg.GoEnv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	if err := config.ConnectDatabase(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed successfully")

	storage, err := services.InitStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	services.InitImageService(storage)
	logger.Info("Image storage ready", zap.String("driver", cfg.StorageDriver))

	outbox := services.InitNotifier(ctx, services.NewFunctionsClient(cfg), logger)
	services.InitCaptcha(cfg)
	services.InitPaymentGateway(cfg)

	if err := initDraftStore(ctx, cfg, logger); err != nil {
		logger.Fatal("Failed to initialize draft store", zap.Error(err))
	}

	router := setupRouter(cfg, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server is running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	// let queued emails finish before exiting
	outbox.Close()
	logger.Info("Server stopped")
}

// initDraftStore keeps wizard drafts in Redis when REDIS_URL is set, in memory otherwise
func initDraftStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, keeping drafts in memory")
		wizard.SetDraftStore(wizard.NewMemoryStore())
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	wizard.SetDraftStore(wizard.NewRedisStore(rdb))
	logger.Info("Draft store connected to Redis")
	return nil
}

// setupRouter builds the HTTP router with every API route
func setupRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", middleware.PrometheusHandler())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Order wizard
		v1.GET("/catalog", controllers.GetCatalog)
		v1.POST("/quotes", controllers.CreateQuote)
		v1.POST("/orders", controllers.SubmitOrder)
		v1.GET("/track", controllers.TrackOrders)

		drafts := v1.Group("/drafts")
		{
			drafts.POST("", controllers.CreateDraft)
			drafts.GET("/:id", controllers.GetDraft)
			drafts.PATCH("/:id", controllers.UpdateDraft)
			drafts.POST("/:id/navigate", controllers.NavigateDraft)
			drafts.POST("/:id/add-ons/:addOnId", controllers.ToggleDraftAddOn)
			drafts.POST("/:id/images", controllers.UploadDraftImage)
			drafts.DELETE("/:id/images", controllers.DeleteDraftImage)
			drafts.POST("/:id/submit", controllers.SubmitDraft)
		}

		// Customer portal
		v1.POST("/portal/otp", controllers.RequestOTP)
		v1.POST("/portal/verify", controllers.VerifyOTP)
		portal := v1.Group("/portal")
		portal.Use(middleware.RequireCustomerSession(cfg))
		{
			portal.POST("/logout", controllers.Logout)
			portal.GET("/me", controllers.GetPortalMe)
			portal.GET("/orders", controllers.ListPortalOrders)
			portal.GET("/orders/:id", controllers.GetPortalOrder)
			portal.GET("/orders/:id/revisions", controllers.ListPortalRevisions)
			portal.POST("/orders/:id/revisions", controllers.CreatePortalRevision)
			portal.GET("/referral", controllers.GetPortalReferral)
		}

		// Admin dashboard
		admin := v1.Group("/admin")
		admin.Use(middleware.EnsureValidToken(cfg), middleware.RequireScope(middleware.AdminScope))
		{
			admin.GET("/orders", controllers.AdminListOrders)
			admin.GET("/orders/export", controllers.AdminExportOrders)
			admin.GET("/orders/:id", controllers.AdminGetOrder)
			admin.PATCH("/orders/:id/status", controllers.AdminUpdateOrderStatus)
			admin.PATCH("/orders/:id/payment-status", controllers.AdminUpdatePaymentStatus)
			admin.POST("/orders/:id/payments", controllers.AdminRecordPayment)
			admin.PUT("/revisions/:id", controllers.AdminRespondToRevision)
			admin.GET("/calendar", controllers.AdminCalendar)
			admin.GET("/analytics", controllers.AdminAnalytics)
		}

		// Payments
		v1.POST("/payments/initialize", controllers.InitializePayment)
		v1.POST("/payments/verify", controllers.VerifyPayment)

		// Content
		v1.GET("/blog", controllers.ListBlogPosts)
		v1.GET("/blog/:slug", controllers.GetBlogPost)
		v1.POST("/newsletter", controllers.Subscribe)
		v1.GET("/invoices/:invoiceNumber", controllers.GetInvoice)
		v1.GET("/surveys/:token", controllers.GetSurvey)
		v1.POST("/surveys/:token", controllers.SubmitSurvey)
		v1.GET("/testimonials", controllers.ListTestimonials)

		// Locally stored reference images
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "VibeLink Events API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not configured",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}

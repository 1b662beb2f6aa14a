package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docflow/document-flow-api/internal/config"
	"github.com/docflow/document-flow-api/internal/database"
	"github.com/docflow/document-flow-api/internal/handlers"
	"github.com/docflow/document-flow-api/internal/middleware"
	"github.com/docflow/document-flow-api/internal/models"
	"github.com/docflow/document-flow-api/internal/repository"
	"github.com/docflow/document-flow-api/internal/services"
	"github.com/docflow/document-flow-api/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize blob storage
	blobs, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	sigRepo := repository.NewSignatureRepository(db)

	// Initialize services
	tokenService := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	authService := services.NewAuthService(userRepo, tokenService)
	docService := services.NewDocumentService(docRepo, sigRepo, blobs)
	reportService := services.NewReportService(docRepo, sigRepo, userRepo, blobs)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	docHandler := handlers.NewDocumentHandler(docService)
	reportHandler := handlers.NewReportHandler(reportService)
	userHandler := handlers.NewUserHandler(authService)

	// Initialize Gin router
	r := gin.Default()
	r.MaxMultipartMemory = 10 << 20

	requireAuth := middleware.RequireAuth(tokenService, userRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Document Flow API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Document routes (protected)
		docs := api.Group("/documents")
		docs.Use(requireAuth)
		{
			docs.GET("", docHandler.List)
			docs.GET("/stats", reportHandler.DocumentStats)
			docs.GET("/download/signed", reportHandler.DownloadSigned)
			docs.POST("/upload", middleware.RequireRoles(models.RoleAdmin), docHandler.Upload)
			docs.GET("/:id", docHandler.Get)
			docs.PUT("/:id", docHandler.Update)
			docs.DELETE("/:id", docHandler.Delete)
			docs.POST("/:id/sign", docHandler.Sign)
			docs.GET("/:id/download", docHandler.Download)
		}

		// Report routes (protected)
		reports := api.Group("/reports")
		reports.Use(requireAuth)
		{
			reports.GET("/dashboard", reportHandler.DashboardStats)
			reports.GET("/signatures", reportHandler.SignatureReport)
			reports.GET("/signatures/pdf", reportHandler.SignatureReportPDF)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

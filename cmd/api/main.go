package main

import (
	"log"

	"accesshub/internal/config"
	"accesshub/internal/database"
	"accesshub/internal/handler"
	"accesshub/internal/middleware"
	"accesshub/internal/repository"
	"accesshub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Software Access Request API
// @version         1.0
// @description     Employees request access to registered software; managers and admins decide.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatalf("Admin seed failed: %v", err)
	}

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	softwareRepo := repository.NewSoftwareRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	txManager := repository.NewTransactionManager(db)

	secret := []byte(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, tokenRepo, txManager, secret)
	catalogService := service.NewCatalogService(softwareRepo)
	requestService := service.NewRequestService(requestRepo, softwareRepo)

	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	requestHandler := handler.NewRequestHandler(requestService)

	// Set up Gin Router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// API routing
	auth := middleware.Authenticate(secret)
	root := router.Group("")
	authHandler.RegisterRoutes(root, auth)
	catalogHandler.RegisterRoutes(root, auth)
	requestHandler.RegisterRoutes(root, auth)

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

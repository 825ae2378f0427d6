package main

import (
	"log"
	"os"

	_ "giftstock-backend/api/swagger" // swagger docs
	"giftstock-backend/internal/handler"
	"giftstock-backend/internal/middleware"
	"giftstock-backend/internal/service"
	"giftstock-backend/internal/store"
	"giftstock-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Gift Inventory API
// @version         1.0
// @description     Per-employee gift inventory, request approval workflow and append-only ledger.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dataFile := os.Getenv("DATA_FILE")
	if dataFile == "" {
		dataFile = "data/giftstock.json"
	}

	st, err := store.Open(dataFile)
	if err != nil {
		log.Fatalf("Failed to open dataset %s: %v", dataFile, err)
	}
	log.Printf("Dataset loaded from %s", dataFile)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Store -> Service -> Handler)
	userService := service.NewUserService(st)
	giftService := service.NewGiftService(st)
	ledgerService := service.NewLedgerService(st, wsHub)
	requestService := service.NewRequestService(st, wsHub)
	queryService := service.NewQueryService(st)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	giftHandler := handler.NewGiftHandler(giftService)
	inventoryHandler := handler.NewInventoryHandler(ledgerService, queryService)
	requestHandler := handler.NewRequestHandler(requestService)
	exportHandler := handler.NewExportHandler(queryService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
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

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	giftHandler.RegisterRoutes(router.Group(""))
	inventoryHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))
	exportHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"hostel_mess_backend/internal/database"
	"hostel_mess_backend/internal/repositories"
	"hostel_mess_backend/internal/router"
	"hostel_mess_backend/internal/scheduler"
	"hostel_mess_backend/internal/services"
	"hostel_mess_backend/pkg/clients/kitchen"
	"hostel_mess_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		utils.LogInfo("No .env file found, using process environment")
	}

	utils.InitJWTSecret()

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "hostel_mess_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "hostel_mess_password")
	dbName := utils.Getenv("DB_NAME", "hostel_mess_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "db_schema.sql")

	// Initialize Database
	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	engine := gin.Default()

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"} // Default origins
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	dbConn := database.GetDB()
	clock := services.SystemClock{}
	router.Setup(engine, dbConn, clock)

	// Nightly cutoff snapshot for the kitchen
	if utils.GetenvBool("CUTOFF_SNAPSHOT_ENABLED", true) {
		var kitchenClient kitchen.Client
		if webhookURL := utils.Getenv("KITCHEN_WEBHOOK_URL", ""); webhookURL != "" {
			kitchenClient = kitchen.NewClient(webhookURL)
		}
		mealOrderRepo := repositories.NewMealOrderRepository(dbConn)
		policy := services.NewCutoffPolicy(clock)
		// Runs until process death; engine.Run below never returns cleanly.
		scheduler.NewScheduler(mealOrderRepo, policy, kitchenClient).Start()
	}

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "configured_from_env": true})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

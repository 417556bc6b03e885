package router

import (
	"database/sql"

	"hostel_mess_backend/internal/handlers"
	"hostel_mess_backend/internal/middleware"
	"hostel_mess_backend/internal/repositories"
	"hostel_mess_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes repositories, services and handlers and wires all
// application routes onto the engine.
func Setup(engine *gin.Engine, db *sql.DB, clock services.Clock) {
	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	mealOrderRepo := repositories.NewMealOrderRepository(db)
	mealPriceRepo := repositories.NewMealPriceRepository(db)
	billingRepo := repositories.NewBillingRepository(db)

	// Services
	policy := services.NewCutoffPolicy(clock)
	authService := services.NewAuthService(authRepo, db)
	mealOrderService := services.NewMealOrderService(mealOrderRepo, mealPriceRepo, billingRepo, policy, db)
	mealPriceService := services.NewMealPriceService(mealPriceRepo, db)
	billingService := services.NewBillingService(billingRepo, db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	mealOrderHandler := handlers.NewMealOrderHandler(mealOrderService)
	mealPriceHandler := handlers.NewMealPriceHandler(mealPriceService)
	billingHandler := handlers.NewBillingHandler(billingService)

	apiV1 := engine.Group("/api/v1")

	// Public auth routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupMealOrderRoutes(authenticated, mealOrderHandler)
		SetupMealPriceRoutes(authenticated, mealPriceHandler)
		SetupBillingRoutes(authenticated, billingHandler)
	}
}

// SetupPublicAuthRoutes registers the unauthenticated auth endpoints.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes registers auth endpoints that require a token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}

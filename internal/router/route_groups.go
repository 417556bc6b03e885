package router

import (
	"hostel_mess_backend/internal/handlers"
	"hostel_mess_backend/internal/middleware"
	"hostel_mess_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupMealOrderRoutes sets up the meal order routes. Residents manage their
// own orders; pause/resume is admin-only.
func SetupMealOrderRoutes(authenticatedGroup *gin.RouterGroup, mealOrderHandler *handlers.MealOrderHandler) {
	mealOrderRoutes := authenticatedGroup.Group("/meal-orders")
	{
		mealOrderRoutes.POST("", mealOrderHandler.CreateMealOrders)
		mealOrderRoutes.GET("", mealOrderHandler.GetMealOrders)
		mealOrderRoutes.GET("/day-buckets", mealOrderHandler.GetDayBuckets)
		mealOrderRoutes.GET("/window", mealOrderHandler.GetOrderingWindow)
		mealOrderRoutes.GET("/summary", mealOrderHandler.GetMonthlySummary)
		mealOrderRoutes.PATCH("/:id/quantity", mealOrderHandler.UpdateMealOrderQuantity)
		mealOrderRoutes.DELETE("/:id", mealOrderHandler.DeleteMealOrder)

		adminRoutes := mealOrderRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.PATCH("/:id/pause", mealOrderHandler.PauseMealOrder)
			adminRoutes.PATCH("/:id/resume", mealOrderHandler.ResumeMealOrder)
		}
	}
}

// SetupMealPriceRoutes sets up the meal price routes. Reading prices is open
// to all authenticated users; changing them is admin-only.
func SetupMealPriceRoutes(authenticatedGroup *gin.RouterGroup, mealPriceHandler *handlers.MealPriceHandler) {
	mealPriceRoutes := authenticatedGroup.Group("/meal-prices")
	{
		mealPriceRoutes.GET("", mealPriceHandler.GetMealPrices)

		adminRoutes := mealPriceRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.PUT("/:type", mealPriceHandler.UpdateMealPrice)
		}
	}
}

// SetupBillingRoutes sets up the billing routes (admin-only).
func SetupBillingRoutes(authenticatedGroup *gin.RouterGroup, billingHandler *handlers.BillingHandler) {
	billingRoutes := authenticatedGroup.Group("/billing")
	billingRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		billingRoutes.POST("/months/pay", billingHandler.MarkMonthPaid)
	}
}

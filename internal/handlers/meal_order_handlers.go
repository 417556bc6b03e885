package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"hostel_mess_backend/internal/services"
	"hostel_mess_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MealOrderHandler holds the meal order service.
type MealOrderHandler struct {
	mealOrderService services.MealOrderService
}

// NewMealOrderHandler creates a new MealOrderHandler.
func NewMealOrderHandler(ms services.MealOrderService) *MealOrderHandler {
	return &MealOrderHandler{mealOrderService: ms}
}

// currentUserID pulls the authenticated user's ID from the gin context.
func currentUserID(c *gin.Context) (int64, bool) {
	userIDRaw, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return 0, false
	}
	userID, ok := userIDRaw.(int64)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User ID format incorrect.", "Invalid user ID format in context"))
		return 0, false
	}
	return userID, true
}

// respondMealOrderError maps meal order service errors to HTTP responses.
func respondMealOrderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrMealOrderNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Meal order not found.", err.Error()))
	case errors.Is(err, services.ErrInvalidQuantity), errors.Is(err, services.ErrUnknownMealType),
		errors.Is(err, services.ErrInvalidMealDate), errors.Is(err, services.ErrInvalidMonth):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
	case errors.Is(err, services.ErrOrderWindowClosed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeWindowClosed, err.Error(), err.Error()))
	case errors.Is(err, services.ErrOrderPaused):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeOrderPaused, err.Error(), err.Error()))
	case errors.Is(err, services.ErrStaleOrderConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeStaleConflict, err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

// CreateMealOrders places or merges orders for one date.
func (h *MealOrderHandler) CreateMealOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateMealOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateMealOrders: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	orders, err := h.mealOrderService.CreateOrders(userID, req)
	if err != nil {
		utils.LogError(err, "CreateMealOrders: Error from mealOrderService.CreateOrders")
		respondMealOrderError(c, err, "Failed to create meal orders.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": orders})
}

// GetMealOrders lists the resident's orders, optionally filtered to one date.
func (h *MealOrderHandler) GetMealOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var date *string
	if dateStr := c.Query("date"); dateStr != "" {
		date = &dateStr
	}

	orders, err := h.mealOrderService.GetOrders(userID, date)
	if err != nil {
		utils.LogError(err, "GetMealOrders: Error from mealOrderService.GetOrders")
		respondMealOrderError(c, err, "Failed to fetch meal orders.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// GetDayBuckets returns the resident's orders grouped per calendar date.
func (h *MealOrderHandler) GetDayBuckets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	buckets, err := h.mealOrderService.GetDayBuckets(userID)
	if err != nil {
		utils.LogError(err, "GetDayBuckets: Error from mealOrderService.GetDayBuckets")
		respondMealOrderError(c, err, "Failed to fetch day buckets.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": buckets})
}

// GetOrderingWindow exposes the cutoff flags for UI affordances.
func (h *MealOrderHandler) GetOrderingWindow(c *gin.Context) {
	c.JSON(http.StatusOK, h.mealOrderService.Window())
}

// GetMonthlySummary aggregates the resident's month.
func (h *MealOrderHandler) GetMonthlySummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month format.", "month must be an integer 1-12"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid year format.", "year must be an integer"))
		return
	}

	summary, svcErr := h.mealOrderService.GetMonthlySummary(userID, month, year)
	if svcErr != nil {
		utils.LogError(svcErr, "GetMonthlySummary: Error from mealOrderService.GetMonthlySummary")
		respondMealOrderError(c, svcErr, "Failed to fetch monthly summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateMealOrderQuantity replaces an order's quantity.
func (h *MealOrderHandler) UpdateMealOrderQuantity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid meal order ID format.", err.Error()))
		return
	}

	var req services.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateMealOrderQuantity: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, svcErr := h.mealOrderService.UpdateQuantity(userID, orderID, req)
	if svcErr != nil {
		utils.LogError(svcErr, "UpdateMealOrderQuantity: Error from mealOrderService.UpdateQuantity")
		respondMealOrderError(c, svcErr, "Failed to update meal order quantity.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteMealOrder cancels an order, subject to the same gate as edits.
func (h *MealOrderHandler) DeleteMealOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid meal order ID format.", err.Error()))
		return
	}

	if err := h.mealOrderService.DeleteOrder(userID, orderID); err != nil {
		utils.LogError(err, "DeleteMealOrder: Error from mealOrderService.DeleteOrder")
		respondMealOrderError(c, err, "Failed to delete meal order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal order deleted successfully"})
}

// PauseMealOrder sets the admin-owned paused flag.
func (h *MealOrderHandler) PauseMealOrder(c *gin.Context) {
	h.setPaused(c, true)
}

// ResumeMealOrder clears the admin-owned paused flag.
func (h *MealOrderHandler) ResumeMealOrder(c *gin.Context) {
	h.setPaused(c, false)
}

func (h *MealOrderHandler) setPaused(c *gin.Context, paused bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid meal order ID format.", err.Error()))
		return
	}

	order, svcErr := h.mealOrderService.SetPaused(orderID, paused)
	if svcErr != nil {
		utils.LogError(svcErr, "SetPaused: Error from mealOrderService.SetPaused")
		respondMealOrderError(c, svcErr, "Failed to update paused state.")
		return
	}
	c.JSON(http.StatusOK, order)
}

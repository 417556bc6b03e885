package handlers

import (
	"errors"
	"net/http"

	"hostel_mess_backend/internal/services"
	"hostel_mess_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MealPriceHandler holds the meal price service.
type MealPriceHandler struct {
	mealPriceService services.MealPriceService
}

// NewMealPriceHandler creates a new MealPriceHandler.
func NewMealPriceHandler(ps services.MealPriceService) *MealPriceHandler {
	return &MealPriceHandler{mealPriceService: ps}
}

// GetMealPrices lists the current unit price per meal type.
func (h *MealPriceHandler) GetMealPrices(c *gin.Context) {
	prices, err := h.mealPriceService.GetMealPrices()
	if err != nil {
		utils.LogError(err, "GetMealPrices: Error from mealPriceService.GetMealPrices")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch meal prices.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": prices})
}

// UpdateMealPrice sets a meal type's unit price. Admin only.
func (h *MealPriceHandler) UpdateMealPrice(c *gin.Context) {
	mealType := c.Param("type")

	var req services.UpdateMealPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateMealPrice: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	price, err := h.mealPriceService.UpdateMealPrice(mealType, req)
	if err != nil {
		utils.LogError(err, "UpdateMealPrice: Error from mealPriceService.UpdateMealPrice")
		if errors.Is(err, services.ErrUnknownMealType) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrMealPriceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Meal price not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update meal price.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, price)
}

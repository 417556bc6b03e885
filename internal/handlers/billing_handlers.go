package handlers

import (
	"errors"
	"net/http"

	"hostel_mess_backend/internal/services"
	"hostel_mess_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BillingHandler holds the billing service.
type BillingHandler struct {
	billingService services.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: bs}
}

// MarkMonthPaid records a resident's month as settled. Admin only.
func (h *BillingHandler) MarkMonthPaid(c *gin.Context) {
	var req services.MarkMonthPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "MarkMonthPaid: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.billingService.MarkMonthPaid(req); err != nil {
		utils.LogError(err, "MarkMonthPaid: Error from billingService.MarkMonthPaid")
		if errors.Is(err, services.ErrInvalidMonth) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to mark month paid.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Month marked as paid"})
}

package services

import (
	"database/sql"
	"fmt"

	"hostel_mess_backend/internal/repositories"
)

// MarkMonthPaidRequest DTO
type MarkMonthPaidRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	Month  int   `json:"month" binding:"required"`
	Year   int   `json:"year" binding:"required"`
}

// BillingService records month-paid marks. Actual bill computation and
// payment collection are outside this service.
type BillingService interface {
	MarkMonthPaid(req MarkMonthPaidRequest) error
}

type billingService struct {
	billingRepo repositories.BillingRepository
	db          *sql.DB
}

// NewBillingService creates a new instance of BillingService.
func NewBillingService(br repositories.BillingRepository, db *sql.DB) BillingService {
	return &billingService{billingRepo: br, db: db}
}

func (s *billingService) MarkMonthPaid(req MarkMonthPaidRequest) error {
	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, req.Month)
	}
	if err := s.billingRepo.MarkMonthPaid(s.db, req.UserID, req.Month, req.Year); err != nil {
		return fmt.Errorf("failed to mark month paid: %w", err)
	}
	return nil
}

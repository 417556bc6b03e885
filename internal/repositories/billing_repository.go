package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// BillingRepository exposes the slice of billing this core needs: whether a
// resident's meal bill for a month is settled. Bill computation and payment
// collection live elsewhere.
type BillingRepository interface {
	IsMonthPaid(userID int64, month, year int) (bool, error)
	MarkMonthPaid(executor SQLExecutor, userID int64, month, year int) error
}

type billingRepository struct {
	db *sql.DB
}

// NewBillingRepository creates a new instance of BillingRepository.
func NewBillingRepository(db *sql.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) IsMonthPaid(userID int64, month, year int) (bool, error) {
	var paid bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM meal_bills
	            WHERE user_id = $1 AND bill_month = $2 AND bill_year = $3 AND paid = true
	          )`
	if err := r.db.QueryRow(query, userID, month, year).Scan(&paid); err != nil {
		return false, fmt.Errorf("%w: checking paid status for user %d (%d-%d): %v",
			ErrDatabaseError, userID, year, month, err)
	}
	return paid, nil
}

func (r *billingRepository) MarkMonthPaid(executor SQLExecutor, userID int64, month, year int) error {
	query := `INSERT INTO meal_bills (user_id, bill_month, bill_year, paid, paid_at)
	          VALUES ($1, $2, $3, true, $4)
	          ON CONFLICT (user_id, bill_month, bill_year)
	          DO UPDATE SET paid = true, paid_at = $4`
	if _, err := executor.Exec(query, userID, month, year, time.Now()); err != nil {
		return fmt.Errorf("%w: marking month paid for user %d (%d-%d): %v",
			ErrDatabaseError, userID, year, month, err)
	}
	return nil
}

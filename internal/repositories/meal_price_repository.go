package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hostel_mess_backend/internal/models"
)

// MealPriceRepository defines the interface for meal unit price lookups.
// Prices are seeded by the schema and editable only by admins.
type MealPriceRepository interface {
	GetUnitPrice(mealType models.MealType) (float64, error)
	GetMealPrices() ([]models.MealPrice, error)
	UpdateUnitPrice(executor SQLExecutor, mealType models.MealType, unitPrice float64) (*models.MealPrice, error)
}

type mealPriceRepository struct {
	db *sql.DB
}

// NewMealPriceRepository creates a new instance of MealPriceRepository.
func NewMealPriceRepository(db *sql.DB) MealPriceRepository {
	return &mealPriceRepository{db: db}
}

func (r *mealPriceRepository) GetUnitPrice(mealType models.MealType) (float64, error) {
	var price float64
	err := r.db.QueryRow(`SELECT unit_price FROM meal_prices WHERE meal_type = $1`, mealType).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: fetching unit price for %s: %v", ErrDatabaseError, mealType, err)
	}
	return price, nil
}

func (r *mealPriceRepository) GetMealPrices() ([]models.MealPrice, error) {
	rows, err := r.db.Query(`SELECT meal_type, unit_price, updated_at FROM meal_prices
	                         ORDER BY CASE meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying meal prices: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	prices := []models.MealPrice{}
	for rows.Next() {
		var p models.MealPrice
		if err := rows.Scan(&p.MealType, &p.UnitPrice, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning meal price: %v", ErrDatabaseError, err)
		}
		prices = append(prices, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating meal price rows: %v", ErrDatabaseError, err)
	}
	return prices, nil
}

func (r *mealPriceRepository) UpdateUnitPrice(executor SQLExecutor, mealType models.MealType, unitPrice float64) (*models.MealPrice, error) {
	price := models.MealPrice{MealType: mealType, UnitPrice: unitPrice}
	err := executor.QueryRow(
		`UPDATE meal_prices SET unit_price = $1, updated_at = $2 WHERE meal_type = $3 RETURNING updated_at`,
		unitPrice, time.Now(), mealType,
	).Scan(&price.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating unit price for %s: %v", ErrDatabaseError, mealType, err)
	}
	return &price, nil
}

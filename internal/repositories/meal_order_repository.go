package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hostel_mess_backend/internal/models"

	"github.com/lib/pq" // For pq.Error on unique violations
)

// MealOrderRepository defines the interface for meal-order persistence.
type MealOrderRepository interface {
	CreateMealOrder(executor SQLExecutor, order *models.MealOrder) (*models.MealOrder, error)
	GetMealOrderByID(id int64) (*models.MealOrder, error)
	GetMealOrderForSlot(userID int64, mealDate time.Time, mealType models.MealType) (*models.MealOrder, error)
	GetMealOrders(userID int64, filters models.MealOrderFilters) ([]models.MealOrder, error)
	// UpdateQuantity is a compare-and-set: the row is only updated when its
	// current quantity still equals expectedQuantity. Returns ErrNotFound when
	// no row matched (gone or changed since last read).
	UpdateQuantity(executor SQLExecutor, id int64, expectedQuantity, newQuantity int, newTotalPrice float64) (*models.MealOrder, error)
	SetPaused(executor SQLExecutor, id int64, paused bool) error
	DeleteMealOrder(executor SQLExecutor, id int64) error
	GetMonthlySummary(userID int64, month, year int) (*models.MonthlySummary, error)
	CountMealsForDate(mealDate time.Time) (models.DailyMealCounts, error)
}

type mealOrderRepository struct {
	db *sql.DB
}

// NewMealOrderRepository creates a new instance of MealOrderRepository.
func NewMealOrderRepository(db *sql.DB) MealOrderRepository {
	return &mealOrderRepository{db: db}
}

const selectMealOrderFields = `
	id, user_id, meal_date, meal_type, quantity, unit_price, total_price, paused, created_at, updated_at
`

// scanMealOrderRow scans one meal order row and derives the YYYY-MM-DD date
// string from the DATE column's calendar components.
func scanMealOrderRow(row scanner) (*models.MealOrder, error) {
	var order models.MealOrder
	err := row.Scan(
		&order.ID, &order.UserID, &order.MealDate, &order.MealType,
		&order.Quantity, &order.UnitPrice, &order.TotalPrice, &order.Paused,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning meal order: %v", ErrDatabaseError, err)
	}
	order.Date = order.MealDate.Format("2006-01-02")
	return &order, nil
}

func (r *mealOrderRepository) CreateMealOrder(executor SQLExecutor, order *models.MealOrder) (*models.MealOrder, error) {
	query := `INSERT INTO meal_orders
	            (user_id, meal_date, meal_type, quantity, unit_price, total_price, paused, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	order.CreatedAt = currentTime
	order.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		order.UserID, order.MealDate.Format("2006-01-02"), order.MealType,
		order.Quantity, order.UnitPrice, order.TotalPrice, order.Paused,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			// The (user_id, meal_date, meal_type) index backs the
			// one-order-per-slot invariant.
			return nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating meal order: %v", ErrDatabaseError, err)
	}
	order.Date = order.MealDate.Format("2006-01-02")
	return order, nil
}

func (r *mealOrderRepository) GetMealOrderByID(id int64) (*models.MealOrder, error) {
	query := "SELECT " + selectMealOrderFields + " FROM meal_orders WHERE id = $1"
	return scanMealOrderRow(r.db.QueryRow(query, id))
}

func (r *mealOrderRepository) GetMealOrderForSlot(userID int64, mealDate time.Time, mealType models.MealType) (*models.MealOrder, error) {
	query := "SELECT " + selectMealOrderFields + ` FROM meal_orders
	          WHERE user_id = $1 AND meal_date = $2 AND meal_type = $3`
	return scanMealOrderRow(r.db.QueryRow(query, userID, mealDate.Format("2006-01-02"), mealType))
}

func (r *mealOrderRepository) GetMealOrders(userID int64, filters models.MealOrderFilters) ([]models.MealOrder, error) {
	query := "SELECT " + selectMealOrderFields + " FROM meal_orders WHERE user_id = $1"
	args := []interface{}{userID}
	if filters.Date != nil {
		query += " AND meal_date = $2"
		args = append(args, filters.Date.Format("2006-01-02"))
	}
	// Meal-type ordering matches display order: breakfast, lunch, dinner.
	query += ` ORDER BY meal_date ASC,
	           CASE meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying meal orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.MealOrder{}
	for rows.Next() {
		order, scanErr := scanMealOrderRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, *order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating meal order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *mealOrderRepository) UpdateQuantity(executor SQLExecutor, id int64, expectedQuantity, newQuantity int, newTotalPrice float64) (*models.MealOrder, error) {
	query := `UPDATE meal_orders
	          SET quantity = $1, total_price = $2, updated_at = $3
	          WHERE id = $4 AND quantity = $5
	          RETURNING ` + selectMealOrderFields

	order, err := scanMealOrderRow(executor.QueryRow(query, newQuantity, newTotalPrice, time.Now(), id, expectedQuantity))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating quantity for meal order ID %d: %v", ErrDatabaseError, id, err)
	}
	return order, nil
}

func (r *mealOrderRepository) SetPaused(executor SQLExecutor, id int64, paused bool) error {
	query := `UPDATE meal_orders SET paused = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, paused, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: setting paused for meal order ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mealOrderRepository) DeleteMealOrder(executor SQLExecutor, id int64) error {
	query := `DELETE FROM meal_orders WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting meal order ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mealOrderRepository) GetMonthlySummary(userID int64, month, year int) (*models.MonthlySummary, error) {
	query := `SELECT
	            COALESCE(SUM(quantity), 0),
	            COALESCE(SUM(quantity) FILTER (WHERE meal_type = 'breakfast'), 0),
	            COALESCE(SUM(quantity) FILTER (WHERE meal_type = 'lunch'), 0),
	            COALESCE(SUM(quantity) FILTER (WHERE meal_type = 'dinner'), 0),
	            COALESCE(SUM(total_price), 0)
	          FROM meal_orders
	          WHERE user_id = $1
	            AND EXTRACT(MONTH FROM meal_date) = $2
	            AND EXTRACT(YEAR FROM meal_date) = $3`

	summary := models.MonthlySummary{Month: month, Year: year}
	err := r.db.QueryRow(query, userID, month, year).Scan(
		&summary.TotalMeals, &summary.BreakfastCount, &summary.LunchCount,
		&summary.DinnerCount, &summary.TotalCost,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating monthly summary for user %d (%d-%d): %v",
			ErrDatabaseError, userID, year, month, err)
	}
	return &summary, nil
}

func (r *mealOrderRepository) CountMealsForDate(mealDate time.Time) (models.DailyMealCounts, error) {
	query := `SELECT
	            COALESCE(SUM(quantity) FILTER (WHERE meal_type = 'breakfast'), 0),
	            COALESCE(SUM(quantity) FILTER (WHERE meal_type = 'lunch'), 0),
	            COALESCE(SUM(quantity) FILTER (WHERE meal_type = 'dinner'), 0)
	          FROM meal_orders
	          WHERE meal_date = $1 AND paused = false`

	counts := models.DailyMealCounts{Date: mealDate.Format("2006-01-02")}
	err := r.db.QueryRow(query, mealDate.Format("2006-01-02")).Scan(
		&counts.Breakfast, &counts.Lunch, &counts.Dinner,
	)
	if err != nil {
		return models.DailyMealCounts{}, fmt.Errorf("%w: counting meals for %s: %v",
			ErrDatabaseError, counts.Date, err)
	}
	return counts, nil
}

package models

import "time"

// MealType identifies one of the three daily meals.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
)

// MealTypes lists all meal types in display order (breakfast first).
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner}

// IsValidMealType checks if the provided string is a valid MealType.
func IsValidMealType(mealType string) bool {
	switch MealType(mealType) {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner:
		return true
	default:
		return false
	}
}

// OrderStatus is derived at read time from the cutoff clock and the paused
// flag. It is never stored as authoritative state.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPaused    OrderStatus = "paused"
)

// MealOrder represents a resident's order for one meal type on one calendar
// date. At most one row exists per (user_id, meal_date, meal_type); a second
// order for the same slot merges quantities into the existing row.
type MealOrder struct {
	ID         int64       `json:"id" db:"id"`
	UserID     int64       `json:"user_id" db:"user_id"`
	MealDate   time.Time   `json:"-" db:"meal_date"` // local midnight, DATE column
	Date       string      `json:"date"`             // YYYY-MM-DD, derived from MealDate
	MealType   MealType    `json:"meal_type" db:"meal_type"`
	Quantity   int         `json:"quantity" db:"quantity"`
	UnitPrice  float64     `json:"unit_price" db:"unit_price"`
	TotalPrice float64     `json:"total_price" db:"total_price"`
	Paused     bool        `json:"paused" db:"paused"`
	Status     OrderStatus `json:"status"` // derived, not stored
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// DayBucket groups a resident's orders for one calendar date, with at most
// one order per meal type slot. Computed on demand, never persisted.
type DayBucket struct {
	Date      string     `json:"date"`
	Breakfast *MealOrder `json:"breakfast,omitempty"`
	Lunch     *MealOrder `json:"lunch,omitempty"`
	Dinner    *MealOrder `json:"dinner,omitempty"`
	TotalCost float64    `json:"total_cost"`
}

// MonthlySummary aggregates a resident's meal orders for one (month, year).
// IsPaid is owned by billing; this core only reads it.
type MonthlySummary struct {
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	TotalMeals     int     `json:"total_meals"`
	BreakfastCount int     `json:"breakfast_count"`
	LunchCount     int     `json:"lunch_count"`
	DinnerCount    int     `json:"dinner_count"`
	TotalCost      float64 `json:"total_cost"`
	IsPaid         bool    `json:"is_paid"`
}

// DailyMealCounts is the per-type head count for one date, handed to the
// kitchen after cutoff.
type DailyMealCounts struct {
	Date      string `json:"date"`
	Breakfast int    `json:"breakfast"`
	Lunch     int    `json:"lunch"`
	Dinner    int    `json:"dinner"`
}

// Total returns the summed quantity across all meal types.
func (c DailyMealCounts) Total() int {
	return c.Breakfast + c.Lunch + c.Dinner
}

// MealOrderFilters defines the available filters for querying meal orders.
type MealOrderFilters struct {
	Date *time.Time
}

// MealPrice is the current unit price for one meal type.
type MealPrice struct {
	MealType  MealType  `json:"meal_type" db:"meal_type"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

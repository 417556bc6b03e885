package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"hostel_mess_backend/internal/models"
	"hostel_mess_backend/internal/repositories"
)

// --- Custom Service Errors for Meal Orders ---
var (
	ErrMealOrderNotFound  = errors.New("meal order not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrOrderWindowClosed  = errors.New("ordering window is closed for this date")
	ErrOrderPaused        = errors.New("meal order is paused by administration")
	ErrStaleOrderConflict = errors.New("meal order changed since last read, refresh and retry")
	ErrUnknownMealType    = errors.New("unknown meal type")
	ErrInvalidMonth       = errors.New("invalid month, expected 1-12")
)

// --- Meal Order DTOs ---

// CreateMealOrderItem is one (meal type, quantity) entry of a create request.
type CreateMealOrderItem struct {
	MealType string `json:"meal_type" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// CreateMealOrdersRequest orders one or more meal types for a single date.
type CreateMealOrdersRequest struct {
	Date  string                `json:"date" binding:"required"` // YYYY-MM-DD
	Items []CreateMealOrderItem `json:"items" binding:"required,dive"`
}

// UpdateQuantityRequest replaces an order's quantity. ExpectedQuantity, when
// set, is the quantity the client last saw; the update is rejected as stale
// if the server-side row has moved on.
type UpdateQuantityRequest struct {
	Quantity         int  `json:"quantity" binding:"required"`
	ExpectedQuantity *int `json:"expected_quantity"`
}

// OrderingWindow carries the boolean flags the presentation layer uses to
// enable or disable ordering affordances.
type OrderingWindow struct {
	IsCutoffPassed        bool   `json:"is_cutoff_passed"`
	CutoffTime            string `json:"cutoff_time"`
	Today                 string `json:"today"`
	EarliestOrderableDate string `json:"earliest_orderable_date"`
}

// --- MealOrderService Interface ---
type MealOrderService interface {
	CreateOrders(userID int64, req CreateMealOrdersRequest) ([]models.MealOrder, error)
	GetOrders(userID int64, date *string) ([]models.MealOrder, error)
	GetDayBuckets(userID int64) ([]models.DayBucket, error)
	UpdateQuantity(userID, orderID int64, req UpdateQuantityRequest) (*models.MealOrder, error)
	DeleteOrder(userID, orderID int64) error
	GetMonthlySummary(userID int64, month, year int) (*models.MonthlySummary, error)
	SetPaused(orderID int64, paused bool) (*models.MealOrder, error)
	Window() OrderingWindow
}

// --- mealOrderService Implementation ---
type mealOrderService struct {
	orderRepo   repositories.MealOrderRepository
	priceRepo   repositories.MealPriceRepository
	billingRepo repositories.BillingRepository
	policy      *CutoffPolicy
	db          *sql.DB
}

// NewMealOrderService creates a new instance of MealOrderService.
func NewMealOrderService(
	or repositories.MealOrderRepository,
	pr repositories.MealPriceRepository,
	br repositories.BillingRepository,
	policy *CutoffPolicy,
	db *sql.DB,
) MealOrderService {
	return &mealOrderService{
		orderRepo:   or,
		priceRepo:   pr,
		billingRepo: br,
		policy:      policy,
		db:          db,
	}
}

// deriveStatuses stamps read-time statuses onto a slice of orders.
func (s *mealOrderService) deriveStatuses(orders []models.MealOrder) {
	for i := range orders {
		orders[i].Status = s.policy.DeriveStatus(orders[i].Paused)
	}
}

// CreateOrders places or merges orders for one date. The whole call is gated
// by the cutoff policy: the target date must be strictly in the future and
// the daily cutoff must not have passed. A second order for an existing
// (date, meal type) slot adds to the existing quantity rather than creating
// a duplicate row.
func (s *mealOrderService) CreateOrders(userID int64, req CreateMealOrdersRequest) ([]models.MealOrder, error) {
	mealDate, err := s.policy.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanEdit(mealDate) {
		return nil, fmt.Errorf("%w: date %s", ErrOrderWindowClosed, req.Date)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one meal item is required", ErrInvalidQuantity)
	}

	// Validate everything before touching any row.
	requested := make(map[models.MealType]int, len(req.Items))
	for _, item := range req.Items {
		if !models.IsValidMealType(item.MealType) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMealType, item.MealType)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for %s must be positive", ErrInvalidQuantity, item.MealType)
		}
		requested[models.MealType(item.MealType)] += item.Quantity
	}

	// Process slots in display order so responses are deterministic.
	for _, mealType := range models.MealTypes {
		quantity, ok := requested[mealType]
		if !ok {
			continue
		}

		unitPrice, priceErr := s.priceRepo.GetUnitPrice(mealType)
		if priceErr != nil {
			return nil, fmt.Errorf("failed to fetch unit price for %s: %w", mealType, priceErr)
		}

		existing, slotErr := s.orderRepo.GetMealOrderForSlot(userID, mealDate, mealType)
		switch {
		case slotErr == nil:
			if existing.Paused {
				return nil, fmt.Errorf("%w: %s on %s", ErrOrderPaused, mealType, req.Date)
			}
			merged := existing.Quantity + quantity
			_, updErr := s.orderRepo.UpdateQuantity(s.db, existing.ID, existing.Quantity, merged, existing.UnitPrice*float64(merged))
			if updErr != nil {
				if errors.Is(updErr, repositories.ErrNotFound) {
					return nil, fmt.Errorf("%w: %s on %s", ErrStaleOrderConflict, mealType, req.Date)
				}
				return nil, fmt.Errorf("failed to merge meal order: %w", updErr)
			}
		case errors.Is(slotErr, repositories.ErrNotFound):
			order := &models.MealOrder{
				UserID:     userID,
				MealDate:   mealDate,
				MealType:   mealType,
				Quantity:   quantity,
				UnitPrice:  unitPrice,
				TotalPrice: unitPrice * float64(quantity),
			}
			if _, createErr := s.orderRepo.CreateMealOrder(s.db, order); createErr != nil {
				if errors.Is(createErr, repositories.ErrDuplicateKey) {
					// Another session filled the slot between our read and
					// insert; the client should refetch and resubmit.
					return nil, fmt.Errorf("%w: %s on %s", ErrStaleOrderConflict, mealType, req.Date)
				}
				return nil, fmt.Errorf("failed to create meal order: %w", createErr)
			}
		default:
			return nil, fmt.Errorf("failed to look up meal order slot: %w", slotErr)
		}
	}

	// Return the authoritative server-side state for the date, not the
	// optimistic local view.
	filters := models.MealOrderFilters{Date: &mealDate}
	orders, listErr := s.orderRepo.GetMealOrders(userID, filters)
	if listErr != nil {
		return nil, fmt.Errorf("orders saved but failed to reload date %s: %w", req.Date, listErr)
	}
	s.deriveStatuses(orders)
	return orders, nil
}

func (s *mealOrderService) GetOrders(userID int64, date *string) ([]models.MealOrder, error) {
	var filters models.MealOrderFilters
	if date != nil && *date != "" {
		parsed, err := s.policy.ParseDate(*date)
		if err != nil {
			return nil, err
		}
		filters.Date = &parsed
	}
	orders, err := s.orderRepo.GetMealOrders(userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal orders: %w", err)
	}
	s.deriveStatuses(orders)
	return orders, nil
}

func (s *mealOrderService) GetDayBuckets(userID int64) ([]models.DayBucket, error) {
	orders, err := s.GetOrders(userID, nil)
	if err != nil {
		return nil, err
	}
	return GroupOrdersByDate(orders), nil
}

// getOwnedOrder fetches an order and verifies ownership. A foreign order is
// reported as not found rather than forbidden, so order IDs don't leak.
func (s *mealOrderService) getOwnedOrder(userID, orderID int64) (*models.MealOrder, error) {
	order, err := s.orderRepo.GetMealOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMealOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch meal order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrMealOrderNotFound
	}
	return order, nil
}

// UpdateQuantity replaces an order's quantity in place. Zero is rejected:
// callers must delete instead of keeping zero-quantity rows. The edit gate is
// re-checked here at submission time, not only when the edit control was
// rendered.
func (s *mealOrderService) UpdateQuantity(userID, orderID int64, req UpdateQuantityRequest) (*models.MealOrder, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, use delete instead", ErrInvalidQuantity)
	}

	order, err := s.getOwnedOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Paused {
		return nil, fmt.Errorf("%w: order ID %d", ErrOrderPaused, orderID)
	}
	if !s.policy.CanEdit(order.MealDate) {
		return nil, fmt.Errorf("%w: date %s", ErrOrderWindowClosed, order.Date)
	}

	expected := order.Quantity
	if req.ExpectedQuantity != nil {
		expected = *req.ExpectedQuantity
	}

	updated, err := s.orderRepo.UpdateQuantity(s.db, orderID, expected, req.Quantity, order.UnitPrice*float64(req.Quantity))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order ID %d", ErrStaleOrderConflict, orderID)
		}
		return nil, fmt.Errorf("failed to update meal order quantity: %w", err)
	}
	updated.Status = s.policy.DeriveStatus(updated.Paused)
	return updated, nil
}

// DeleteOrder cancels an order. Deletion follows the same edit gate as
// quantity updates, so a locked order cannot be evaded via delete+recreate.
func (s *mealOrderService) DeleteOrder(userID, orderID int64) error {
	order, err := s.getOwnedOrder(userID, orderID)
	if err != nil {
		return err
	}
	if order.Paused {
		return fmt.Errorf("%w: order ID %d", ErrOrderPaused, orderID)
	}
	if !s.policy.CanEdit(order.MealDate) {
		return fmt.Errorf("%w: date %s", ErrOrderWindowClosed, order.Date)
	}

	if err := s.orderRepo.DeleteMealOrder(s.db, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Deleted concurrently from another session.
			return fmt.Errorf("%w: order ID %d", ErrStaleOrderConflict, orderID)
		}
		return fmt.Errorf("failed to delete meal order: %w", err)
	}
	return nil
}

func (s *mealOrderService) GetMonthlySummary(userID int64, month, year int) (*models.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	summary, err := s.orderRepo.GetMonthlySummary(userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly summary: %w", err)
	}
	paid, err := s.billingRepo.IsMonthPaid(userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to check paid status: %w", err)
	}
	summary.IsPaid = paid
	return summary, nil
}

// SetPaused toggles the admin-owned paused flag. Pausing is not gated by the
// cutoff window: unpaid-balance suspensions apply at any time of day.
func (s *mealOrderService) SetPaused(orderID int64, paused bool) (*models.MealOrder, error) {
	if err := s.orderRepo.SetPaused(s.db, orderID, paused); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMealOrderNotFound
		}
		return nil, fmt.Errorf("failed to set paused flag: %w", err)
	}
	order, err := s.orderRepo.GetMealOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("paused flag set but failed to reload order: %w", err)
	}
	order.Status = s.policy.DeriveStatus(order.Paused)
	return order, nil
}

func (s *mealOrderService) Window() OrderingWindow {
	today := s.policy.Today()
	return OrderingWindow{
		IsCutoffPassed:        s.policy.IsCutoffPassed(),
		CutoffTime:            fmt.Sprintf("%02d:%02d", CutoffHour, CutoffMinute),
		Today:                 FormatDate(today),
		EarliestOrderableDate: FormatDate(today.AddDate(0, 0, MinAdvanceDays)),
	}
}

// GroupOrdersByDate groups orders into per-date buckets with one slot per
// meal type, sorted ascending by date. The result is fully materialized; a
// resident's order book is bounded by days x 3 meal types and never large.
func GroupOrdersByDate(orders []models.MealOrder) []models.DayBucket {
	byDate := make(map[string]*models.DayBucket)
	dates := []string{}

	for i := range orders {
		order := orders[i]
		bucket, ok := byDate[order.Date]
		if !ok {
			bucket = &models.DayBucket{Date: order.Date}
			byDate[order.Date] = bucket
			dates = append(dates, order.Date)
		}
		switch order.MealType {
		case models.MealTypeBreakfast:
			bucket.Breakfast = &order
		case models.MealTypeLunch:
			bucket.Lunch = &order
		case models.MealTypeDinner:
			bucket.Dinner = &order
		}
		bucket.TotalCost += order.TotalPrice
	}

	// YYYY-MM-DD strings sort chronologically as plain strings.
	sort.Strings(dates)

	buckets := make([]models.DayBucket, 0, len(dates))
	for _, date := range dates {
		buckets = append(buckets, *byDate[date])
	}
	return buckets
}

// TotalCostForDate sums the total prices in a bucket; 0 for an empty bucket.
func TotalCostForDate(bucket models.DayBucket) float64 {
	var total float64
	for _, order := range []*models.MealOrder{bucket.Breakfast, bucket.Lunch, bucket.Dinner} {
		if order != nil {
			total += order.TotalPrice
		}
	}
	return total
}

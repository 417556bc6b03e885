package services

import (
	"database/sql"
	"errors"
	"fmt"

	"hostel_mess_backend/internal/models"
	"hostel_mess_backend/internal/repositories"
)

var ErrMealPriceNotFound = errors.New("meal price not found")

// UpdateMealPriceRequest DTO
type UpdateMealPriceRequest struct {
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

// MealPriceService exposes current meal prices and admin price changes.
// Price changes apply to future orders only; existing rows keep the unit
// price they were created with.
type MealPriceService interface {
	GetMealPrices() ([]models.MealPrice, error)
	UpdateMealPrice(mealType string, req UpdateMealPriceRequest) (*models.MealPrice, error)
}

type mealPriceService struct {
	priceRepo repositories.MealPriceRepository
	db        *sql.DB
}

// NewMealPriceService creates a new instance of MealPriceService.
func NewMealPriceService(pr repositories.MealPriceRepository, db *sql.DB) MealPriceService {
	return &mealPriceService{priceRepo: pr, db: db}
}

func (s *mealPriceService) GetMealPrices() ([]models.MealPrice, error) {
	prices, err := s.priceRepo.GetMealPrices()
	if err != nil {
		return nil, fmt.Errorf("failed to get meal prices: %w", err)
	}
	return prices, nil
}

func (s *mealPriceService) UpdateMealPrice(mealType string, req UpdateMealPriceRequest) (*models.MealPrice, error) {
	if !models.IsValidMealType(mealType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMealType, mealType)
	}
	price, err := s.priceRepo.UpdateUnitPrice(s.db, models.MealType(mealType), req.UnitPrice)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMealPriceNotFound
		}
		return nil, fmt.Errorf("failed to update meal price: %w", err)
	}
	return price, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"country-converter/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidRate is returned for negative or non-finite rates.
var ErrInvalidRate = errors.New("rate must be a finite non-negative number")

// ErrInvalidCode is returned for an empty currency code.
var ErrInvalidCode = errors.New("currency code is required")

// RateService reads and updates the exchange-rate table.
type RateService struct {
	db        *gorm.DB
	reference string
}

// NewRateService creates a RateService quoting in the reference currency.
func NewRateService(db *gorm.DB, reference string) *RateService {
	return &RateService{db: db, reference: reference}
}

// Reference returns the code rates are quoted in.
func (s *RateService) Reference() string {
	return s.reference
}

// List returns every rate ordered by currency code.
func (s *RateService) List(ctx context.Context) ([]models.ExchangeRate, error) {
	rates := []models.ExchangeRate{}
	if err := s.db.WithContext(ctx).Order("name asc").Find(&rates).Error; err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	return rates, nil
}

// Upsert sets the rate of code, creating the row when needed.
func (s *RateService) Upsert(ctx context.Context, code string, rate float64) (models.ExchangeRate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return models.ExchangeRate{}, ErrInvalidCode
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return models.ExchangeRate{}, ErrInvalidRate
	}

	row := models.ExchangeRate{Name: code, Rate: rate}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate"}),
	}).Create(&row).Error
	if err != nil {
		return models.ExchangeRate{}, fmt.Errorf("failed to store exchange rate: %w", err)
	}
	return row, nil
}

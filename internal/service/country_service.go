package service

import (
	"context"
	"fmt"

	"country-converter/internal/cache"
	"country-converter/internal/models"

	"gorm.io/gorm"
)

const allCountriesKey = "all"

// CountryService serves the country list, memoised in process after the first
// successful load. Country metadata changes rarely enough that the memo never
// expires on its own.
type CountryService struct {
	db   *gorm.DB
	memo *cache.Local[string, []models.Country]
}

// NewCountryService creates a CountryService backed by db.
func NewCountryService(db *gorm.DB) *CountryService {
	return &CountryService{
		db:   db,
		memo: cache.NewLocal[string, []models.Country](cache.LocalOptions{ConcurrencySafe: true}),
	}
}

// FetchAll returns every country ordered by name.
func (s *CountryService) FetchAll(ctx context.Context) ([]models.Country, error) {
	if countries, ok := s.memo.Get(allCountriesKey); ok {
		return countries, nil
	}

	var countries []models.Country
	if err := s.db.WithContext(ctx).Order("name asc").Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("failed to load countries: %w", err)
	}
	for i := range countries {
		if countries[i].Currencies == nil {
			countries[i].Currencies = []models.Currency{}
		}
	}

	s.memo.Set(allCountriesKey, countries, 0)
	return countries, nil
}

// Invalidate drops the memoised list.
func (s *CountryService) Invalidate() {
	s.memo.Delete(allCountriesKey)
}

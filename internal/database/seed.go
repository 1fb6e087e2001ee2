package database

import (
	"fmt"

	"country-converter/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Rates are quoted as SEK per unit of the currency.
var seedRates = []models.ExchangeRate{
	{Name: "SEK", Rate: 1},
	{Name: "NOK", Rate: 0.98},
	{Name: "DKK", Rate: 1.53},
	{Name: "EUR", Rate: 11.42},
	{Name: "USD", Rate: 10.48},
	{Name: "GBP", Rate: 13.37},
	{Name: "JPY", Rate: 0.071},
	{Name: "CHF", Rate: 11.83},
	{Name: "AUD", Rate: 6.91},
}

var seedCountries = []models.Country{
	{Name: "Sweden", Population: 10353442, Currencies: []models.Currency{{Code: "SEK", Name: "Swedish krona", Symbol: "kr"}}},
	{Name: "Norway", Population: 5379475, Currencies: []models.Currency{{Code: "NOK", Name: "Norwegian krone", Symbol: "kr"}}},
	{Name: "Denmark", Population: 5831404, Currencies: []models.Currency{{Code: "DKK", Name: "Danish krone", Symbol: "kr"}}},
	{Name: "Finland", Population: 5530719, Currencies: []models.Currency{{Code: "EUR", Name: "Euro", Symbol: "€"}}},
	{Name: "Germany", Population: 83240525, Currencies: []models.Currency{{Code: "EUR", Name: "Euro", Symbol: "€"}}},
	{Name: "United Kingdom", Population: 67215293, Currencies: []models.Currency{{Code: "GBP", Name: "British pound", Symbol: "£"}}},
	{Name: "United States of America", Population: 329484123, Currencies: []models.Currency{{Code: "USD", Name: "United States dollar", Symbol: "$"}}},
	{Name: "Japan", Population: 125836021, Currencies: []models.Currency{{Code: "JPY", Name: "Japanese yen", Symbol: "¥"}}},
	{Name: "Switzerland", Population: 8654622, Currencies: []models.Currency{{Code: "CHF", Name: "Swiss franc", Symbol: "Fr."}}},
	{Name: "Australia", Population: 25687041, Currencies: []models.Currency{{Code: "AUD", Name: "Australian dollar", Symbol: "$"}}},
	{Name: "Zimbabwe", Population: 14862927, Currencies: []models.Currency{
		{Code: "USD", Name: "United States dollar", Symbol: "$"},
		{Code: "ZWB", Name: "Zimbabwean bonds", Symbol: "$"},
	}},
	{Name: "Antarctica", Population: 1000},
}

// Seed fills empty country and rate tables with a small fixture.
func Seed(db *gorm.DB, log logrus.FieldLogger) error {
	var count int64
	if err := db.Model(&models.Country{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}
	if count == 0 {
		if err := db.Create(&seedCountries).Error; err != nil {
			return fmt.Errorf("failed to seed countries: %w", err)
		}
		log.WithField("count", len(seedCountries)).Info("seeded countries")
	}

	if err := db.Model(&models.ExchangeRate{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count exchange rates: %w", err)
	}
	if count == 0 {
		if err := db.Create(&seedRates).Error; err != nil {
			return fmt.Errorf("failed to seed exchange rates: %w", err)
		}
		log.WithField("count", len(seedRates)).Info("seeded exchange rates")
	}
	return nil
}

package models

// Currency is a currency used by a country
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Country represents a country and the currencies it owns
type Country struct {
	Name       string     `json:"name" gorm:"primaryKey"`
	Population int64      `json:"population"`
	Currencies []Currency `json:"currencies" gorm:"serializer:json"`
}

// TableName specifies the table name for Country Model
func (Country) TableName() string {
	return "countries"
}

// ExchangeRate quotes one unit of the currency Name in the reference currency
type ExchangeRate struct {
	Name string  `json:"name" gorm:"primaryKey"`
	Rate float64 `json:"rate" gorm:"not null"`
}

// TableName specifies the table name for ExchangeRate Model
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}

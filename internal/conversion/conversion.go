// Package conversion turns an amount into per-currency amounts in the
// reference currency using a table of exchange rates.
package conversion

import (
	"math"

	"country-converter/internal/models"

	"github.com/samber/mo"
)

// ConvertedAmount is one currency's converted value. Amount is None when no
// rate is quoted for the currency.
type ConvertedAmount struct {
	Currency models.Currency    `json:"currency"`
	Amount   mo.Option[float64] `json:"amount"`
}

// Available reports whether a rate was found for the currency.
func (c ConvertedAmount) Available() bool {
	return c.Amount.IsPresent()
}

// ValidateAmount maps NaN, infinities and negative amounts to 0.
func ValidateAmount(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return 0
	}
	return raw
}

// Convert multiplies base by the first rate whose Name matches each currency
// code. The result follows the order of currencies; a missing rate yields an
// entry with no amount rather than failing the whole list.
func Convert(base float64, currencies []models.Currency, rates []models.ExchangeRate) []ConvertedAmount {
	out := make([]ConvertedAmount, 0, len(currencies))
	for _, currency := range currencies {
		amount := mo.None[float64]()
		if rate, ok := findRate(rates, currency.Code); ok {
			amount = mo.Some(base * rate)
		}
		out = append(out, ConvertedAmount{Currency: currency, Amount: amount})
	}
	return out
}

func findRate(rates []models.ExchangeRate, code string) (float64, bool) {
	for _, r := range rates {
		if r.Name == code {
			return r.Rate, true
		}
	}
	return 0, false
}

// CountryConversion is the converted view of one country.
type CountryConversion struct {
	Country   models.Country    `json:"country"`
	Converted []ConvertedAmount `json:"converted"`
}

// ConvertCountries validates amount once and converts it for every country,
// keeping the order of countries.
func ConvertCountries(amount float64, countries []models.Country, rates []models.ExchangeRate) []CountryConversion {
	base := ValidateAmount(amount)
	out := make([]CountryConversion, 0, len(countries))
	for _, c := range countries {
		out = append(out, CountryConversion{
			Country:   c,
			Converted: Convert(base, c.Currencies, rates),
		})
	}
	return out
}

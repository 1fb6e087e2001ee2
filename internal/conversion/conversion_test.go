package conversion

import (
	"encoding/json"
	"math"
	"testing"

	"country-converter/internal/models"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
)

var (
	usd = models.Currency{Code: "USD", Name: "United States dollar", Symbol: "$"}
	eur = models.Currency{Code: "EUR", Name: "Euro", Symbol: "€"}
	xyz = models.Currency{Code: "XYZ", Name: "Nothing", Symbol: "?"}
)

func TestValidateAmount(t *testing.T) {
	require.Equal(t, 0.0, ValidateAmount(math.NaN()))
	require.Equal(t, 0.0, ValidateAmount(-5))
	require.Equal(t, 0.0, ValidateAmount(math.Inf(1)))
	require.Equal(t, 0.0, ValidateAmount(math.Inf(-1)))
	require.Equal(t, 3.2, ValidateAmount(3.2))
	require.Equal(t, 0.0, ValidateAmount(0))
}

func TestConvert(t *testing.T) {
	got := Convert(2, []models.Currency{usd}, []models.ExchangeRate{{Name: "USD", Rate: 10}})
	require.Equal(t, []ConvertedAmount{{Currency: usd, Amount: mo.Some(20.0)}}, got)
}

func TestConvert_MissingRate(t *testing.T) {
	got := Convert(2, []models.Currency{xyz}, nil)
	require.Len(t, got, 1)
	require.Equal(t, xyz, got[0].Currency)
	require.False(t, got[0].Available())
}

func TestConvert_OrderAndFirstMatch(t *testing.T) {
	rates := []models.ExchangeRate{
		{Name: "EUR", Rate: 11.5},
		{Name: "USD", Rate: 10},
		{Name: "USD", Rate: 99},
	}
	got := Convert(3, []models.Currency{xyz, usd, eur}, rates)
	require.Len(t, got, 3)
	require.Equal(t, []string{"XYZ", "USD", "EUR"}, []string{got[0].Currency.Code, got[1].Currency.Code, got[2].Currency.Code})
	require.False(t, got[0].Available())
	require.Equal(t, 30.0, got[1].Amount.MustGet())
	require.InDelta(t, 34.5, got[2].Amount.MustGet(), 1e-9)
}

func TestConvert_NoCurrencies(t *testing.T) {
	require.Empty(t, Convert(1, nil, []models.ExchangeRate{{Name: "USD", Rate: 1}}))
}

func TestConvertCountries(t *testing.T) {
	countries := []models.Country{
		{Name: "Ecuador", Currencies: []models.Currency{usd}},
		{Name: "Nowhere", Currencies: []models.Currency{xyz}},
	}
	got := ConvertCountries(-1, countries, []models.ExchangeRate{{Name: "USD", Rate: 10}})
	require.Len(t, got, 2)
	require.Equal(t, "Ecuador", got[0].Country.Name)
	require.Equal(t, 0.0, got[0].Converted[0].Amount.MustGet())
	require.False(t, got[1].Converted[0].Available())
}

func TestConvertedAmount_JSON(t *testing.T) {
	data, err := json.Marshal(Convert(2, []models.Currency{usd, xyz}, []models.ExchangeRate{{Name: "USD", Rate: 10}}))
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"currency":{"code":"USD","name":"United States dollar","symbol":"$"},"amount":20},
		{"currency":{"code":"XYZ","name":"Nothing","symbol":"?"},"amount":null}
	]`, string(data))
}

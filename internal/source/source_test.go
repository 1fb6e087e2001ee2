package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"country-converter/internal/logger"
	"country-converter/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Password != "secret" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": "tok-" + req.Username})
	})
	api := r.Group("/api", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer tok-alice" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}
		c.Next()
	})
	api.GET("/countries", func(c *gin.Context) {
		c.JSON(http.StatusOK, []models.Country{
			{Name: "Sweden", Population: 10_350_000, Currencies: []models.Currency{{Code: "SEK", Name: "Swedish krona", Symbol: "kr"}}},
		})
	})
	api.GET("/exchange-rates", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"base": "SEK", "rates": []models.ExchangeRate{{Name: "USD", Rate: 10.5}}})
	})
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(200 * time.Millisecond)
		c.Status(http.StatusOK)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func staticToken(token string) TokenFunc {
	return func(context.Context) (string, error) { return token, nil }
}

func TestClient_FetchWithToken(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(srv.URL+"/", time.Second, staticToken("tok-alice"), logger.Discard())

	countries, err := c.FetchCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 1)
	require.Equal(t, "SEK", countries[0].Currencies[0].Code)

	rates, err := c.FetchExchangeRates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []models.ExchangeRate{{Name: "USD", Rate: 10.5}}, rates)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(srv.URL, time.Second, nil, logger.Discard())

	_, err := c.FetchCountries(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "Authorization token is required", fe.Message)
}

func TestClient_Login(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(srv.URL, time.Second, nil, logger.Discard())

	token, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-alice", token)

	_, err = c.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Contains(t, err.Error(), "Invalid username or password")
}

func TestClient_TransportErrors(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(srv.URL, 50*time.Millisecond, nil, logger.Discard())

	var fe *FetchError
	err := c.do(context.Background(), http.MethodGet, "/slow", nil, &struct{}{})
	require.True(t, errors.As(err, &fe))
	require.Equal(t, 0, fe.Status)
	require.Equal(t, "request timed out", fe.Message)

	dead := NewClient("http://127.0.0.1:1", time.Second, nil, logger.Discard())
	_, err = dead.FetchExchangeRates(context.Background())
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "server unreachable", fe.Message)
}

func TestClient_TokenSupplierError(t *testing.T) {
	srv := fakeAPI(t)
	boom := errors.New("storage offline")
	c := NewClient(srv.URL, time.Second, func(context.Context) (string, error) { return "", boom }, logger.Discard())

	_, err := c.FetchCountries(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestClient_RatesFeedURL(t *testing.T) {
	u, err := NewClient("https://rates.example.com/", time.Second, nil, logger.Discard()).RatesFeedURL()
	require.NoError(t, err)
	require.Equal(t, "wss://rates.example.com/api/ws/rates", u)

	u, err = NewClient("http://localhost:8008", time.Second, nil, logger.Discard()).RatesFeedURL()
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8008/api/ws/rates", u)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"country-converter/internal/auth"
	"country-converter/internal/config"
	"country-converter/internal/database"
	"country-converter/internal/logger"
	"country-converter/internal/middleware"
	"country-converter/internal/realtime"
	"country-converter/internal/service"
	"country-converter/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router *gin.Engine
	tokens *auth.Manager
	hub    *realtime.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	require.NoError(t, database.Seed(db, logger.Discard()))

	tokens := auth.NewManager(config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "country-converter",
		Audience:   "country-converter-clients",
		Expiration: time.Hour,
	})
	hub := realtime.NewHub()
	h := New(db, tokens, service.NewCountryService(db), service.NewRateService(db, "SEK"), hub, logger.Discard())

	r := gin.New()
	r.POST("/api/login", h.Login)
	api := r.Group("/api", middleware.JWTAuthMiddleware(tokens))
	api.GET("/users/me", h.GetCurrentUser)
	api.GET("/countries", h.GetCountries)
	api.GET("/exchange-rates", h.GetExchangeRates)
	api.PUT("/exchange-rates/:code", h.UpdateExchangeRate)
	api.GET("/ws/rates", h.RatesFeed)

	return &fixture{router: r, tokens: tokens, hub: hub}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) login(t *testing.T, username, password string) LoginResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

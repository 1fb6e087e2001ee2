package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"country-converter/internal/models"
	"country-converter/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestGetCountries(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "alice", "pw").Token

	w := f.do(t, http.MethodGet, "/api/countries", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodGet, "/api/countries", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var countries []models.Country
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &countries))
	require.NotEmpty(t, countries)
	for _, c := range countries {
		require.NotNil(t, c.Currencies, c.Name)
	}
}

func TestGetExchangeRates(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "alice", "pw").Token

	w := f.do(t, http.MethodGet, "/api/exchange-rates", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Base  string                `json:"base"`
		Rates []models.ExchangeRate `json:"rates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "SEK", resp.Base)
	require.Contains(t, resp.Rates, models.ExchangeRate{Name: "SEK", Rate: 1})
}

func TestUpdateExchangeRate(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "alice", "pw").Token

	w := f.do(t, http.MethodPut, "/api/exchange-rates/zwb", token, map[string]float64{"rate": 0.03})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var row models.ExchangeRate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
	require.Equal(t, models.ExchangeRate{Name: "ZWB", Rate: 0.03}, row)

	w = f.do(t, http.MethodPut, "/api/exchange-rates/usd", token, map[string]float64{"rate": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, "/api/exchange-rates/usd", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRatesFeed_ReceivesUpdates(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "alice", "pw").Token
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/rates?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return f.hub.Subscribers(realtime.TopicRates) == 1 }, time.Second, 5*time.Millisecond)

	w := f.do(t, http.MethodPut, "/api/exchange-rates/USD", token, map[string]float64{"rate": 9.9})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev realtime.Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, realtime.EventRatesUpdated, ev.Type)
	require.Equal(t, "USD", ev.Code)
	require.Equal(t, 9.9, ev.Rate)

	_ = conn.Close()
	require.Eventually(t, func() bool { return f.hub.Subscribers(realtime.TopicRates) == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestRatesFeed_RequiresToken(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws/rates", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"country-converter/internal/realtime"
	"country-converter/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UpdateRateRequest represents the payload for changing one rate
type UpdateRateRequest struct {
	Rate *float64 `json:"rate" binding:"required"`
}

// GetExchangeRates returns the rate table
// GET /api/exchange-rates
func (h *Handler) GetExchangeRates(c *gin.Context) {
	rates, err := h.rates.List(c.Request.Context())
	if err != nil {
		h.logger.WithField("error", err).Error("failed to fetch exchange rates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exchange rates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"base":  h.rates.Reference(),
		"rates": rates,
	})
}

// UpdateExchangeRate sets one rate and notifies feed subscribers
// PUT /api/exchange-rates/:code
func (h *Handler) UpdateExchangeRate(c *gin.Context) {
	var req UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Rate is required."})
		return
	}

	row, err := h.rates.Upsert(c.Request.Context(), c.Param("code"), *req.Rate)
	if errors.Is(err, service.ErrInvalidRate) || errors.Is(err, service.ErrInvalidCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithField("error", err).Error("failed to update exchange rate")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update exchange rate"})
		return
	}

	delivered, err := h.hub.Publish(realtime.TopicRates, realtime.Event{
		Type: realtime.EventRatesUpdated,
		Code: row.Name,
		Rate: row.Rate,
		At:   time.Now().UTC(),
	})
	if err != nil {
		h.logger.WithField("error", err).Warn("failed to publish rate update")
	}
	h.logger.WithFields(logrus.Fields{"code": row.Name, "rate": row.Rate, "subscribers": delivered}).Info("exchange rate updated")

	c.JSON(http.StatusOK, row)
}

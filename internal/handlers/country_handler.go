package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCountries returns every country with its currencies
// GET /api/countries
func (h *Handler) GetCountries(c *gin.Context) {
	countries, err := h.countries.FetchAll(c.Request.Context())
	if err != nil {
		h.logger.WithField("error", err).Error("failed to fetch countries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch countries"})
		return
	}
	c.JSON(http.StatusOK, countries)
}

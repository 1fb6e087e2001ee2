package handlers

import (
	"country-converter/internal/auth"
	"country-converter/internal/realtime"
	"country-converter/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler holds the dependencies of every HTTP handler
type Handler struct {
	db        *gorm.DB
	tokens    *auth.Manager
	countries *service.CountryService
	rates     *service.RateService
	hub       *realtime.Hub
	logger    logrus.FieldLogger
}

// New creates a Handler
func New(db *gorm.DB, tokens *auth.Manager, countries *service.CountryService, rates *service.RateService, hub *realtime.Hub, logger logrus.FieldLogger) *Handler {
	return &Handler{
		db:        db,
		tokens:    tokens,
		countries: countries,
		rates:     rates,
		hub:       hub,
		logger:    logger,
	}
}

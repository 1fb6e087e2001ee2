package routes

import (
	"net/http"

	"country-converter/internal/auth"
	"country-converter/internal/handlers"
	"country-converter/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func SetupRoutes(h *handlers.Handler, tokens *auth.Manager, logger logrus.FieldLogger) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.Logger(logger))

	// CORS middleware (for browser clients)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Country converter API is running",
		})
	})

	// Public routes
	api := ginRouter.Group("/api")
	{
		api.POST("/login", h.Login)
	}

	// Protected routes
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(tokens))
	{
		protectedRoutes.GET("/users/me", h.GetCurrentUser)
		protectedRoutes.GET("/countries", h.GetCountries)
		protectedRoutes.GET("/exchange-rates", h.GetExchangeRates)
		protectedRoutes.PUT("/exchange-rates/:code", h.UpdateExchangeRate)
		protectedRoutes.GET("/ws/rates", h.RatesFeed)
	}

	return ginRouter
}

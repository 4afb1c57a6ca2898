package server

import (
	"net/http"

	"event-booking-bot/internal/config"
	"event-booking-bot/internal/logger"

	"github.com/gin-gonic/gin"
)

// NewRouter - http обработчики бота. webhook == nil в режиме polling.
func NewRouter(cnf *config.Conf, webhook http.HandlerFunc) *gin.Engine {
	app := gin.Default()

	app.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"mode":   cnf.Telegram.Mode,
		})
	})

	if webhook != nil {
		logger.Info("Init receiving endpoint", cnf.Server.WebhookPath)
		app.POST(cnf.Server.WebhookPath, gin.WrapF(webhook))
	}

	return app
}

func New(cnf *config.Conf, webhook http.HandlerFunc) *http.Server {
	return &http.Server{
		Addr:    cnf.Server.Listen,
		Handler: NewRouter(cnf, webhook),
	}
}

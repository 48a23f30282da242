// internal/handler/routes.go
package handler

import (
	"github.com/gin-gonic/gin"

	"finance-bot/internal/telegram"
)

// NewRouter wires every HTTP route. webhook may be nil when no bot token is
// configured.
func NewRouter(dash *DashboardHandler, login *LoginHandler, webhook *WebhookHandler, health *HealthHandler, requireAuth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", health.Health)

	if webhook != nil {
		router.POST(telegram.WebhookPath, webhook.Receive)
	}

	v1 := router.Group("/api/v1")
	v1.POST("/login", login.RequestCode)
	v1.POST("/login/verify", login.VerifyCode)
	v1.GET("/categories", dash.Categories)

	authed := v1.Group("")
	authed.Use(requireAuth)
	{
		authed.GET("/dashboard", dash.Dashboard)
		authed.GET("/transactions", dash.Transactions)
	}

	return router
}

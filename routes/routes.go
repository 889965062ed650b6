package routes

import (
	"net/http"
	"time"

	"carelink/handlers"
	"carelink/middleware"
	"carelink/services/session"
	"carelink/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the portal's endpoints.
func RegisterRoutes(r *gin.Engine, sessions session.Store, sessionHandler *handlers.SessionHandler, requestHandler *handlers.RequestHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	api := r.Group("/api")
	{
		// Session exchange is the only unauthenticated endpoint.
		api.POST("/session", sessionHandler.StartSessionHandler)

		authed := api.Group("")
		authed.Use(middleware.SessionAuthMiddleware(sessions))
		{
			authed.GET("/session", sessionHandler.GetSessionHandler)
			authed.DELETE("/session", sessionHandler.EndSessionHandler)

			authed.GET("/requests/pending", requestHandler.GetPendingHandler)
			authed.POST("/requests/refresh", requestHandler.RefreshHandler)
			authed.GET("/requests", requestHandler.ListAllHandler)
			authed.GET("/requests/slots", requestHandler.SlotGridHandler)
			authed.GET("/requests/history", requestHandler.ProviderHistoryHandler)

			authed.POST("/requests/:id/confirm", requestHandler.ConfirmHandler)
			authed.POST("/requests/:id/decline", requestHandler.DeclineHandler)
			authed.POST("/requests/:id/reschedule", requestHandler.RescheduleHandler)
			authed.GET("/requests/:id/history", requestHandler.HistoryHandler)
		}
	}
}

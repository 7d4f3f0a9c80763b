package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"travelbot/handlers"
)

// RegisterChatRoutes registers the conversational endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/chat", hb.ChatHandler)
		api.GET("/session/:id", hb.GetSessionHandler)
		api.DELETE("/session/:id", hb.DeleteSessionHandler)
	}
}

// RegisterTripRoutes registers the direct trip-lookup endpoints.
func RegisterTripRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/trips")
	{
		api.GET("/:employeeID", hb.ListTripsHandler)
	}
}

// RegisterAuditRoutes registers the submission-audit endpoints used by
// support staff.
func RegisterAuditRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/audit")
	{
		api.GET("/session/:id", hb.ListAuditHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r, hb)
	RegisterTripRoutes(r, hb)
	RegisterAuditRoutes(r, hb)
	RegisterHealthRoute(r)
}

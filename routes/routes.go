package routes

import (
	"time"

	"meetwise/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAssistantRoutes registers the scheduling assistant endpoints.
func RegisterAssistantRoutes(r *gin.Engine, h *handlers.AssistantHandler) {
	api := r.Group("/api/assistant")
	{
		api.POST("/chat", h.ChatHandler)
		api.GET("/session/:id", h.GetSessionHandler)
		api.DELETE("/session/:id", h.ClearSessionHandler)
	}
}

// RegisterSystemRoutes registers operational endpoints.
func RegisterSystemRoutes(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// CORSConfig returns the CORS policy for browser clients.
func CORSConfig() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelbot/services/conversation"
	"travelbot/utils"
)

// GetSessionHandler returns the full stored session, mainly for debugging
// front-ends and support tooling.
func GetSessionHandler(store conversation.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			utils.GetLogger().Error("Failed to load session", zap.String("sessionId", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		if sess == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// DeleteSessionHandler drops a session, abandoning any in-progress request.
// It goes through the engine so the per-session lock is released too.
func DeleteSessionHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := engine.DropSession(c.Request.Context(), id); err != nil {
			utils.GetLogger().Error("Failed to delete session", zap.String("sessionId", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

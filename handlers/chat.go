package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"travelbot/models"
	"travelbot/services/conversation"
	"travelbot/utils"
)

// ChatHandler handles one conversational turn. A request without a session ID
// starts a new session; the generated ID comes back in the response and must
// be echoed on subsequent turns.
func ChatHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid chat request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		reply, state, err := engine.HandleTurn(c.Request.Context(), sessionID, req.Text)
		if err != nil {
			logger.Error("Chat turn failed", zap.String("sessionId", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
			return
		}

		c.JSON(http.StatusOK, models.ChatResponse{
			SessionID: sessionID,
			Reply:     reply,
			State:     state,
		})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelbot/database/repository"
	"travelbot/utils"
)

// ListAuditHandler returns the submission-audit trail of one session. Support
// staff use it to reconcile partial submission failures against the backend.
func ListAuditHandler(repo repository.AuditRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")
		entries, err := repo.ListBySession(c.Request.Context(), sessionID)
		if err != nil {
			utils.GetLogger().Error("Audit lookup failed",
				zap.String("sessionId", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit trail"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelbot/models"
	"travelbot/services/conversation"
	"travelbot/utils"
)

// ListTripsHandler exposes the trip lookup directly, outside the chat flow.
// Query parameters: all=true drops the date window, otherwise start/end
// (YYYYMMDD) or trip narrow it; no filter defaults to 90 days around today.
func ListTripsHandler(backend conversation.BookingBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.TripFilter{
			EmployeeID: c.Param("employeeID"),
			AllTrips:   c.Query("all") == "true",
			StartDate:  c.Query("start"),
			EndDate:    c.Query("end"),
			TripNumber: c.Query("trip"),
		}

		trips, err := backend.TripList(c.Request.Context(), filter)
		if err != nil {
			utils.GetLogger().Error("Trip lookup failed",
				zap.String("pernr", filter.EmployeeID), zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, "Failed to fetch trips", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"trips": trips})
	}
}

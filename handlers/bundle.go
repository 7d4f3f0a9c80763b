// handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers into one struct so routes can be
// registered against a single wired value.
type HandlerBundle struct {
	ChatHandler          gin.HandlerFunc
	GetSessionHandler    gin.HandlerFunc
	DeleteSessionHandler gin.HandlerFunc
	ListTripsHandler     gin.HandlerFunc
	ListAuditHandler     gin.HandlerFunc
}

package connection_module

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the connection module
func RegisterRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	// Create base group for connection routes
	group := g.Group("/connection")
	group.Use(auth)

	group.GET("", GetStatus)     // Connected indicator
	group.PUT("", SetConnection) // Set the store endpoint for this session
}

package console

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the console module
func RegisterRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	// Create base group for console routes
	group := g.Group("/console")
	group.Use(auth)

	group.GET("/state", GetState)         // Snapshot of the workflow
	group.GET("/catalog", GetCatalog)     // Brand and domain lists
	group.POST("/generate", Generate)     // Draft a new record
	group.POST("/edit", ToggleEdit)       // Enter or leave edit mode
	group.PUT("/edit", UpdateScratch)     // Replace the edit buffer
	group.POST("/audit", Audit)           // Self-audit the current record
	group.POST("/approve", Approve)       // Persist the current record as approved
	group.POST("/records/:id/open", Open) // Make a record current
	group.GET("/finder", GetResults)      // Listing from the last search
	group.POST("/finder/search", Search)  // Set the filter and refetch
	group.GET("/approvals", GetApprovals) // Approval ledger
}

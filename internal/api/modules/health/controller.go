package health

import (
	"time"

	"github.com/ethanbaker/hq-console/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Return status of the API
func getStatus(c *gin.Context) {
	res := sdk.NewSuccessResponse("OK", gin.H{"time": time.Now().UTC()})
	c.JSON(res.AsGinResponse())
}

package connection_module

import (
	"net/http"

	"github.com/ethanbaker/hq-console/internal/api/modules/console"
	"github.com/ethanbaker/hq-console/internal/connection"
	"github.com/ethanbaker/hq-console/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// GetStatus handles GET requests for the connected indicator
func GetStatus(c *gin.Context) {
	status := connectionService.monitor.Status()
	c.JSON(sdk.NewSuccessResponse("Status retrieved successfully", toSDKStatus(status)).AsGinResponse())
}

// SetConnection handles PUT requests setting the store endpoint. The finder
// search is re-run against the new endpoint
func SetConnection(c *gin.Context) {
	// Parse request body
	var req sdk.ConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewFailResponse(http.StatusBadRequest, "Could not parse request body", &sdk.ErrorDetail{Reason: err.Error()}).AsGinResponse())
		return
	}

	if err := connectionService.monitor.Settings().Set(req.URL); err != nil {
		c.JSON(sdk.NewFailResponse(http.StatusBadRequest, "Invalid endpoint address", &sdk.ErrorDetail{Reason: err.Error()}).AsGinResponse())
		return
	}

	resp := sdk.ConnectionResponse{Status: toSDKStatus(connectionService.monitor.Refresh())}
	if connectionService.finder != nil {
		resp.Results = console.ToSDKFinderResults(connectionService.finder.Search(c.Request.Context()))
	}

	c.JSON(sdk.NewSuccessResponse("Endpoint updated successfully", resp).AsGinResponse())
}

func toSDKStatus(s connection.Status) sdk.ConnectionStatus {
	return sdk.ConnectionStatus{
		Connected: s.Connected,
		Endpoint:  s.Endpoint,
		Source:    string(s.Source),
		CheckedAt: s.CheckedAt,
	}
}

package console

import (
	"net/http"

	"github.com/ethanbaker/hq-console/internal/workflow"
	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// GetState handles GET requests for the workflow snapshot
func GetState(c *gin.Context) {
	state := consoleService.workflow.State()
	c.JSON(sdk.NewSuccessResponse("State retrieved successfully", ToSDKState(state)).AsGinResponse())
}

// GetCatalog handles GET requests for the brand and domain lists
func GetCatalog(c *gin.Context) {
	catalog := sdk.Catalog{
		Brands:  consoleService.catalog.Brands,
		Domains: consoleService.catalog.Domains,
	}
	c.JSON(sdk.NewSuccessResponse("Catalog retrieved successfully", catalog).AsGinResponse())
}

// Generate handles POST requests to draft a new record
func Generate(c *gin.Context) {
	// Parse request body
	var req sdk.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(badRequest(err).AsGinResponse())
		return
	}

	kind, ok := record.ParseKind(req.Kind)
	if !ok {
		kind = record.Kind(req.Kind)
	}

	r, err := consoleService.workflow.Generate(c.Request.Context(), workflow.GenerateRequest{
		Kind:           kind,
		Brand:          req.Brand,
		Domain:         req.Domain,
		TopicName:      req.TopicName,
		SourceText:     req.SourceText,
		RelatedTopicID: req.RelatedTopicID,
	})
	if err != nil {
		c.JSON(errorResponse("Failed to generate draft", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Draft generated successfully", ToSDKRecord(r)).AsGinResponse())
}

// ToggleEdit handles POST requests to enter or leave edit mode
func ToggleEdit(c *gin.Context) {
	editing, err := consoleService.workflow.ToggleEdit()
	if err != nil {
		c.JSON(errorResponse("Failed to toggle edit mode", err).AsGinResponse())
		return
	}

	message := "Edits committed successfully"
	if editing {
		message = "Edit mode entered"
	}
	c.JSON(sdk.NewSuccessResponse(message, sdk.EditResponse{Editing: editing}).AsGinResponse())
}

// UpdateScratch handles PUT requests replacing the edit buffer
func UpdateScratch(c *gin.Context) {
	// Parse request body
	var req sdk.Scratch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(badRequest(err).AsGinResponse())
		return
	}

	scratch := workflow.Scratch{
		Content:  req.Content,
		Summary:  req.Summary,
		Keywords: req.Keywords,
		MetaJSON: req.MetaJSON,
	}
	if err := consoleService.workflow.UpdateScratch(scratch); err != nil {
		c.JSON(errorResponse("Failed to update edit buffer", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Edit buffer updated", req).AsGinResponse())
}

// Audit handles POST requests to self-audit the current record
func Audit(c *gin.Context) {
	report, err := consoleService.workflow.Audit(c.Request.Context())
	if err != nil {
		c.JSON(errorResponse("Failed to audit record", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Record audited successfully", ToSDKReport(report)).AsGinResponse())
}

// Approve handles POST requests to persist the current record as approved
func Approve(c *gin.Context) {
	// Body is optional
	var req sdk.ApproveRequest
	if _, err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(badRequest(err).AsGinResponse())
		return
	}

	result, err := consoleService.workflow.Approve(c.Request.Context(), req.Reviewer)
	if err != nil {
		c.JSON(errorResponse("Failed to approve record", err).AsGinResponse())
		return
	}

	resp := sdk.ApproveResponse{
		Record:     ToSDKRecord(result.Record),
		Collection: result.Collection,
		Confirmed:  result.Confirmed,
	}

	message := "Record approved successfully"
	if !result.Confirmed {
		message = "Record sent for approval; the store did not confirm the write"
	}
	c.JSON(sdk.NewSuccessResponse(message, resp).AsGinResponse())
}

// Open handles POST requests making a record current
func Open(c *gin.Context) {
	r, err := consoleService.workflow.Open(c.Param("id"))
	if err != nil {
		c.JSON(errorResponse("Failed to open record", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Record opened successfully", ToSDKRecord(r)).AsGinResponse())
}

// GetResults handles GET requests for the listing of the last search
func GetResults(c *gin.Context) {
	view := consoleService.workflow.Results()
	c.JSON(sdk.NewSuccessResponse("Results retrieved successfully", ToSDKFinderResults(view)).AsGinResponse())
}

// Search handles POST requests setting the filter and refetching remote records
func Search(c *gin.Context) {
	// Body is optional; without one the current filter is kept
	var req sdk.Filter
	bound, err := bindOptionalJSON(c, &req)
	if err != nil {
		c.JSON(badRequest(err).AsGinResponse())
		return
	}
	if bound {
		consoleService.workflow.SetFilter(fromSDKFilter(req))
	}

	view := consoleService.workflow.Search(c.Request.Context())

	message := "Search completed successfully"
	if view.Failure != "" {
		message = "Search completed without remote records"
	}
	c.JSON(sdk.NewSuccessResponse(message, ToSDKFinderResults(view)).AsGinResponse())
}

// GetApprovals handles GET requests listing the approval ledger
func GetApprovals(c *gin.Context) {
	approvals := []sdk.Approval{}

	if consoleService.ledger != nil {
		entries, err := consoleService.ledger.List()
		if err != nil {
			c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list approvals", &sdk.ErrorDetail{Reason: err.Error()}).AsGinResponse())
			return
		}
		for _, e := range entries {
			approvals = append(approvals, toSDKApproval(e))
		}
	}

	c.JSON(sdk.NewSuccessResponse("Approvals retrieved successfully", approvals).AsGinResponse())
}

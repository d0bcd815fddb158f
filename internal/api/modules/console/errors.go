package console

import (
	"errors"
	"io"
	"net/http"

	"github.com/ethanbaker/hq-console/internal/stores/approval"
	"github.com/ethanbaker/hq-console/internal/workflow"
	"github.com/ethanbaker/hq-console/pkg/generation"
	"github.com/ethanbaker/hq-console/pkg/sdk"
	"github.com/ethanbaker/hq-console/pkg/sheet"
	"github.com/gin-gonic/gin"
)

// bindOptionalJSON binds a JSON body when one is sent, including chunked bodies
// of unknown length. It reports false for an empty body
func bindOptionalJSON(c *gin.Context, obj any) (bool, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return false, nil
	}

	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func badRequest(err error) sdk.ApiResponse[any] {
	return sdk.NewFailResponse(http.StatusBadRequest, "Could not parse request body", &sdk.ErrorDetail{Reason: err.Error()})
}

// errorResponse maps a workflow error to an envelope. Rejections (validation,
// state conflicts) are fails; failed calls to the provider or store are errors
func errorResponse(message string, err error) sdk.ApiResponse[any] {
	detail := &sdk.ErrorDetail{Reason: err.Error()}

	var opErr *workflow.OperationError
	if errors.As(err, &opErr) {
		detail.Op = string(opErr.Op)
		detail.Failure = string(opErr.Failure)
		if opErr.Err != nil {
			detail.Reason = opErr.Err.Error()
		}

		var genErr *generation.Error
		if errors.As(err, &genErr) {
			detail.Quota = genErr.Quota
		}

		switch {
		case errors.Is(err, approval.ErrAlreadyApproved):
			return sdk.NewFailResponse(http.StatusConflict, message, detail)
		case detail.Quota:
			return sdk.NewErrorResponse(http.StatusTooManyRequests, message, detail)
		case opErr.Failure == sheet.FailureConfigMissing:
			return sdk.NewErrorResponse(http.StatusServiceUnavailable, message, detail)
		default:
			return sdk.NewErrorResponse(http.StatusBadGateway, message, detail)
		}
	}

	switch {
	case errors.Is(err, workflow.ErrValidation):
		return sdk.NewFailResponse(http.StatusBadRequest, message, detail)
	case errors.Is(err, workflow.ErrNotFound):
		return sdk.NewFailResponse(http.StatusNotFound, message, detail)
	case errors.Is(err, workflow.ErrInvalidEdit):
		return sdk.NewFailResponse(http.StatusUnprocessableEntity, message, detail)
	case errors.Is(err, workflow.ErrBusy),
		errors.Is(err, workflow.ErrEditing),
		errors.Is(err, workflow.ErrNotEditing),
		errors.Is(err, workflow.ErrReadOnly),
		errors.Is(err, workflow.ErrNoCurrent):
		return sdk.NewFailResponse(http.StatusConflict, message, detail)
	}

	return sdk.NewErrorResponse(http.StatusInternalServerError, message, detail)
}

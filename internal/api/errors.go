package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inspectme/internal/inspection"
	"inspectme/internal/utils"
)

// statusFor maps pipeline failures to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inspection.ErrMissingInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, inspection.ErrUpstreamGeneration):
		return http.StatusBadGateway
	case errors.Is(err, inspection.ErrNoJSONFound), errors.Is(err, inspection.ErrMalformedJSON):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondStageError writes err with the failing stage and offending text.
func respondStageError(c *gin.Context, err error, extra gin.H) {
	details := gin.H{}
	for k, v := range extra {
		details[k] = v
	}
	var se *inspection.StageError
	if errors.As(err, &se) {
		details["stage"] = se.Stage
		details["kind"] = se.Kind.Error()
		if se.Text != "" {
			details["raw_text"] = se.Text
		}
	}
	utils.ErrorWithDetails(c, statusFor(err), err.Error(), details)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shareloop/service-booking/internal/domain/apperrors"
)

// errorResponse is the JSON error body returned by every handler.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError translates a domain error into an HTTP response. Authorization
// failures map to 404, matching the upstream gateway contract: callers learn
// nothing about bookings they cannot see.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	switch appErr.Code {
	case apperrors.CodeNotFound, apperrors.CodeNotAuthorized, apperrors.CodeSelfBookingForbidden:
		c.JSON(http.StatusNotFound, errorResponse{Error: appErr.Message})
	case apperrors.CodeInvalidTimeRange, apperrors.CodeItemUnavailable,
		apperrors.CodeAlreadyApproved, apperrors.CodeInvalidFilter:
		c.JSON(http.StatusBadRequest, errorResponse{Error: appErr.Message})
	case apperrors.CodeConflict:
		c.JSON(http.StatusConflict, errorResponse{Error: appErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: appErr.Message})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// ClassifyError maps an error to an HTTP status and the code and message
// shown to the client. Errors outside the application taxonomy become a
// generic 500.
func ClassifyError(err error) (status int, code, message string) {
	var fallback string
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		status, fallback = http.StatusBadRequest, apperrors.CodeValidationFailed
	case errors.Is(err, apperrors.ErrReferential), errors.Is(err, apperrors.ErrBadRequest):
		status, fallback = http.StatusBadRequest, apperrors.CodeBadRequest
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status, fallback = http.StatusNotFound, apperrors.CodeNotFound
	case errors.Is(err, apperrors.ErrNoData):
		status, fallback = http.StatusNotFound, apperrors.CodeNoData
	case errors.Is(err, apperrors.ErrConflict):
		status, fallback = http.StatusConflict, apperrors.CodeConflict
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, apperrors.CodeUnauthorized, "Authentication failed"
	default:
		return http.StatusInternalServerError, apperrors.CodeInternal, "Internal server error"
	}

	code, message, ok := apperrors.CodeOf(err)
	if !ok {
		code, message = fallback, err.Error()
	}
	return status, code, message
}

// HandleAPIError writes the JSON error envelope for err. Unexpected errors
// are logged with their cause; expected ones only at debug level.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := ClassifyError(err)

	lgr := zerolog.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		lgr.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unexpected error while handling request")
	} else {
		lgr.Debug().Err(err).Str("code", code).Int("status", status).Msg("Request rejected")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/logger"
)

// HandleAPIError is the single place where errors become HTTP responses.
// It writes the response but does not abort the handler chain.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorResponse(err)

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Msg("Request failed")
	case status == http.StatusUnauthorized:
		logger.Debug().Str("reason", apperrors.Code(err)).Str("path", c.FullPath()).Msg("Request not authenticated")
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

// AbortWithError writes the mapped error response and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	message := func(fallback string) string {
		if msg, ok := apperrors.Message(err); ok {
			return msg
		}
		return fallback
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message("Validation failed"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Resource not found"))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message("Email already exists")).WithField("email")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, message("Conflict"))
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.NewErrorDetail(unauthorizedCode(err), message("Authentication required"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message("Permission denied"))
	case errors.Is(err, apperrors.ErrStorage):
		// the storage cause can contain server paths
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeStorage, "File storage error").
			WithSeverity(dto.ErrorSeverityCritical)
	case errors.Is(err, apperrors.ErrProvisioning):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, message("Account provisioning failed"))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

func unauthorizedCode(err error) dto.ErrorCode {
	switch apperrors.Code(err) {
	case "invalid_credentials":
		return dto.ErrorCodeInvalidCredentials
	case "token_expired":
		return dto.ErrorCodeExpiredToken
	case "token_invalid":
		return dto.ErrorCodeInvalidToken
	case "session_not_found":
		return dto.ErrorCodeSessionNotFound
	default:
		return dto.ErrorCodeUnauthorized
	}
}

// Recovery turns panics into the standard 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	})
}

// NotFoundHandler answers unknown routes in the standard error shape
func NotFoundHandler(c *gin.Context) {
	detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found").WithDetails(c.Request.URL.Path)
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(detail))
}

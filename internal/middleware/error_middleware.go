package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/logger"
)

// Fallback texts when an error carries no visitor-safe message
const (
	msgInternal = "Internal server error"
	msgNotFound = "Resource not found"
)

// apiStatus maps an application error onto an HTTP status and error code
func apiStatus(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.ErrorCodeAccountDisabled
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindUserInput:
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case apperrors.KindResolution:
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case apperrors.KindConfiguration:
		return http.StatusServiceUnavailable, dto.ErrorCodeConfiguration
	case apperrors.KindRetryable:
		return http.StatusConflict, dto.ErrorCodeRetryable
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}

// HandleAPIError writes err as a JSON error envelope. Storage faults are
// logged with their cause and answered with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status, code := apiStatus(err)

	fallback := msgInternal
	if status == http.StatusNotFound {
		fallback = msgNotFound
	}
	detail := dto.NewErrorDetail(code, apperrors.UserMessage(err, fallback))

	var ce *apperrors.CustomError
	if errors.As(err, &ce) && len(ce.Fields) > 0 {
		detail.WithField(ce.Fields[0])
		if len(ce.Fields) > 1 {
			detail.WithDetails(ce.Fields)
		}
	}

	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// Recovery turns a panic into a 500 envelope and logs it
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromContext(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, msgInternal)))
	})
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// --- Central Error Handling ---

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, errorDetail := translateError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error in request")
	}
	c.JSON(status, dto.NewErrorResponse(errorDetail))
}

// translateError maps an error onto an HTTP status and the error detail sent to the client
func translateError(err error) (int, *dto.ErrorDetail) {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails([]domain.FieldError(validationErrs))
	}

	var eligibilityErr *domain.EligibilityError
	if errors.As(err, &eligibilityErr) {
		switch eligibilityErr.Kind {
		case domain.KindAlreadyApplied:
			return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeAlreadyApplied, eligibilityErr.Message).
				WithDetails(eligibilityErr.Details())
		case domain.KindCompetitionNotFound:
			return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, eligibilityErr.Message).
				WithDetails(eligibilityErr.Details())
		default:
			return http.StatusUnprocessableEntity, dto.NewErrorDetail(dto.ErrorCodeNotEligible, eligibilityErr.Message).
				WithDetails(eligibilityErr.Details())
		}
	}

	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound,
		apperrors.ErrCompetitionNotFound, apperrors.ErrApplicationNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, message(err, "Bad request"))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrDuplicateTitle):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeDuplicateTitle, apperrors.ErrDuplicateTitle.Error())
	case errors.Is(err, apperrors.ErrAlreadyApplied):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeAlreadyApplied, apperrors.ErrAlreadyApplied.Error())
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// message returns the client-facing message of a CustomError, or fallback for bare sentinels
func message(err error, fallback string) string {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		return customErr.Message
	}
	return fallback
}

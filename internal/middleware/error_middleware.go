package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/logger"
)

// errorMapping binds a sentinel to its HTTP status and API error code
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Order matters: domain sentinels come before the generic ones they may wrap.
var errorMappings = []errorMapping{
	{apperrors.ErrDuplicateRegistration, http.StatusConflict, dto.ErrorCodeDuplicateRegistration, "Student already registered for this drive"},
	{apperrors.ErrDriveHasRegistrations, http.StatusConflict, dto.ErrorCodeDriveHasRegistrations, "Drive has registrations"},
	{apperrors.ErrDeadlineLocked, http.StatusConflict, dto.ErrorCodeDeadlineLocked, "Deadline cannot change once registrations exist"},
	{apperrors.ErrNotEligible, http.StatusUnprocessableEntity, dto.ErrorCodeNotEligible, "Student is not eligible for this drive"},
	{apperrors.ErrDriveClosed, http.StatusUnprocessableEntity, dto.ErrorCodeDriveClosed, "Drive is not accepting registrations"},
	{apperrors.ErrNoMatchingStudents, http.StatusNotFound, dto.ErrorCodeNoMatchingStudents, "No students match filters"},
	{apperrors.ErrSheetGeneration, http.StatusInternalServerError, dto.ErrorCodeSheetGeneration, "Could not generate sheet"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrInvalidFilter, http.StatusBadRequest, dto.ErrorCodeInvalidFilter, "Invalid filter"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrRemoteUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeRemoteUnavailable, "Storage temporarily unavailable"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, m.message)
		if details := apperrors.DetailsOf(err); details != nil && m.status != http.StatusServiceUnavailable {
			detail = detail.WithDetails(details)
		} else if m.status < http.StatusInternalServerError {
			detail = detail.WithDetails(err.Error())
		}
		if m.status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		}
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}

// HandleBindError renders request binding failures, including field-level validation errors
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

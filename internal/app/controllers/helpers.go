// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamage-recruiters/platform/internal/middleware"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
)

// idParam parses a positive integer path parameter. On failure it writes a 400 and returns false.
func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid "+name))
		return 0, false
	}
	return id, true
}

// optionalFile returns the uploaded file for field, or nil when the request carries none
func optionalFile(ctx *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := ctx.FormFile(field)
	if err == nil {
		return fh, nil
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return nil, apperrors.NewValidationError("Could not read the " + field + " upload")
}

// requiredFile is optionalFile for uploads the endpoint cannot do without
func requiredFile(ctx *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := optionalFile(ctx, field)
	if err != nil {
		return nil, err
	}
	if fh == nil {
		return nil, apperrors.NewValidationError(field + " file is required")
	}
	return fh, nil
}

// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

var errInvalidID = apperrors.NewResourceNotFoundError(apperrors.CodeNotFound, "Resource not found")

// parseIDParam reads a numeric path parameter. Anything that is not a
// positive integer cannot name a record, so it is answered like a missing one.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, errInvalidID)
		return 0, false
	}
	return id, true
}

// bindJSON decodes an optional JSON body. An empty body leaves req at its
// zero value so field validation reports the missing fields.
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}
	return true
}

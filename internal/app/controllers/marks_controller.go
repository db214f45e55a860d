package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/report"
)

const marksPath = "/marks"

// MarksController serves the marks lookup form
type MarksController struct {
	marksService *services.MarksService
	logger       zerolog.Logger
}

// NewMarksController creates a new MarksController
func NewMarksController(marksService *services.MarksService, logger zerolog.Logger) *MarksController {
	return &MarksController{
		marksService: marksService,
		logger:       logger,
	}
}

// Form shows the lookup form
func (c *MarksController) Form(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "marks_form.html", nil)
}

// Lookup answers a submitted form with the student or course page. The
// average is shown as computed.
func (c *MarksController) Lookup(ctx *gin.Context) {
	var query dto.MarksQuery
	if err := ctx.ShouldBind(&query); err != nil {
		c.renderError(ctx, http.StatusBadRequest, "Invalid form data")
		return
	}

	result, err := c.marksService.Lookup(ctx.Request.Context(), query.Kind, query.Value)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	opts := report.Options{AverageDecimals: report.Unrounded, BackURL: marksPath}
	var buf bytes.Buffer
	if result.Student != nil {
		err = report.Student(&buf, result.Header, *result.Student, opts)
	} else {
		err = report.Course(&buf, *result.Course, result.ImageURL, opts)
	}
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (c *MarksController) handleError(ctx *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed):
		_, message, _ := apperrors.CodeOf(err)
		c.logger.Debug().Err(err).Msg("Marks query rejected")
		c.renderError(ctx, http.StatusBadRequest, message)
	case apperrors.Is(err, apperrors.ErrNoData):
		c.logger.Info().Err(err).Msg("Marks query matched no rows")
		c.renderError(ctx, http.StatusNotFound, "No marks found for this ID")
	default:
		c.logger.Error().Err(err).Msg("Marks lookup failed")
		c.renderError(ctx, http.StatusInternalServerError, "")
	}
}

func (c *MarksController) renderError(ctx *gin.Context, status int, message string) {
	var buf bytes.Buffer
	if err := report.Error(&buf, message, report.Options{BackURL: marksPath}); err != nil {
		c.logger.Error().Err(err).Msg("Failed to render error page")
		ctx.String(http.StatusInternalServerError, "Something went wrong")
		return
	}
	ctx.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

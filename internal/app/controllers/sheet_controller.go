package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/export"
)

// SheetController serves consolidated sheets
type SheetController struct {
	sheetService services.SheetService
}

// NewSheetController creates a new SheetController
func NewSheetController(sheetService services.SheetService) *SheetController {
	return &SheetController{
		sheetService: sheetService,
	}
}

func sheetQuery(req dto.SheetRequest) services.SheetQuery {
	return services.SheetQuery{
		AcademicYear: req.AcademicYear,
		Branch:       req.Branch,
		MinCGPA:      req.MinCGPA,
		Type:         req.Type,
	}
}

func warningMessages(warnings []error) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Error()
	}
	return out
}

// GetSheet returns a consolidated sheet as JSON
// @Summary Consolidated sheet
// @Description Filters registrations of an academic year and projects them into fixed columns. Malformed minCGPA or type values are ignored and reported as warnings.
// @Tags sheets
// @Produce json
// @Security BearerAuth
// @Param academicYear query string true "Academic year, e.g. 2024-25"
// @Param branch query string false "Branch"
// @Param minCGPA query string false "Minimum CGPA"
// @Param type query string false "Sheet type" Enums(placement, internship, hackathon, pending, all)
// @Success 200 {object} dto.APIResponse{data=models.Sheet} "Sheet"
// @Failure 400 {object} dto.ErrorResponse "Invalid academic year"
// @Failure 404 {object} dto.ErrorResponse "No students match filters"
// @Router /sheets [get]
func (c *SheetController) GetSheet(ctx *gin.Context) {
	var req dto.SheetRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	sheet, warnings, err := c.sheetService.GenerateSheet(ctx, sheetQuery(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewSuccessResponse(sheet)
	resp.Warnings = warningMessages(warnings)
	ctx.JSON(http.StatusOK, resp)
}

// ExportSheet downloads a consolidated sheet
// @Summary Export consolidated sheet
// @Description Same filters as GET /sheets, rendered as CSV or XLSX
// @Tags sheets
// @Produce octet-stream
// @Security BearerAuth
// @Param academicYear query string true "Academic year, e.g. 2024-25"
// @Param branch query string false "Branch"
// @Param minCGPA query string false "Minimum CGPA"
// @Param type query string false "Sheet type" Enums(placement, internship, hackathon, pending, all)
// @Param format query string false "File format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "Sheet file"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 404 {object} dto.ErrorResponse "No students match filters"
// @Failure 500 {object} dto.ErrorResponse "Could not generate sheet"
// @Router /sheets/export [get]
func (c *SheetController) ExportSheet(ctx *gin.Context) {
	var req dto.SheetRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}

	file, warnings, err := c.sheetService.ExportSheet(ctx, sheetQuery(req), format)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	for _, w := range warningMessages(warnings) {
		ctx.Writer.Header().Add("X-Filter-Warning", w)
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	ctx.Header("X-Row-Count", strconv.Itoa(file.Rows))
	ctx.Data(http.StatusOK, file.ContentType, file.Content)
}

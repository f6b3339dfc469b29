package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
)

// AnalyticsController serves placement statistics
type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// GetStats returns the placement dashboard snapshot
// @Summary Placement statistics
// @Description Totals, placement rate and branch, year and drive breakdowns
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param branch query string false "Restrict to a branch"
// @Param academicYear query string false "Academic year, e.g. 2024-25"
// @Success 200 {object} dto.APIResponse{data=models.AnalyticsSnapshot} "Statistics"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /analytics/stats [get]
func (c *AnalyticsController) GetStats(ctx *gin.Context) {
	var q dto.AnalyticsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	var filter models.AnalyticsFilter
	if b := models.Branch(q.Branch).Normalize(); b != "" {
		filter.Branch = &b
	}
	if q.AcademicYear != "" {
		ay, err := models.ParseAcademicYear(q.AcademicYear)
		if err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}
		filter.AcademicYear = &ay
	}

	snapshot, err := c.analyticsService.GetStats(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(snapshot))
}

// GetPlacementTrend returns the monthly registration and offer series
// @Summary Placement trend
// @Description Monthly registrations and offers from the start of the academic year
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param academicYear query string false "Academic year, defaults to the current one"
// @Success 200 {object} dto.APIResponse{data=[]models.TrendPoint} "Trend"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /analytics/trend [get]
func (c *AnalyticsController) GetPlacementTrend(ctx *gin.Context) {
	var q dto.TrendQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	var year *models.AcademicYear
	if q.AcademicYear != "" {
		ay, err := models.ParseAcademicYear(q.AcademicYear)
		if err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}
		year = &ay
	}

	points, err := c.analyticsService.GetPlacementTrend(ctx, year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(points))
}

// GetOfferStatement returns the single and multiple offer counts
// @Summary Offer statement
// @Description Students with exactly one offer, with two or more, and the total number of offers
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.OfferSummary} "Offer statement"
// @Router /analytics/offers [get]
func (c *AnalyticsController) GetOfferStatement(ctx *gin.Context) {
	summary, err := c.analyticsService.GetOfferStatement(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}

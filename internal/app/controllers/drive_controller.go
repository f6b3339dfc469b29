package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
)

// DriveController handles placement drive operations
type DriveController struct {
	driveService services.DriveService
}

// NewDriveController creates a new DriveController
func NewDriveController(driveService services.DriveService) *DriveController {
	return &DriveController{
		driveService: driveService,
	}
}

func driveResponse(v *services.DriveView) dto.DriveResponse {
	return dto.NewDriveResponse(v.Drive, v.Status)
}

// CreateDrive handles drive creation
// @Summary Create a placement drive
// @Description Creates a drive with its eligibility criteria and deadline
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDriveRequest true "Drive information"
// @Success 201 {object} dto.APIResponse{data=dto.DriveResponse} "Drive created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Router /drives [post]
func (c *DriveController) CreateDrive(ctx *gin.Context) {
	var req dto.CreateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	view, err := c.driveService.CreateDrive(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(driveResponse(view)))
}

// GetDrive retrieves a drive by ID
// @Summary Get drive by ID
// @Description Retrieves a drive with its current status
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=dto.DriveResponse} "Drive retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /drives/{id} [get]
func (c *DriveController) GetDrive(ctx *gin.Context) {
	view, err := c.driveService.GetDrive(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(driveResponse(view)))
}

// ListDrives retrieves all drives
// @Summary List drives
// @Description Retrieves all drives in creation order with their current status
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.DriveResponse} "Drives retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /drives [get]
func (c *DriveController) ListDrives(ctx *gin.Context) {
	views, err := c.driveService.ListDrives(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.DriveResponse, 0, len(views))
	for i := range views {
		out = append(out, driveResponse(&views[i]))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// ListEligibleDrives evaluates open drives against a student profile
// @Summary List drives with eligibility
// @Description Evaluates every open drive against the given branch, year and CGPA
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param branch query string true "Branch"
// @Param year query int true "Year of study (1-5)"
// @Param cgpa query string false "CGPA; malformed values count as 0"
// @Param onlyEligible query bool false "Hide drives the student cannot apply to"
// @Success 200 {object} dto.APIResponse{data=[]dto.EligibleDriveResponse} "Drives evaluated"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /drives/eligible [get]
func (c *DriveController) ListEligibleDrives(ctx *gin.Context) {
	var q dto.EligibleDrivesQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	caller, _ := middleware.CallerFrom(ctx)
	profile := models.StudentProfile{
		StudentID: caller.ID,
		Branch:    models.Branch(q.Branch).Normalize(),
		Year:      models.Year(q.Year),
		CGPA:      services.ParseCGPA(q.CGPA),
	}

	drives, err := c.driveService.ListEligibleDrives(ctx, profile, q.OnlyEligible)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.EligibleDriveResponse, 0, len(drives))
	for i := range drives {
		out = append(out, dto.EligibleDriveResponse{
			DriveResponse: driveResponse(&drives[i].DriveView),
			Eligibility:   drives[i].Eligibility,
		})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// UpdateDrive updates a drive
// @Summary Update a drive
// @Description Replaces a drive's details. The deadline cannot move once students have registered unless forceDeadlineChange is set.
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Param request body dto.UpdateDriveRequest true "Drive information"
// @Success 200 {object} dto.APIResponse{data=dto.DriveResponse} "Drive updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 409 {object} dto.ErrorResponse "Deadline locked"
// @Router /drives/{id} [put]
func (c *DriveController) UpdateDrive(ctx *gin.Context) {
	var req dto.UpdateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	view, err := c.driveService.UpdateDrive(ctx, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(driveResponse(view)))
}

// CloseDrive closes a drive ahead of its deadline
// @Summary Close a drive
// @Description Stops a drive from accepting registrations
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=dto.DriveResponse} "Drive closed"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /drives/{id}/close [post]
func (c *DriveController) CloseDrive(ctx *gin.Context) {
	view, err := c.driveService.CloseDrive(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(driveResponse(view)))
}

// DeleteDrive deletes a drive
// @Summary Delete a drive
// @Description Deletes a drive that has no registrations
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Drive deleted"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 409 {object} dto.ErrorResponse "Drive has registrations"
// @Router /drives/{id} [delete]
func (c *DriveController) DeleteDrive(ctx *gin.Context) {
	if err := c.driveService.DeleteDrive(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "Drive deleted successfully"},
		Timestamp: time.Now(),
	})
}

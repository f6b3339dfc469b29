package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/auth"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
	"github.com/yigit/placement/internal/pkg/helpers"
)

// RegistrationController handles drive applications and offers
type RegistrationController struct {
	registrationService services.RegistrationService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService services.RegistrationService) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
	}
}

func registrationResponse(v *services.RegistrationView) dto.RegistrationResponse {
	return dto.NewRegistrationResponse(v.Registration, v.EffectiveStatus)
}

// Apply registers the calling student for a drive
// @Summary Apply to a drive
// @Description Submits the student's profile snapshot. The drive must be active and the student eligible.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Param request body dto.ApplyRequest true "Student profile"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse} "Registration submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Failure 422 {object} dto.ErrorResponse "Drive closed or student not eligible"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /drives/{id}/registrations [post]
func (c *RegistrationController) Apply(ctx *gin.Context) {
	var req dto.ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	caller, _ := middleware.CallerFrom(ctx)
	view, err := c.registrationService.Submit(ctx, ctx.Param("id"), req.ToProfile(caller.ID))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(registrationResponse(view)))
}

// GetRegistration retrieves a registration by ID
// @Summary Get registration by ID
// @Description Students can only read their own registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse} "Registration retrieved"
// @Failure 403 {object} dto.ErrorResponse "Registration belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id} [get]
func (c *RegistrationController) GetRegistration(ctx *gin.Context) {
	view, err := c.registrationService.GetRegistration(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	caller, _ := middleware.CallerFrom(ctx)
	if err := auth.AuthorizeRegistrationAccess(caller, view.Registration); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(registrationResponse(view)))
}

// ListRegistrations lists registrations
// @Summary List registrations
// @Description Lists registrations in submission order, optionally filtered by drive and student
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param driveId query string false "Drive ID"
// @Param studentId query string false "Student ID"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationListResponse} "Registrations retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /registrations [get]
func (c *RegistrationController) ListRegistrations(ctx *gin.Context) {
	var q dto.RegistrationListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	c.list(ctx, q)
}

// ListMyRegistrations lists the calling student's registrations
// @Summary List my registrations
// @Description Lists the caller's registrations with their effective status
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationListResponse} "Registrations retrieved"
// @Router /me/registrations [get]
func (c *RegistrationController) ListMyRegistrations(ctx *gin.Context) {
	caller, _ := middleware.CallerFrom(ctx)
	c.list(ctx, dto.RegistrationListQuery{StudentID: caller.ID})
}

func (c *RegistrationController) list(ctx *gin.Context, q dto.RegistrationListQuery) {
	caller, _ := middleware.CallerFrom(ctx)
	studentID, err := auth.AuthorizeStudentScope(caller, q.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	views, err := c.registrationService.ListRegistrations(ctx, repositories.RegistrationFilter{
		DriveID:   q.DriveID,
		StudentID: studentID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	pageViews := helpers.Paginate(views, page, size)
	out := make([]dto.RegistrationResponse, 0, len(pageViews))
	for i := range pageViews {
		out = append(out, registrationResponse(&pageViews[i]))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RegistrationListResponse{
		Registrations:  out,
		PaginationInfo: helpers.NewPaginationInfo(len(views), page, size),
	}))
}

// AttachOffer records an offer against a registration
// @Summary Attach an offer
// @Description Marks the registration as carrying an offer. Send JSON document URLs, or multipart/form-data with files in offerLetterFile, emailConfirmationFile, loiFile and internshipOfferFile.
// @Tags registrations
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param request body dto.AttachOfferRequest false "Offer documents"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse} "Offer attached"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id}/offer [post]
func (c *RegistrationController) AttachOffer(ctx *gin.Context) {
	var req dto.AttachOfferRequest
	id := ctx.Param("id")

	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		if err := ctx.ShouldBind(&req); err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}
		uploads, err := offerUploads(ctx)
		if err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}
		view, err := c.registrationService.UploadOfferDocuments(ctx, id, uploads, req.Documents(), req.MultipleOffers)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(registrationResponse(view)))
		return
	}

	// An empty body still marks the offer
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}
	}

	view, err := c.registrationService.AttachOffer(ctx, id, req.Documents(), req.MultipleOffers)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(registrationResponse(view)))
}

func offerUploads(ctx *gin.Context) (services.OfferUploads, error) {
	var uploads services.OfferUploads
	fields := []struct {
		name string
		dst  **multipart.FileHeader
	}{
		{"offerLetterFile", &uploads.OfferLetter},
		{"emailConfirmationFile", &uploads.EmailConfirmation},
		{"loiFile", &uploads.LOI},
		{"internshipOfferFile", &uploads.InternshipOffer},
	}
	for _, f := range fields {
		fh, err := ctx.FormFile(f.name)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return uploads, err
		}
		*f.dst = fh
	}
	return uploads, nil
}

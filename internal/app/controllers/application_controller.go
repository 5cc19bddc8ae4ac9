package controllers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/services"
	"github.com/formco/backend/internal/middleware"
	"github.com/formco/backend/internal/pkg/qrcode"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Multipart field names of an application submission
const (
	applicationFormField = "application"
	receiptFormField     = "receipt"
)

// ApplicationController handles application submission and review
type ApplicationController struct {
	applicationService *services.ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService *services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		logger:             logger,
	}
}

// SubmitApplication handles applying to a competition
// @Summary Apply to a competition
// @Description Submits an application as the calling student. Paid competitions take the payment receipt as a multipart upload with the application JSON in the "application" field.
// @Tags applications
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Competition ID"
// @Param request body dto.SubmitApplicationRequest false "Application (JSON requests)"
// @Param application formData string false "Application JSON (multipart requests)"
// @Param receipt formData file false "Payment receipt image or PDF"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Malformed application or receipt"
// @Failure 403 {object} dto.ErrorResponse "Only students can apply"
// @Failure 404 {object} dto.ErrorResponse "Competition not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied; details carry existingApplicationId"
// @Failure 422 {object} dto.ErrorResponse "Not eligible; details carry the failed check"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /competitions/{id}/applications [post]
func (c *ApplicationController) SubmitApplication(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var (
		req     dto.SubmitApplicationRequest
		receipt *multipart.FileHeader
	)

	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		raw := ctx.PostForm(applicationFormField)
		if raw == "" {
			badRequest(ctx, "Invalid request format", "multipart submissions need an application field")
			return
		}
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			badRequest(ctx, "Invalid request format", "application field must be valid JSON")
			return
		}

		file, err := ctx.FormFile(receiptFormField)
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			badRequest(ctx, "Invalid receipt upload", err.Error())
			return
		}
		receipt = file
	} else if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.applicationService.Submit(ctx.Request.Context(), actor, ctx.Param("id"), &req, receipt)
	if err != nil {
		c.logger.Debug().Err(err).Str("competitionID", ctx.Param("id")).Str("actorID", actor.ActorID()).Msg("Application refused")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetApplicationByID returns one application
// @Summary Get an application
// @Description Visible to the applicant and to the managers of the competition
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application"
// @Failure 403 {object} dto.ErrorResponse "Caller cannot view the application"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (c *ApplicationController) GetApplicationByID(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	resp, err := c.applicationService.Get(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetMyApplications lists the calling student's applications
// @Summary List my applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse} "Applications"
// @Failure 403 {object} dto.ErrorResponse "Only students have applications"
// @Router /applications/mine [get]
func (c *ApplicationController) GetMyApplications(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	resp, err := c.applicationService.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateApplication changes one lifecycle axis of an application
// @Summary Update an application
// @Description Sets exactly one of paymentVerified, attended or accepted
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateApplicationRequest true "Axis update"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application updated"
// @Failure 400 {object} dto.ErrorResponse "Zero or several axes in the request"
// @Failure 403 {object} dto.ErrorResponse "Caller does not manage the competition"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [patch]
func (c *ApplicationController) UpdateApplication(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.applicationService.UpdateAxis(ctx.Request.Context(), actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetApplicationQRCode renders the verification code of an application as a PNG
// @Summary Get application QR code
// @Tags applications
// @Produce png
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param size query int false "Image size in pixels (default: 256, max: 1024)"
// @Success 200 {file} file "QR code image"
// @Failure 400 {object} dto.ErrorResponse "Invalid size"
// @Failure 403 {object} dto.ErrorResponse "Caller cannot view the application"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id}/qrcode [get]
func (c *ApplicationController) GetApplicationQRCode(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	size, err := strconv.Atoi(ctx.DefaultQuery("size", strconv.Itoa(qrcode.DefaultSize)))
	if err != nil {
		badRequest(ctx, "Invalid size", "size must be a number")
		return
	}

	png, err := c.applicationService.QRCode(ctx.Request.Context(), actor, ctx.Param("id"), size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}

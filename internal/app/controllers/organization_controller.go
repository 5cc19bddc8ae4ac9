package controllers

import (
	"net/http"

	appauth "github.com/formco/backend/internal/app/auth"
	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/services"
	"github.com/formco/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// OrganizationController handles organization membership operations
type OrganizationController struct {
	orgService *services.OrganizationService
}

// NewOrganizationController creates a new OrganizationController
func NewOrganizationController(orgService *services.OrganizationService) *OrganizationController {
	return &OrganizationController{orgService: orgService}
}

// AddOrganizer attaches an organizer account to the calling organization
// @Summary Add an organizer
// @Description Attaches the ORGANIZER account with the given email to the calling organization. Adding an existing member is a no-op.
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddOrganizerRequest true "Organizer email"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Organizer attached"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an organization"
// @Failure 404 {object} dto.ErrorResponse "No organizer with that email"
// @Router /organizations/members [post]
func (c *OrganizationController) AddOrganizer(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	org, err := appauth.RequireOrganization(actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AddOrganizerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	organizer, err := c.orgService.AddOrganizer(ctx.Request.Context(), org, req.OrganizerEmail)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(organizer))
}

// RemoveOrganizer detaches an organizer from the calling organization
// @Summary Remove an organizer
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param organizerId path string true "Organizer account ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Organizer removed"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an organization"
// @Failure 404 {object} dto.ErrorResponse "Organizer is not a member"
// @Router /organizations/members/{organizerId} [delete]
func (c *OrganizationController) RemoveOrganizer(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	org, err := appauth.RequireOrganization(actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.orgService.RemoveOrganizer(ctx.Request.Context(), org, ctx.Param("organizerId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Organizer removed"}))
}

// ListMembers lists the organizers of the calling organization
// @Summary List organizers
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OrganizerListResponse} "Organizers"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an organization"
// @Router /organizations/members [get]
func (c *OrganizationController) ListMembers(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	org, err := appauth.RequireOrganization(actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.orgService.ListMembers(ctx.Request.Context(), org)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListMine lists the organizations the calling organizer belongs to
// @Summary List my organizations
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OrganizationListResponse} "Organizations"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an organizer"
// @Router /organizations/mine [get]
func (c *OrganizationController) ListMine(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	organizer, err := appauth.RequireOrganizer(actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.orgService.ListOrganizations(ctx.Request.Context(), organizer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

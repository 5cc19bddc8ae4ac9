package controllers

import (
	"net/http"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/services"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/middleware"
	"github.com/formco/backend/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CompetitionController handles competition related operations
type CompetitionController struct {
	competitionService *services.CompetitionService
	logger             zerolog.Logger
}

// NewCompetitionController creates a new CompetitionController
func NewCompetitionController(competitionService *services.CompetitionService, logger zerolog.Logger) *CompetitionController {
	return &CompetitionController{
		competitionService: competitionService,
		logger:             logger,
	}
}

// CreateCompetition handles creating a competition
// @Summary Create a competition
// @Description Validates the competition form, reporting every violated rule at once, and creates the competition for the organization
// @Tags competitions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCompetitionRequest true "Competition form"
// @Success 201 {object} dto.APIResponse{data=dto.CompetitionResponse} "Competition created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Caller cannot create competitions for the organization"
// @Failure 409 {object} dto.ErrorResponse "Organization already has a competition with this title"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /competitions [post]
func (c *CompetitionController) CreateCompetition(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateCompetitionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.competitionService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("actorID", actor.ActorID()).Msg("Competition creation refused")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetAllCompetitions handles listing competitions
// @Summary List competitions
// @Description Lists competitions with their status derived at request time
// @Tags competitions
// @Produce json
// @Param organizationId query string false "Filter by organization ID"
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status (Open, Closed, Happening, Happened)"
// @Param search query string false "Case-insensitive substring of the title"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10)"
// @Success 200 {object} dto.APIResponse{data=dto.CompetitionListResponse} "Competitions"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /competitions [get]
func (c *CompetitionController) GetAllCompetitions(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := dto.CompetitionFilterRequest{
		OrganizationID: ctx.Query("organizationId"),
		Category:       ctx.Query("category"),
		Search:         ctx.Query("search"),
		Page:           page,
		PageSize:       size,
	}

	if raw := ctx.Query("status"); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			badRequest(ctx, "Invalid status", "status must be one of Open, Closed, Happening, Happened")
			return
		}
		filter.Status = status
	}

	resp, err := c.competitionService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetCompetitionByID handles retrieving a competition
// @Summary Get a competition
// @Tags competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompetitionResponse} "Competition"
// @Failure 404 {object} dto.ErrorResponse "Competition not found"
// @Router /competitions/{id} [get]
func (c *CompetitionController) GetCompetitionByID(ctx *gin.Context) {
	resp, err := c.competitionService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetCompetitionStatus reports the status a competition has right now
// @Summary Get competition status
// @Tags competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompetitionStatusResponse} "Status"
// @Failure 404 {object} dto.ErrorResponse "Competition not found"
// @Router /competitions/{id}/status [get]
func (c *CompetitionController) GetCompetitionStatus(ctx *gin.Context) {
	resp, err := c.competitionService.GetStatus(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteCompetition handles deleting a competition together with its applications
// @Summary Delete a competition
// @Tags competitions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Competition ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Competition deleted"
// @Failure 403 {object} dto.ErrorResponse "Caller does not manage the competition"
// @Failure 404 {object} dto.ErrorResponse "Competition not found"
// @Router /competitions/{id} [delete]
func (c *CompetitionController) DeleteCompetition(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.competitionService.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Competition deleted"}))
}

// GetCompetitionApplications lists a competition's applications to its managers
// @Summary List competition applications
// @Tags competitions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Competition ID"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10)"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationListResponse} "Applications"
// @Failure 403 {object} dto.ErrorResponse "Caller does not manage the competition"
// @Failure 404 {object} dto.ErrorResponse "Competition not found"
// @Router /competitions/{id}/applications [get]
func (c *CompetitionController) GetCompetitionApplications(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.competitionService.ListApplications(ctx.Request.Context(), actor, ctx.Param("id"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

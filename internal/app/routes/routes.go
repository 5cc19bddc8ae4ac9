package routes

import (
	"context"
	"net/http"

	"github.com/formco/backend/internal/app/controllers"
	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the route table needs
type Handlers struct {
	Auth         *controllers.AuthController
	Organization *controllers.OrganizationController
	Competition  *controllers.CompetitionController
	Application  *controllers.ApplicationController

	AuthMiddleware *middleware.AuthMiddleware
	// SubmitLimiter throttles application submissions per client; nil disables it
	SubmitLimiter *middleware.RateLimiter
	// Ping reports database reachability for /health; nil reports ok
	Ping func(ctx context.Context) error
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", h.AuthMiddleware.JWTAuth(), h.Auth.Me)
	}

	// --- Public competition reads ---
	competitions := v1.Group("/competitions")
	{
		competitions.GET("", h.Competition.GetAllCompetitions)
		competitions.GET("/:id", h.Competition.GetCompetitionByID)
		competitions.GET("/:id/status", h.Competition.GetCompetitionStatus)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(h.AuthMiddleware.JWTAuth(), h.AuthMiddleware.ActorRequired())
	{
		organizations := authenticated.Group("/organizations")
		{
			members := organizations.Group("/members")
			members.Use(h.AuthMiddleware.RoleRequired(domain.RoleOrganization))
			{
				members.GET("", h.Organization.ListMembers)
				members.POST("", h.Organization.AddOrganizer)
				members.DELETE("/:organizerId", h.Organization.RemoveOrganizer)
			}
			organizations.GET("/mine", h.AuthMiddleware.RoleRequired(domain.RoleOrganizer), h.Organization.ListMine)
		}

		manage := authenticated.Group("/competitions")
		{
			manage.POST("", h.AuthMiddleware.RoleRequired(domain.RoleOrganization, domain.RoleOrganizer), h.Competition.CreateCompetition)
			manage.DELETE("/:id", h.Competition.DeleteCompetition)
			manage.GET("/:id/applications", h.Competition.GetCompetitionApplications)

			submit := []gin.HandlerFunc{h.AuthMiddleware.RoleRequired(domain.RoleStudent)}
			if h.SubmitLimiter != nil {
				submit = append(submit, middleware.RateLimiterMiddleware(h.SubmitLimiter))
			}
			submit = append(submit, h.Application.SubmitApplication)
			manage.POST("/:id/applications", submit...)
		}

		applications := authenticated.Group("/applications")
		{
			applications.GET("/mine", h.Application.GetMyApplications)
			applications.GET("/:id", h.Application.GetApplicationByID)
			applications.PATCH("/:id", h.Application.UpdateApplication)
			applications.GET("/:id/qrcode", h.Application.GetApplicationQRCode)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		if h.Ping != nil {
			if err := h.Ping(c.Request.Context()); err != nil {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unavailable")
				c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
				return
			}
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}

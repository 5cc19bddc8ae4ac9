package controllers

import (
	"net/http"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// requireActor returns the actor loaded by the auth middleware or writes a 401
func requireActor(ctx *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		errorDetail = errorDetail.WithDetails("User information not found")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return actor, true
}

func badRequest(ctx *gin.Context, message string, details interface{}) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, message)
	if details != nil {
		errorDetail = errorDetail.WithDetails(details)
	}
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

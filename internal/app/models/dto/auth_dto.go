package dto

import (
	"github.com/formco/backend/internal/app/models"
	"github.com/formco/backend/internal/domain"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Email    string          `json:"email" binding:"required,email" example:"jane@college.edu"`
	Password string          `json:"password" binding:"required,min=8" example:"s3cretpass"`
	Name     string          `json:"name" binding:"required" example:"Jane Doe"`
	RoleType domain.RoleType `json:"roleType" binding:"required,oneof=STUDENT ORGANIZER ORGANIZATION" example:"STUDENT"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role" example:"STUDENT"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse converts a user model to its public representation
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.RoleType),
	}
}

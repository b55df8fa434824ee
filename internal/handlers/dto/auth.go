package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/relyexchange/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"omitempty,min=8,max=72"`
	LoginBy  string `json:"login_by" binding:"omitempty,oneof=password google apple"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LoginBy   string    `json:"login_by"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		LoginBy:   u.LoginBy,
		CreatedAt: u.CreatedAt,
	}
}

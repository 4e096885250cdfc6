package dto

import (
	"time"

	"shop-service/internal/models"
)

type SignupRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=25"`
	Password1 string `json:"password1" binding:"required"`
	Password2 string `json:"password2" binding:"required,eqfield=Password1"`
	Email     string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AccountResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func NewAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Username:  a.Username,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

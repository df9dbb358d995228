package dto

import (
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/google/uuid"
)

type RegisterInput struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,min=7,max=20"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterResponse struct {
	Message   string    `json:"message"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresIn int64     `json:"expires_in"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

type VerifyOTPInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type ResendOTPInput struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPResponse struct {
	Message   string `json:"message"`
	ExpiresIn int64  `json:"expires_in"`
}

type TokenInfoResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

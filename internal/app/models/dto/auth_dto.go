package dto

import "github.com/gamage-recruiters/platform/internal/app/models"

// RegisterRequest represents the user registration request body
type RegisterRequest struct {
	FirstName    string `json:"firstName" binding:"required,notblank,max=100" example:"Jane"`
	LastName     string `json:"lastName" binding:"required,notblank,max=100" example:"Public"`
	Email        string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password     string `json:"password" binding:"required,min=6" example:"Secret123"`
	Gender       string `json:"gender" binding:"required,notblank" example:"Female"`
	BirthDate    string `json:"birthDate" binding:"required,datetime=2006-01-02" example:"1995-04-12"`
	Address      string `json:"address" binding:"required,notblank" example:"12 Main Street, Colombo"`
	Address2     string `json:"address2" example:"Apartment 3"`
	PhoneNumber1 string `json:"phoneNumber1" binding:"required,phone" example:"+94771234567"`
	PhoneNumber2 string `json:"phoneNumber2" binding:"omitempty,phone" example:"+94112345678"`
}

// LoginRequest represents the login request body for users and admins
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"Secret123"`
}

// LoginResponse is returned after a successful login. The token is also set as an httpOnly cookie.
type LoginResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt int64  `json:"expiresAt" example:"1700003600"`
	UserID    int64  `json:"userId,omitempty" example:"1"`
	AdminID   int64  `json:"adminId,omitempty" example:"1"`
	Role      string `json:"role" example:"user"`
}

// SessionCheckResponse describes the principal behind a valid session
type SessionCheckResponse struct {
	SubjectID int64  `json:"id" example:"1"`
	Email     string `json:"email" example:"jane@example.com"`
	Role      string `json:"role" example:"user"`
	ExpiresAt int64  `json:"expiresAt" example:"1700003600"`
}

// UserResponse is the public view of a user account
type UserResponse struct {
	models.User
	HasPassword bool `json:"hasPassword"`
}

// NewUserResponse builds the public view of a user
func NewUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{User: *user, HasPassword: user.HasPassword()}
}

package dto

// UpdateProfileRequest is the multipart form of PUT /user/update-user-data/:userId.
// The cv and photo files are optional parts of the same form.
type UpdateProfileRequest struct {
	FirstName          string `form:"firstName" binding:"required,notblank,max=100"`
	LastName           string `form:"lastName" binding:"required,notblank,max=100"`
	Email              string `form:"email" binding:"omitempty,email"`
	Gender             string `form:"gender"`
	BirthDate          string `form:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	Address            string `form:"address"`
	Address2           string `form:"address2"`
	PhoneNumber1       string `form:"phoneNumber1" binding:"omitempty,phone"`
	PhoneNumber2       string `form:"phoneNumber2" binding:"omitempty,phone"`
	LinkedInLink       string `form:"linkedInLink" binding:"omitempty,url"`
	FacebookLink       string `form:"facebookLink" binding:"omitempty,url"`
	PortfolioLink      string `form:"portfolioLink" binding:"omitempty,url"`
	ProfileDescription string `form:"profileDescription" binding:"max=2000"`
}

// UserFileRequest identifies the account whose photo or CV is replaced
type UserFileRequest struct {
	UserID int64 `form:"userId" binding:"required,gt=0" example:"1"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	UserID      int64  `json:"userId" binding:"required,gt=0" example:"1"`
	OldPassword string `json:"oldPassword" binding:"required" example:"Secret123"`
	NewPassword string `json:"newPassword" binding:"required,min=6,nefield=OldPassword" example:"Secret456"`
}

// EmailRequest carries a single email address
type EmailRequest struct {
	Email string `json:"email" binding:"required,email" example:"jane@example.com"`
}

// VerifyOTPRequest represents the OTP verification request body
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email" example:"jane@example.com"`
	OTP   string `json:"otp" binding:"required,numeric" example:"123456"`
}

// OTPSentResponse tells the client how long the emailed code stays valid
type OTPSentResponse struct {
	Email           string `json:"email" example:"jane@example.com"`
	ValidForSeconds int64  `json:"validForSeconds" example:"300"`
}

// RecentActivityResponse is the latest action recorded for a user
type RecentActivityResponse struct {
	Activity    string `json:"activity" example:"Updated User Image"`
	CompletedAt string `json:"completedAt" example:"2025-04-23T12:01:05Z"`
	TimeStatus  string `json:"timeStatus" example:"5 minutes ago"`
}

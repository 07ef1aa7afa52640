package dto

// AdminRegisterRequest is the multipart form of POST /admin/register.
// An adminPhoto file may be attached.
type AdminRegisterRequest struct {
	Name                 string `form:"name" binding:"required,notblank,max=100" example:"Site Admin"`
	Email                string `form:"email" binding:"required,email" example:"admin@example.com"`
	Password             string `form:"password" binding:"required,min=6" example:"Secret123"`
	Gender               string `form:"gender" binding:"required,notblank" example:"Male"`
	Role                 string `form:"role" binding:"required,oneof=SUPER_ADMIN ADMIN EDITOR" example:"ADMIN"`
	Status               string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE" example:"ACTIVE"`
	PrimaryPhoneNumber   string `form:"primaryPhoneNumber" binding:"required,phone" example:"+94771234567"`
	SecondaryPhoneNumber string `form:"secondaryPhoneNumber" binding:"omitempty,phone"`
}

// AdminUpdateRequest is the multipart form of PUT /admin/update/:adminId
type AdminUpdateRequest struct {
	Name                 string `form:"name" binding:"required,notblank,max=100"`
	Email                string `form:"email" binding:"required,email"`
	Gender               string `form:"gender" binding:"required,notblank"`
	Role                 string `form:"role" binding:"required,oneof=SUPER_ADMIN ADMIN EDITOR"`
	Status               string `form:"status" binding:"required,oneof=ACTIVE INACTIVE"`
	PrimaryPhoneNumber   string `form:"primaryPhoneNumber" binding:"required,phone"`
	SecondaryPhoneNumber string `form:"secondaryPhoneNumber" binding:"omitempty,phone"`
}

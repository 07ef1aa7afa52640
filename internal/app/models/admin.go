package models

import "time"

// Admin defines the admin model based on the 'admins' table
type Admin struct {
	ID                   int64       `json:"adminId" db:"id" example:"1"`
	Name                 string      `json:"name" db:"name" example:"Site Admin"`
	Email                string      `json:"email" db:"email" example:"admin@example.com"`
	Password             string      `json:"-" db:"password"`
	Gender               string      `json:"gender" db:"gender"`
	Role                 AdminRole   `json:"role" db:"role" example:"ADMIN"`
	Status               AdminStatus `json:"status" db:"status" example:"ACTIVE"`
	PrimaryPhoneNumber   string      `json:"primaryPhoneNumber" db:"primary_phone_number"`
	SecondaryPhoneNumber string      `json:"secondaryPhoneNumber" db:"secondary_phone_number"`
	Image                string      `json:"image" db:"image"`
	CreatedAt            time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time   `json:"updatedAt" db:"updated_at"`
}

package models

import "time"

// Workshop defines a scheduled workshop listing
type Workshop struct {
	ID            int64     `json:"workshopId" db:"id" example:"1"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Venue         string    `json:"venue" db:"venue"`
	Date          time.Time `json:"date" db:"date"`
	WorkshopImage string    `json:"workshopImage" db:"workshop_image"`
	AddedAt       time.Time `json:"addedAt" db:"added_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

package models

import (
	"time"
)

// User defines the user model based on the 'users' table.
// Accounts created through a federated login have no password and only name and email set.
type User struct {
	ID                     int64      `json:"userId" db:"id" example:"1"`
	FirstName              string     `json:"firstName" db:"first_name" example:"Jane"`
	LastName               string     `json:"lastName" db:"last_name" example:"Public"`
	Email                  string     `json:"email" db:"email" example:"jane@example.com"`
	Password               string     `json:"-" db:"password"`
	Gender                 string     `json:"gender" db:"gender" example:"Female"`
	BirthDate              *time.Time `json:"birthDate,omitempty" db:"birth_date" example:"1995-04-12T00:00:00Z"`
	Address                string     `json:"address" db:"address"`
	Address2               string     `json:"address2" db:"address2"`
	PhoneNumber1           string     `json:"phoneNumber1" db:"phone_number1" example:"+94771234567"`
	PhoneNumber2           string     `json:"phoneNumber2" db:"phone_number2"`
	LinkedInLink           string     `json:"linkedInLink" db:"linkedin_link"`
	FacebookLink           string     `json:"facebookLink" db:"facebook_link"`
	PortfolioLink          string     `json:"portfolioLink" db:"portfolio_link"`
	ProfileDescription     string     `json:"profileDescription" db:"profile_description"`
	CV                     string     `json:"cv" db:"cv" example:"cv-1700000000000.pdf"`
	Photo                  string     `json:"photo" db:"photo" example:"photo-1700000000000.png"`
	SubscribedToNewsletter bool       `json:"subscribedToNewsletter" db:"subscribed_to_newsletter"`
	RecentActivity         string     `json:"recentActivity" db:"recent_activity"`
	LastActiveAt           *time.Time `json:"lastActiveAt,omitempty" db:"last_active_at"`
	CreatedAt              time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt              time.Time  `json:"updatedAt" db:"updated_at"`
}

// HasPassword reports whether the account can sign in with a password
func (u *User) HasPassword() bool {
	return u.Password != ""
}

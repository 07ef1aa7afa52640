package models

import "time"

// Session is one login; the row exists until logout
type Session struct {
	ID        int64       `json:"id" db:"id"`
	SubjectID int64       `json:"subjectId" db:"subject_id"`
	Token     string      `json:"-" db:"token"`
	Role      SessionRole `json:"role" db:"role"`
	Status    string      `json:"status" db:"status"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

// FederatedLogin is an append-only audit row written on every OAuth callback
type FederatedLogin struct {
	ID        int64     `json:"id" db:"id"`
	AccountID string    `json:"accountId" db:"account_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Photo     string    `json:"photo" db:"photo"`
	Platform  string    `json:"platform" db:"platform"`
	LoggedAt  time.Time `json:"loggedAt" db:"logged_at"`
}

package models

import "time"

// ActivityLog records one user action shown in the recent-activity feed
type ActivityLog struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Activity    string    `json:"activity" db:"activity"`
	CompletedAt time.Time `json:"completedAt" db:"completed_at"`
}

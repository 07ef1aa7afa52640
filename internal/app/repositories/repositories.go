package repositories

import (
	"github.com/gamage-recruiters/platform/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	AdminRepository          *AdminRepository
	SessionRepository        *SessionRepository
	FederatedLoginRepository *FederatedLoginRepository
	JobRepository            *JobRepository
	ApplicationRepository    *ApplicationRepository
	ActivityLogRepository    *ActivityLogRepository
	BlogRepository           *BlogRepository
	WorkshopRepository       *WorkshopRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(database),
		AdminRepository:          NewAdminRepository(database),
		SessionRepository:        NewSessionRepository(database),
		FederatedLoginRepository: NewFederatedLoginRepository(database),
		JobRepository:            NewJobRepository(database),
		ApplicationRepository:    NewApplicationRepository(database),
		ActivityLogRepository:    NewActivityLogRepository(database),
		BlogRepository:           NewBlogRepository(database),
		WorkshopRepository:       NewWorkshopRepository(database),
	}
}

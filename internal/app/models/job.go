package models

import "time"

// Job defines a posted vacancy. The structured text fields hold either plain text or a JSON array.
type Job struct {
	ID               int64     `json:"jobId" db:"id" example:"1"`
	Title            string    `json:"title" db:"title" example:"Software Engineer"`
	Company          string    `json:"company" db:"company" example:"Acme"`
	Location         string    `json:"location" db:"location" example:"Colombo"`
	JobType          string    `json:"jobType" db:"job_type" example:"Full-time"`
	AboutRole        string    `json:"aboutRole" db:"about_role"`
	Responsibilities string    `json:"responsibilities" db:"responsibilities"`
	Requirements     string    `json:"requirements" db:"requirements"`
	Benefits         string    `json:"benefits" db:"benefits"`
	CompanyInfo      string    `json:"companyInfo" db:"company_info"`
	JobImage         string    `json:"jobImage" db:"job_image"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// JobApplication is a submitted application; one per (job, user)
type JobApplication struct {
	ID          int64     `json:"applicationId" db:"id" example:"1"`
	JobID       int64     `json:"jobId" db:"job_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	FirstName   string    `json:"firstName" db:"first_name"`
	LastName    string    `json:"lastName" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	Resume      string    `json:"resume" db:"resume" example:"resume-1700000000000.pdf"`
	AppliedAt   time.Time `json:"appliedAt" db:"applied_at"`

	// Populated by listing queries that join jobs
	JobTitle string `json:"jobTitle,omitempty" db:"-"`
	Company  string `json:"company,omitempty" db:"-"`
}

// JobApplicationCount is the number of applications received by one job
type JobApplicationCount struct {
	JobID   int64  `json:"jobId"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Count   int64  `json:"count"`
}

// JobStatistics summarises jobs and applications for the admin dashboard
type JobStatistics struct {
	TotalJobs          int64                 `json:"totalJobs"`
	TotalApplications  int64                 `json:"totalApplications"`
	TotalUsers         int64                 `json:"totalUsers"`
	ApplicationsPerJob []JobApplicationCount `json:"applicationsPerJob"`
}

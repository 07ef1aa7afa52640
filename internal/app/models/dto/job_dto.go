package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gamage-recruiters/platform/internal/app/models"
)

// FlexText is a structured job text field. Clients send either a plain string or a
// JSON array of strings; arrays are kept JSON-encoded.
type FlexText string

// UnmarshalJSON accepts a JSON string or a JSON array
func (f *FlexText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*f = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexText(s).Normalize()
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []interface{}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return err
		}
		*f = FlexText(buf.String())
	default:
		return fmt.Errorf("expected a string or an array, got %s", string(trimmed))
	}
	return nil
}

// Normalize compacts a value that already holds a JSON array and trims plain text.
// Multipart forms deliver arrays as their JSON text.
func (f FlexText) Normalize() FlexText {
	s := strings.TrimSpace(string(f))
	if strings.HasPrefix(s, "[") && json.Valid([]byte(s)) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(s)); err == nil {
			return FlexText(buf.String())
		}
	}
	return FlexText(s)
}

// JobRequest is the body of the job create and update endpoints. It binds from JSON
// or from a multipart form carrying an optional jobImage file.
type JobRequest struct {
	Title            string   `json:"title" form:"title" binding:"required,notblank,max=200" example:"Software Engineer"`
	Company          string   `json:"company" form:"company" binding:"required,notblank,max=200" example:"Acme"`
	Location         string   `json:"location" form:"location" example:"Colombo"`
	JobType          string   `json:"jobType" form:"jobType" example:"Full-time"`
	AboutRole        FlexText `json:"aboutRole" form:"aboutRole" binding:"required,notblank" swaggertype:"string"`
	Responsibilities FlexText `json:"responsibilities" form:"responsibilities" binding:"required,notblank" swaggertype:"string"`
	Requirements     FlexText `json:"requirements" form:"requirements" binding:"required,notblank" swaggertype:"string"`
	Benefits         FlexText `json:"benefits" form:"benefits" binding:"required,notblank" swaggertype:"string"`
	CompanyInfo      FlexText `json:"companyInfo" form:"companyInfo" binding:"required,notblank" swaggertype:"string"`
}

// ToModel copies the request onto a job model
func (r *JobRequest) ToModel() *models.Job {
	return &models.Job{
		Title:            strings.TrimSpace(r.Title),
		Company:          strings.TrimSpace(r.Company),
		Location:         strings.TrimSpace(r.Location),
		JobType:          strings.TrimSpace(r.JobType),
		AboutRole:        string(r.AboutRole.Normalize()),
		Responsibilities: string(r.Responsibilities.Normalize()),
		Requirements:     string(r.Requirements.Normalize()),
		Benefits:         string(r.Benefits.Normalize()),
		CompanyInfo:      string(r.CompanyInfo.Normalize()),
	}
}

// ApplicationRequest is the multipart form of POST /api/jobapplications/apply.
// The resume file is sent in the same form; presence checks run in the application service.
type ApplicationRequest struct {
	FirstName   string `form:"firstName" example:"Jane"`
	LastName    string `form:"lastName" example:"Public"`
	Email       string `form:"email" example:"jane@example.com"`
	PhoneNumber string `form:"phoneNumber" example:"+94771234567"`
	Job         string `form:"job" example:"Software Engineer"`
	Company     string `form:"company" example:"Acme"`
}

// AppliedJobResponse is one job a user has applied for
type AppliedJobResponse struct {
	ApplicationID int64  `json:"applicationId" example:"1"`
	JobID         int64  `json:"jobId" example:"1"`
	JobTitle      string `json:"jobTitle" example:"Software Engineer"`
	Company       string `json:"company" example:"Acme"`
	Resume        string `json:"resume" example:"resume-1700000000000.pdf"`
	AppliedAt     string `json:"appliedAt" example:"2025-04-23T12:01:05Z"`
}

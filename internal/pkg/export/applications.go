package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"github.com/gamage-recruiters/platform/internal/app/models"
)

// SheetName is the worksheet holding exported applications
const SheetName = "Applications"

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var applicationHeaders = []string{
	"Application ID", "Job ID", "Job Title", "Company", "User ID",
	"First Name", "Last Name", "Email", "Phone Number", "Resume", "Applied At",
}

// WriteApplications renders applications as an xlsx workbook into w
func WriteApplications(w io.Writer, applications []models.JobApplication) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range applicationHeaders {
		headerRow.AddCell().Value = header
	}

	for _, app := range applications {
		row := sheet.AddRow()
		row.AddCell().Value = strconv.FormatInt(app.ID, 10)
		row.AddCell().Value = strconv.FormatInt(app.JobID, 10)
		row.AddCell().Value = app.JobTitle
		row.AddCell().Value = app.Company
		row.AddCell().Value = strconv.FormatInt(app.UserID, 10)
		row.AddCell().Value = app.FirstName
		row.AddCell().Value = app.LastName
		row.AddCell().Value = app.Email
		row.AddCell().Value = app.PhoneNumber
		row.AddCell().Value = app.Resume
		row.AddCell().Value = app.AppliedAt.Format("2006-01-02 15:04:05")
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
